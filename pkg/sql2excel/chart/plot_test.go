package chart

import (
	"archive/zip"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
)

// saveWorkbook writes the workbook to a temp file and returns its path.
func saveWorkbook(t *testing.T, f *excelize.File) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	return path
}

// readArchiveFile reads one file out of the saved xlsx package.
func readArchiveFile(t *testing.T, xlsxPath, name string) string {
	t.Helper()
	r, err := zip.OpenReader(xlsxPath)
	if err != nil {
		t.Fatalf("open xlsx package: %v", err)
	}
	defer r.Close()

	for _, file := range r.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("%s not found in package", name)
	return ""
}

func hasArchiveFile(t *testing.T, xlsxPath, name string) bool {
	t.Helper()
	r, err := zip.OpenReader(xlsxPath)
	if err != nil {
		t.Fatalf("open xlsx package: %v", err)
	}
	defer r.Close()
	for _, file := range r.File {
		if file.Name == name {
			return true
		}
	}
	return false
}

func TestPlotKinds(t *testing.T) {
	tests := []struct {
		kind        string
		opts        Options
		expectedTag string
	}{
		{"line", Options{}, "lineChart"},
		{"bar", Options{}, "barChart"},
		{"stackedbar", Options{}, "barChart"},
		{"pie", Options{DataColumnStart: 2, DataColumnEnd: 2}, "pieChart"},
		{"area", Options{}, "areaChart"},
		{"scatter", Options{}, "scatterChart"},
		{"radar", Options{}, "radarChart"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			f := excelize.NewFile()
			defer f.Close()

			p, ok := New(tt.kind, config.Default(), nil, nil)
			if !ok {
				t.Fatalf("unknown kind %q", tt.kind)
			}
			if err := p.Plot(f, "Sheet1", testFrame(), tt.opts); err != nil {
				t.Fatalf("Plot: %v", err)
			}

			path := saveWorkbook(t, f)
			chartXML := readArchiveFile(t, path, "xl/charts/chart1.xml")
			if !strings.Contains(chartXML, tt.expectedTag) {
				t.Errorf("chart XML missing %q element", tt.expectedTag)
			}
		})
	}
}

func TestPlotBubble(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	fr := frame.New(
		[]string{"label", "x", "y", "size"},
		[][]any{
			{"a", 1.0, 2.0, 10.0},
			{"b", 3.0, 4.0, 20.0},
		},
	)

	p := NewBubble(config.Default(), nil, nil)
	if err := p.Plot(f, "Sheet1", fr, Options{}); err != nil {
		t.Fatalf("Plot: %v", err)
	}

	path := saveWorkbook(t, f)
	chartXML := readArchiveFile(t, path, "xl/charts/chart1.xml")
	if !strings.Contains(chartXML, "bubbleChart") {
		t.Error("chart XML missing bubbleChart element")
	}
	// One series per data row.
	if got := strings.Count(chartXML, "<c:ser>"); got != 2 {
		t.Errorf("series count = %d, expected 2", got)
	}
}

func TestPlotBarLineCombo(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	fr := frame.New(
		[]string{"month", "revenue", "growth"},
		[][]any{
			{"Jan", 100, 1.2},
			{"Feb", 110, 1.1},
			{"Mar", 140, 1.3},
		},
	)

	p := NewBarLine(config.Default(), nil, nil)
	if err := p.Plot(f, "Sheet1", fr, Options{}); err != nil {
		t.Fatalf("Plot: %v", err)
	}

	path := saveWorkbook(t, f)
	chartXML := readArchiveFile(t, path, "xl/charts/chart1.xml")
	if !strings.Contains(chartXML, "barChart") {
		t.Error("chart XML missing barChart half")
	}
	if !strings.Contains(chartXML, "lineChart") {
		t.Error("chart XML missing lineChart half")
	}
}

func TestPlotDataColumnSelection(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	fr := frame.New(
		[]string{"month", "a", "b", "c"},
		[][]any{
			{"Jan", 1, 2, 3},
			{"Feb", 4, 5, 6},
		},
	)

	p := NewLine(config.Default(), nil, nil)
	opts := Options{DataColumns: []int{2, 4}, UseRefLine: boolPtr(false)}
	if err := p.Plot(f, "Sheet1", fr, opts); err != nil {
		t.Fatalf("Plot: %v", err)
	}

	path := saveWorkbook(t, f)
	chartXML := readArchiveFile(t, path, "xl/charts/chart1.xml")
	if got := strings.Count(chartXML, "<c:ser>"); got != 2 {
		t.Errorf("series count = %d, expected 2", got)
	}
	if !strings.Contains(chartXML, "$B$") || !strings.Contains(chartXML, "$D$") {
		t.Error("selected columns missing from series references")
	}
	if strings.Contains(chartXML, "$C$2:$C$") {
		t.Error("unselected column C referenced as series values")
	}
}

func TestPlotLineRefSeries(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	// The target column is constant, so it is drawn as the baseline.
	p := NewLine(config.Default(), nil, nil)
	if err := p.Plot(f, "Sheet1", testFrame(), Options{}); err != nil {
		t.Fatalf("Plot: %v", err)
	}

	path := saveWorkbook(t, f)
	chartXML := readArchiveFile(t, path, "xl/charts/chart1.xml")
	if !strings.Contains(chartXML, config.Default().RefLineColor) {
		t.Errorf("chart XML missing baseline color %s", config.Default().RefLineColor)
	}
}

func TestPlotRadarExplicitLimits(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	p := NewRadar(config.Default(), nil, nil)
	opts := Options{YLim: &Limit{Min: 0, Max: 10}, YMajorUnit: 2}
	if err := p.Plot(f, "Sheet1", testFrame(), opts); err != nil {
		t.Fatalf("Plot: %v", err)
	}

	path := saveWorkbook(t, f)
	chartXML := readArchiveFile(t, path, "xl/charts/chart1.xml")
	// Explicit axis options win over the data-extent scaling.
	if !strings.Contains(chartXML, `<c:max val="10"/>`) {
		t.Error("explicit axis maximum overwritten")
	}
	if strings.Contains(chartXML, `<c:max val="143.5"/>`) {
		t.Error("data-extent maximum applied despite explicit limits")
	}
	if !strings.Contains(chartXML, `val="2"`) {
		t.Error("explicit major unit missing")
	}
}

func TestPlotBottomPosition(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	cfg := config.Default()
	p := NewLine(cfg, nil, nil)
	if err := p.Plot(f, "Sheet1", testFrame(), Options{Position: "bottom"}); err != nil {
		t.Fatalf("Plot: %v", err)
	}

	// The rows covered by the chart are reserved below the data block.
	if got := p.helper.LastRow("Sheet1"); got <= 4 {
		t.Errorf("LastRow = %d, expected rows reserved past the data block", got)
	}

	path := saveWorkbook(t, f)
	if !hasArchiveFile(t, path, "xl/charts/chart1.xml") {
		t.Error("chart not written")
	}
}

func TestPlotUnknownPositionSkipsChart(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	p := NewLine(config.Default(), nil, nil)
	opts := Options{Position: "left", SuppressPositionWarning: true}
	if err := p.Plot(f, "Sheet1", testFrame(), opts); err != nil {
		t.Fatalf("Plot: %v", err)
	}

	path := saveWorkbook(t, f)
	if hasArchiveFile(t, path, "xl/charts/chart1.xml") {
		t.Error("chart added despite unknown position")
	}
}

func TestFigureImagePath(t *testing.T) {
	imgPath := filepath.Join(t.TempDir(), "pic.png")
	writeTestPNG(t, imgPath)

	f := excelize.NewFile()
	defer f.Close()

	p := NewFigure(config.Default(), nil, nil)
	if err := p.Plot(f, "Sheet1", testFrame(), Options{ImagePath: imgPath}); err != nil {
		t.Fatalf("Plot: %v", err)
	}

	path := saveWorkbook(t, f)
	if !hasArchiveFile(t, path, "xl/media/image1.png") {
		t.Error("embedded image not found in package")
	}
}

func TestFigureRendered(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	p := NewFigure(config.Default(), nil, nil)
	if err := p.Plot(f, "Sheet1", testFrame(), Options{FigureKind: "bar"}); err != nil {
		t.Fatalf("Plot: %v", err)
	}

	path := saveWorkbook(t, f)
	if !hasArchiveFile(t, path, "xl/media/image1.png") {
		t.Error("rendered figure not found in package")
	}
}

func TestNewUnknownKind(t *testing.T) {
	if _, ok := New("gantt", config.Default(), nil, nil); ok {
		t.Error("unknown kind accepted")
	}
	if _, ok := New("Stacked Bar", config.Default(), nil, nil); !ok {
		t.Error("kind normalization failed")
	}
}

func boolPtr(b bool) *bool { return &b }

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	out, err := os.Create(path)
	if err != nil {
		t.Fatalf("create png: %v", err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
}
