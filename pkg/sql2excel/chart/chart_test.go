package chart

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/excel"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
)

func testFrame() *frame.Frame {
	return frame.New(
		[]string{"month", "sales", "target"},
		[][]any{
			{"Jan", 120, 100},
			{"Feb", 95, 100},
			{"Mar", 143, 100},
		},
	)
}

func cellValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell)
	if err != nil {
		t.Fatalf("GetCellValue(%s!%s): %v", sheet, cell, err)
	}
	return v
}

func saveAndReopen(t *testing.T, f *excelize.File) *excelize.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	reopened, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })
	return reopened
}

func TestWriteFrameDefault(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	w := NewWriter(config.Default(), nil, nil)
	if err := w.WriteFrame(f, "Sheet1", testFrame(), Options{}); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	reopened := saveAndReopen(t, f)

	tests := []struct {
		cell     string
		expected string
	}{
		{"A1", "month"},
		{"B1", "sales"},
		{"C1", "target"},
		{"A2", "Jan"},
		{"B2", "120"},
		{"C4", "100"},
	}
	for _, tt := range tests {
		if got := cellValue(t, reopened, "Sheet1", tt.cell); got != tt.expected {
			t.Errorf("%s = %q, expected %q", tt.cell, got, tt.expected)
		}
	}
}

func TestWriteFrameSectionHeading(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	w := NewWriter(config.Default(), nil, nil)
	err := w.WriteFrame(f, "Sheet1", testFrame(), Options{SectionHeading: "Quarterly sales"})
	if err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	reopened := saveAndReopen(t, f)
	if got := cellValue(t, reopened, "Sheet1", "A1"); got != "Quarterly sales" {
		t.Errorf("A1 = %q, expected section heading", got)
	}
	// Heading shifts the data block down one row.
	if got := cellValue(t, reopened, "Sheet1", "A2"); got != "month" {
		t.Errorf("A2 = %q, expected headings row", got)
	}
	if got := cellValue(t, reopened, "Sheet1", "B3"); got != "120" {
		t.Errorf("B3 = %q, expected first data row", got)
	}
}

func TestWriteFrameCustomHeadings(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	w := NewWriter(config.Default(), nil, nil)
	opts := Options{Headings: []string{"Month", "Sales (kEUR)", "Target (kEUR)"}}
	if err := w.WriteFrame(f, "Sheet1", testFrame(), opts); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	reopened := saveAndReopen(t, f)
	if got := cellValue(t, reopened, "Sheet1", "B1"); got != "Sales (kEUR)" {
		t.Errorf("B1 = %q", got)
	}
}

func TestWriteFrameExplicitStart(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	w := NewWriter(config.Default(), nil, nil)
	opts := Options{RowStart: 5, ColumnLetter: "C"}
	if err := w.WriteFrame(f, "Sheet1", testFrame(), opts); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}

	reopened := saveAndReopen(t, f)
	if got := cellValue(t, reopened, "Sheet1", "C5"); got != "month" {
		t.Errorf("C5 = %q, expected headings row", got)
	}
	if got := cellValue(t, reopened, "Sheet1", "D6"); got != "120" {
		t.Errorf("D6 = %q, expected first data value", got)
	}
}

func TestWriteFramesSideBySide(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	w := NewWriter(config.Default(), nil, nil)
	frames := []*frame.Frame{
		frame.New([]string{"name", "count"}, [][]any{{"a", 1}, {"b", 2}}),
		frame.New([]string{"name", "count"}, [][]any{{"c", 3}}),
	}
	opts := Options{TableTitles: []string{"First", "Second"}}
	if err := w.WriteFramesSideBySide(f, "Sheet1", frames, opts); err != nil {
		t.Fatalf("WriteFramesSideBySide: %v", err)
	}

	reopened := saveAndReopen(t, f)
	if got := cellValue(t, reopened, "Sheet1", "A1"); got != "First" {
		t.Errorf("A1 = %q", got)
	}
	if got := cellValue(t, reopened, "Sheet1", "A2"); got != "name" {
		t.Errorf("A2 = %q", got)
	}
	// Second block starts after 2 columns + separator.
	if got := cellValue(t, reopened, "Sheet1", "D1"); got != "Second" {
		t.Errorf("D1 = %q", got)
	}
	if got := cellValue(t, reopened, "Sheet1", "E2"); got != "count" {
		t.Errorf("E2 = %q", got)
	}
}

func TestStackedWritesAdvanceCursor(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	cfg := config.Default()
	helper := excel.NewHelper(cfg, nil)
	w := NewWriter(cfg, helper, nil)

	if err := w.WriteFrame(f, "Sheet1", testFrame(), Options{}); err != nil {
		t.Fatalf("first WriteFrame: %v", err)
	}
	if err := w.WriteFrame(f, "Sheet1", testFrame(), Options{}); err != nil {
		t.Fatalf("second WriteFrame: %v", err)
	}

	reopened := saveAndReopen(t, f)
	// First block ends at row 4; separator of 2 puts the next headings at 7.
	if got := cellValue(t, reopened, "Sheet1", "A7"); got != "month" {
		t.Errorf("A7 = %q, expected second block headings", got)
	}
}

func TestOptionsFromMap(t *testing.T) {
	m := map[string]any{
		"section_heading": "Overview",
		"headings":        []any{"a", "b"},
		"row_start":       3,
		"column_start":    "C",
		"data_columns":    []any{2, 4},
		"title":           "Total",
		"ylim":            []any{0, 100},
		"rotation":        -45,
		"y_orientation":   "maxMin",
		"show_legend":     false,
		"legend_position": "tr",
		"chart_position":  "bottom",
		"line_width":      2.5,
		"smooth":          true,
		"chart_type":      "bar",
	}

	o := OptionsFromMap(m)

	if o.SectionHeading != "Overview" {
		t.Errorf("SectionHeading = %q", o.SectionHeading)
	}
	if len(o.Headings) != 2 || o.Headings[1] != "b" {
		t.Errorf("Headings = %v", o.Headings)
	}
	if o.RowStart != 3 || o.ColumnLetter != "C" {
		t.Errorf("start = (%d, %q)", o.RowStart, o.ColumnLetter)
	}
	if len(o.DataColumns) != 2 || o.DataColumns[1] != 4 {
		t.Errorf("DataColumns = %v", o.DataColumns)
	}
	if o.YLim == nil || o.YLim.Max != 100 {
		t.Errorf("YLim = %v", o.YLim)
	}
	if o.Rotation == nil || *o.Rotation != -45 {
		t.Errorf("Rotation = %v", o.Rotation)
	}
	if !o.ReverseY {
		t.Error("ReverseY not set from y_orientation")
	}
	if o.ShowLegend == nil || *o.ShowLegend {
		t.Errorf("ShowLegend = %v", o.ShowLegend)
	}
	if o.LegendPosition != "top_right" {
		t.Errorf("LegendPosition = %q", o.LegendPosition)
	}
	if o.Position != "bottom" {
		t.Errorf("Position = %q", o.Position)
	}
	if o.LineWidth != 2.5 {
		t.Errorf("LineWidth = %v", o.LineWidth)
	}
	if o.Smooth == nil || !*o.Smooth {
		t.Errorf("Smooth = %v", o.Smooth)
	}
	if o.ChartType != "bar" {
		t.Errorf("ChartType = %q", o.ChartType)
	}
}

func TestLegendPosition(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"b", "bottom"},
		{"t", "top"},
		{"l", "left"},
		{"r", "right"},
		{"tr", "top_right"},
		{"bottom", "bottom"},
	}
	for _, tt := range tests {
		if got := LegendPosition(tt.in); got != tt.expected {
			t.Errorf("LegendPosition(%q) = %q, expected %q", tt.in, got, tt.expected)
		}
	}
}
