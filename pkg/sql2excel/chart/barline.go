package chart

import (
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/excel"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
)

// BarLine plots a combined bar and line chart with two y-axes. The first
// data column is drawn as bars against the primary axis; the remaining
// columns are drawn as lines against the secondary axis.
type BarLine struct {
	base
}

// NewBarLine creates a combined bar and line chart plotter.
func NewBarLine(cfg config.Config, helper *excel.Helper, log *zap.Logger) *BarLine {
	return &BarLine{base: newBase(cfg, helper, log)}
}

// Plot writes the frame and anchors the combined chart next to it.
func (p *BarLine) Plot(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error {
	if err := p.writeFrame(f, sheet, fr, opts); err != nil {
		return err
	}

	primary, secondary := p.splitColumns(fr, opts.DataColumns)

	barOpts := opts
	barOpts.DataColumns = primary
	barSeries := p.series(sheet, fr, barOpts)

	lineOpts := opts
	lineOpts.DataColumns = secondary
	lineSeries := p.series(sheet, fr, lineOpts)
	p.styleBarLineSeries(lineSeries, opts)

	barChart := p.newChart(excelize.Col, barSeries, opts)

	lineChart := &excelize.Chart{Type: excelize.Line, Series: lineSeries}
	lineChart.YAxis.Secondary = true
	p.applyYAxis(&lineChart.YAxis, opts.YLabel2, opts.YLim2, opts.YMajorUnit2, opts.YLogBase2, opts.ReverseY2, "")

	return p.anchor(f, sheet, barChart, opts, lineChart)
}

// splitColumns divides the selected data columns into the bar column and the
// line columns. Without an explicit selection, the first data column feeds
// the bars and the rest feed the lines.
func (p *BarLine) splitColumns(fr *frame.Frame, dataColumns []int) (primary, secondary []int) {
	if len(dataColumns) > 0 {
		primary = dataColumns[:1]
		if len(dataColumns) > 1 {
			secondary = dataColumns[1:]
		}
		return primary, secondary
	}

	_, cols := fr.Shape()
	primary = []int{2}
	for c := 3; c <= cols; c++ {
		secondary = append(secondary, c)
	}
	return primary, secondary
}

// styleBarLineSeries styles the secondary-axis lines: markers and palette
// colors offset by one slot so the lines do not repeat the bar color.
func (p *BarLine) styleBarLineSeries(series []excelize.ChartSeries, opts Options) {
	width := opts.LineWidth
	if width == 0 {
		width = p.cfg.LineWidth
	}
	smooth := true
	if opts.Smooth != nil {
		smooth = *opts.Smooth
	}
	size := opts.MarkerSize
	if size == 0 {
		size = p.cfg.MarkerSize
	}
	symbol := opts.MarkerSymbol
	if symbol == "" {
		symbol = "circle"
	}

	for idx := range series {
		color := ""
		if !p.cfg.DefaultColors && !opts.DefaultColors {
			color = p.paletteColor(idx + 1)
		}
		if opts.LineColor != "" {
			color = opts.LineColor
		}

		series[idx].Line = excelize.ChartLine{Type: excelize.ChartLineSolid, Width: width, Smooth: smooth}
		marker := excelize.ChartMarker{Symbol: symbol, Size: size}
		if color != "" {
			series[idx].Fill = solidFill(color)
			marker.Fill = solidFill(color)
		}
		series[idx].Marker = marker
	}
}
