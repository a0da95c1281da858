package chart

import (
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/excel"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
)

// Line plots a line chart. A data column holding a single repeated value is
// rendered as the reference line.
type Line struct {
	base
}

// NewLine creates a line chart plotter.
func NewLine(cfg config.Config, helper *excel.Helper, log *zap.Logger) *Line {
	return &Line{base: newBase(cfg, helper, log)}
}

// Plot writes the frame and anchors a line chart next to it.
func (p *Line) Plot(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error {
	if err := p.writeFrame(f, sheet, fr, opts); err != nil {
		return err
	}

	series := p.series(sheet, fr, opts)
	p.styleLineSeries(series, opts, p.cfg.RefLineWidth, true)

	ch := p.newChart(excelize.Line, series, opts)
	return p.anchor(f, sheet, ch, opts)
}

// styleLineSeries applies line width, smoothing, colors and markers to line
// or radar series. The reference series keeps its configured styling
// regardless of the palette settings, and does not consume a palette slot.
func (b *base) styleLineSeries(series []excelize.ChartSeries, opts Options, refWidth float64, smoothable bool) {
	width := opts.LineWidth
	if width == 0 {
		width = b.cfg.LineWidth
	}

	smooth := false
	if smoothable {
		smooth = b.cfg.LineSmooth
		if opts.Smooth != nil {
			smooth = *opts.Smooth
		}
	}

	refFound := 0
	for idx := range series {
		if idx == b.refSeries {
			refFound = 1
			series[idx].Line = excelize.ChartLine{
				Type:   excelize.ChartLineSolid,
				Width:  refWidth,
				Smooth: smooth,
			}
			series[idx].Fill = solidFill(b.cfg.RefLineColor)
			continue
		}

		color := ""
		if !b.cfg.DefaultColors && !opts.DefaultColors {
			color = b.paletteColor(idx - refFound)
		}
		if opts.LineColor != "" {
			color = opts.LineColor
		}

		line := excelize.ChartLine{Type: excelize.ChartLineSolid, Width: width, Smooth: smooth}
		if opts.NoFill {
			line = excelize.ChartLine{Type: excelize.ChartLineNone}
		}
		series[idx].Line = line
		if color != "" && !opts.NoFill {
			series[idx].Fill = solidFill(color)
		}

		if opts.MarkerSymbol != "" {
			size := opts.MarkerSize
			if size == 0 {
				size = b.cfg.MarkerSize
			}
			marker := excelize.ChartMarker{Symbol: opts.MarkerSymbol, Size: size}
			if color != "" {
				marker.Fill = solidFill(color)
			}
			series[idx].Marker = marker
		}
	}
}
