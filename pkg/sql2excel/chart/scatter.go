package chart

import (
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/excel"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
)

// Scatter plots an x/y scatter chart. The first column provides the x values
// and every selected data column becomes a point series. Points are not
// connected unless explicitly requested.
type Scatter struct {
	base
}

// NewScatter creates a scatter chart plotter.
func NewScatter(cfg config.Config, helper *excel.Helper, log *zap.Logger) *Scatter {
	return &Scatter{base: newBase(cfg, helper, log)}
}

// Plot writes the frame and anchors a scatter chart next to it.
func (p *Scatter) Plot(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error {
	if err := p.writeFrame(f, sheet, fr, opts); err != nil {
		return err
	}

	series := p.series(sheet, fr, opts)

	connect := opts.Smooth != nil && *opts.Smooth
	symbols := opts.MarkerSymbols
	if len(symbols) == 0 {
		symbols = p.cfg.MarkerSymbols
	}
	size := opts.MarkerSize
	if size == 0 {
		size = p.cfg.MarkerSize
	}

	for idx := range series {
		if connect {
			series[idx].Line = excelize.ChartLine{Type: excelize.ChartLineSolid, Width: p.cfg.LineWidth}
		} else {
			series[idx].Line = excelize.ChartLine{Type: excelize.ChartLineNone}
		}

		symbol := opts.MarkerSymbol
		if symbol == "" && len(symbols) > 0 {
			symbol = symbols[idx%len(symbols)]
		}
		marker := excelize.ChartMarker{Symbol: symbol, Size: size}
		if !p.cfg.DefaultColors && !opts.DefaultColors {
			marker.Fill = solidFill(p.paletteColor(idx))
		}
		series[idx].Marker = marker
	}

	ch := p.newChart(excelize.Scatter, series, opts)
	return p.anchor(f, sheet, ch, opts)
}
