package chart

import (
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/excel"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
)

// Pie plots a pie chart from the first data column, with configurable data
// labels.
type Pie struct {
	base
}

// NewPie creates a pie chart plotter.
func NewPie(cfg config.Config, helper *excel.Helper, log *zap.Logger) *Pie {
	return &Pie{base: newBase(cfg, helper, log)}
}

// Plot writes the frame and anchors a pie chart next to it.
func (p *Pie) Plot(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error {
	if err := p.writeFrame(f, sheet, fr, opts); err != nil {
		return err
	}

	series := p.series(sheet, fr, opts)

	ch := p.newChart(excelize.Pie, series, opts)
	ch.PlotArea = excelize.ChartPlotArea{
		ShowPercent: boolOr(opts.ShowPercent, p.cfg.ShowPercent),
		ShowCatName: boolOr(opts.ShowCatName, p.cfg.ShowCatName),
		ShowVal:     boolOr(opts.ShowVal, p.cfg.ShowVal),
		ShowSerName: boolOr(opts.ShowSerName, p.cfg.ShowSerName),
	}
	ch.Legend.ShowLegendKey = boolOr(opts.ShowLegendKey, p.cfg.ShowLegendKey)

	// Color each slice individually.
	if !p.cfg.DefaultColors && !opts.DefaultColors {
		t := true
		ch.VaryColors = &t
	}

	return p.anchor(f, sheet, ch, opts)
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}
