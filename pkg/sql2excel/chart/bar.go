package chart

import (
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/excel"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
)

// Bar plots a clustered bar chart, vertical ("col", the default) or
// horizontal ("bar").
type Bar struct {
	base
}

// NewBar creates a bar chart plotter.
func NewBar(cfg config.Config, helper *excel.Helper, log *zap.Logger) *Bar {
	return &Bar{base: newBase(cfg, helper, log)}
}

// Plot writes the frame and anchors a bar chart next to it.
func (p *Bar) Plot(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error {
	if err := p.writeFrame(f, sheet, fr, opts); err != nil {
		return err
	}

	series := p.series(sheet, fr, opts)

	vary := p.cfg.BarVaryColors
	if opts.VaryColors != nil {
		vary = *opts.VaryColors
	}
	// A single varied-color series colors every bar individually; the legend
	// would only repeat the category labels.
	varyApplied := vary && len(series) == 1
	if varyApplied {
		hide := false
		opts.ShowLegend = &hide
	} else {
		p.fillSeries(series, opts)
	}

	ch := p.newChart(barType(opts.ChartType), series, opts)
	if varyApplied {
		t := true
		ch.VaryColors = &t
	}
	return p.anchor(f, sheet, ch, opts)
}

func barType(direction string) excelize.ChartType {
	if direction == "bar" {
		return excelize.Bar
	}
	return excelize.Col
}

// StackedBar plots a stacked or percent-stacked bar chart.
type StackedBar struct {
	base
}

// NewStackedBar creates a stacked bar chart plotter.
func NewStackedBar(cfg config.Config, helper *excel.Helper, log *zap.Logger) *StackedBar {
	return &StackedBar{base: newBase(cfg, helper, log)}
}

// Plot writes the frame and anchors a stacked bar chart next to it. The
// grouping defaults to percent-stacked.
func (p *StackedBar) Plot(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error {
	if err := p.writeFrame(f, sheet, fr, opts); err != nil {
		return err
	}

	series := p.series(sheet, fr, opts)
	p.fillSeries(series, opts)

	ch := p.newChart(stackedBarType(opts.ChartType, opts.Grouping), series, opts)
	return p.anchor(f, sheet, ch, opts)
}

func stackedBarType(direction, grouping string) excelize.ChartType {
	horizontal := direction == "bar"
	if grouping == "stacked" {
		if horizontal {
			return excelize.BarStacked
		}
		return excelize.ColStacked
	}
	if horizontal {
		return excelize.BarPercentStacked
	}
	return excelize.ColPercentStacked
}
