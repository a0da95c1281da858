package chart

import (
	"math"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/excel"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
)

// Radar plots a radar (spider) chart. The value axis is scaled from the data
// extent so all spokes share a readable range.
type Radar struct {
	base
}

// NewRadar creates a radar chart plotter.
func NewRadar(cfg config.Config, helper *excel.Helper, log *zap.Logger) *Radar {
	return &Radar{base: newBase(cfg, helper, log)}
}

// Plot writes the frame and anchors a radar chart next to it.
func (p *Radar) Plot(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error {
	if err := p.writeFrame(f, sheet, fr, opts); err != nil {
		return err
	}

	series := p.series(sheet, fr, opts)

	if opts.LineWidth == 0 {
		opts.LineWidth = p.cfg.RadarRefWidth
	}
	p.styleLineSeries(series, opts, p.cfg.RadarRefWidth, false)

	ch := p.newChart(excelize.Radar, series, opts)

	// Scale the value axis from the data extent unless explicit axis options
	// already set it.
	minVal, maxVal := p.dataExtent(fr)
	if opts.YMajorUnit == 0 {
		if unit := p.valueUnit(opts, minVal, maxVal); unit > 0 {
			ch.YAxis.MajorUnit = unit
		}
	}
	if opts.YLim == nil {
		minimum := 0.0
		maximum := maxVal + 0.5
		ch.YAxis.Minimum = &minimum
		ch.YAxis.Maximum = &maximum
	}

	return p.anchor(f, sheet, ch, opts)
}

// dataExtent returns the minimum and maximum over the series columns.
func (p *Radar) dataExtent(fr *frame.Frame) (minVal, maxVal float64) {
	first := true
	for _, col := range p.dataColumns {
		for _, v := range fr.Numeric(col - 1) {
			if first {
				minVal, maxVal = v, v
				first = false
				continue
			}
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	return minVal, maxVal
}

// valueUnit resolves the value-axis unit: an explicit unit wins, otherwise
// the data extent divided into the requested number of steps.
func (p *Radar) valueUnit(opts Options, minVal, maxVal float64) float64 {
	if opts.RadarUnit > 0 {
		return opts.RadarUnit
	}
	steps := opts.RadarUnitSteps
	if steps == 0 {
		steps = p.cfg.RadarUnitSteps
	}
	if steps <= 0 {
		return 0
	}
	unit := (maxVal - minVal) / float64(steps)
	if unit < 1 {
		return math.Round(unit*10) / 10
	}
	return math.Round(unit)
}
