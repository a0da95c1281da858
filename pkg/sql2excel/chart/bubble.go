package chart

import (
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/excel"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
)

// Bubble plots a bubble chart. Each row of the frame becomes one series: the
// first data column supplies x, the second y, and the third the bubble size.
// The category column labels the series.
type Bubble struct {
	base
}

// NewBubble creates a bubble chart plotter.
func NewBubble(cfg config.Config, helper *excel.Helper, log *zap.Logger) *Bubble {
	return &Bubble{base: newBase(cfg, helper, log)}
}

// Plot writes the frame and anchors a bubble chart next to it.
func (p *Bubble) Plot(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error {
	if err := p.writeFrame(f, sheet, fr, opts); err != nil {
		return err
	}

	rows, _ := fr.Shape()
	series := make([]excelize.ChartSeries, 0, rows)
	for i := 1; i <= rows; i++ {
		row := p.minRow + i
		series = append(series, excelize.ChartSeries{
			Name:       excel.CellRef(sheet, p.minCol-1, row),
			Categories: excel.RangeRef(sheet, p.minCol, row, p.minCol, row),
			Values:     excel.RangeRef(sheet, p.minCol+1, row, p.minCol+1, row),
			Sizes:      excel.RangeRef(sheet, p.minCol+2, row, p.minCol+2, row),
		})
	}
	p.fillSeries(series, opts)

	ch := p.newChart(excelize.Bubble, series, opts)
	return p.anchor(f, sheet, ch, opts)
}
