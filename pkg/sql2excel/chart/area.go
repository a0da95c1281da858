package chart

import (
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/excel"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
)

// Area plots an area chart, optionally stacked.
type Area struct {
	base
}

// NewArea creates an area chart plotter.
func NewArea(cfg config.Config, helper *excel.Helper, log *zap.Logger) *Area {
	return &Area{base: newBase(cfg, helper, log)}
}

// Plot writes the frame and anchors an area chart next to it.
func (p *Area) Plot(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error {
	if err := p.writeFrame(f, sheet, fr, opts); err != nil {
		return err
	}

	series := p.series(sheet, fr, opts)
	p.fillSeries(series, opts)

	ch := p.newChart(areaType(opts.Grouping), series, opts)
	return p.anchor(f, sheet, ch, opts)
}

func areaType(grouping string) excelize.ChartType {
	switch grouping {
	case "stacked":
		return excelize.AreaStacked
	case "percentStacked":
		return excelize.AreaPercentStacked
	default:
		return excelize.Area
	}
}
