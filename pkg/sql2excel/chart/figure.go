package chart

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/excel"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
)

// Figure embeds a rendered picture instead of a native chart: either a PNG
// rendered from the frame, or an image file referenced by the options.
type Figure struct {
	base
}

// NewFigure creates a picture plotter.
func NewFigure(cfg config.Config, helper *excel.Helper, log *zap.Logger) *Figure {
	return &Figure{base: newBase(cfg, helper, log)}
}

// Plot writes the frame, renders or loads the picture and places it next to
// the data block.
func (p *Figure) Plot(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error {
	if fr != nil {
		if err := p.writeFrame(f, sheet, fr, opts); err != nil {
			return err
		}
	} else if err := p.helper.EnsureSheet(f, sheet); err != nil {
		return err
	}

	var (
		img []byte
		ext string
		err error
	)
	if opts.ImagePath != "" {
		img, err = os.ReadFile(opts.ImagePath)
		if err != nil {
			return fmt.Errorf("read image %s: %w", opts.ImagePath, err)
		}
		ext = strings.ToLower(filepath.Ext(opts.ImagePath))
	} else {
		if fr == nil {
			return fmt.Errorf("figure needs a frame or an image path")
		}
		img, err = p.renderPNG(fr, opts)
		if err != nil {
			return fmt.Errorf("render figure: %w", err)
		}
		ext = ".png"
	}

	return p.place(f, sheet, fr, opts, img, ext)
}

// renderPNG draws the frame with go-chart. FigureKind selects the drawing:
// "bar" plots the first data column as a bar per row, anything else plots
// each data column as a line over the row index or a numeric first column.
func (p *Figure) renderPNG(fr *frame.Frame, opts Options) ([]byte, error) {
	width := p.cfg.ImageWidth
	if opts.Width > 0 {
		width = int(opts.Width)
	}
	height := p.cfg.ImageHeight
	if opts.Height > 0 {
		height = int(opts.Height)
	}

	var buf bytes.Buffer
	if opts.FigureKind == "bar" {
		ch := gochart.BarChart{
			Title:  opts.Title,
			Width:  width,
			Height: height,
			Background: gochart.Style{
				Padding: gochart.Box{Top: 40},
			},
			Bars: p.barValues(fr),
		}
		if err := ch.Render(gochart.PNG, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	ch := gochart.Chart{
		Title:  opts.Title,
		Width:  width,
		Height: height,
		Series: p.lineSeries(fr),
	}
	if opts.YLabel != "" {
		ch.YAxis = gochart.YAxis{Name: opts.YLabel}
	}
	if opts.XLabel != "" {
		ch.XAxis = gochart.XAxis{Name: opts.XLabel}
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// barValues turns the first data column into labelled bars.
func (p *Figure) barValues(fr *frame.Frame) []gochart.Value {
	rows, cols := fr.Shape()
	if cols < 2 {
		return nil
	}
	values := make([]gochart.Value, 0, rows)
	for i := 0; i < rows; i++ {
		v, ok := frame.AsFloat(fr.Rows[i][1])
		if !ok {
			continue
		}
		values = append(values, gochart.Value{
			Label: fmt.Sprint(fr.Rows[i][0]),
			Value: v,
		})
	}
	return values
}

// lineSeries turns every data column into a continuous series. The x values
// come from the first column when it is numeric, otherwise from the row
// index.
func (p *Figure) lineSeries(fr *frame.Frame) []gochart.Series {
	rows, cols := fr.Shape()

	xs := make([]float64, rows)
	numericX := rows > 0
	for i := 0; i < rows; i++ {
		v, ok := frame.AsFloat(fr.Rows[i][0])
		if !ok {
			numericX = false
			break
		}
		xs[i] = v
	}
	if !numericX {
		for i := range xs {
			xs[i] = float64(i + 1)
		}
	}

	series := make([]gochart.Series, 0, cols-1)
	for c := 1; c < cols; c++ {
		ys := make([]float64, rows)
		for i := 0; i < rows; i++ {
			v, _ := frame.AsFloat(fr.Rows[i][c])
			ys[i] = v
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    fr.Columns[c],
			XValues: xs,
			YValues: ys,
		})
	}
	return series
}

// place adds the picture next to or below the data block and reserves the
// rows it covers.
func (p *Figure) place(f *excelize.File, sheet string, fr *frame.Frame, opts Options, img []byte, ext string) error {
	pic := &excelize.Picture{
		Extension: ext,
		File:      img,
		Format:    &excelize.GraphicOptions{},
	}

	position := opts.Position
	if position == "" {
		position = p.cfg.ChartPosition
	}

	height := p.cfg.ImageHeight
	if opts.Height > 0 {
		height = int(opts.Height)
	}

	if fr == nil {
		rowStart, colStart := p.helper.StartingPosition(sheet, opts.RowStart, p.columnStart(opts))
		if err := f.AddPictureFromBytes(sheet, excel.Anchor(colStart, rowStart), pic); err != nil {
			return err
		}
		p.helper.ReserveChartRows(sheet, rowStart, float64(height))
		return nil
	}

	switch position {
	case config.PositionBottom:
		row := p.maxRow + p.cfg.DataChartSeparator + 1
		if err := f.AddPictureFromBytes(sheet, excel.Anchor(p.minCol-1, row), pic); err != nil {
			return err
		}
		p.helper.ReserveChartRows(sheet, row, float64(height))
	case config.PositionRight:
		col := p.maxCol + p.cfg.DataChartSeparator + 1
		if err := f.AddPictureFromBytes(sheet, excel.Anchor(col, p.minRow), pic); err != nil {
			return err
		}
		p.helper.ReserveChartRows(sheet, p.minRow, float64(height))
	default:
		if !opts.SuppressPositionWarning {
			p.log.Warn("unknown chart position, picture will not be added",
				zap.String("position", position))
		}
	}
	return nil
}
