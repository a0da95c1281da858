// Package chart writes tabular frames into worksheets and derives charts from
// them. Each chart kind shares the same data-range bookkeeping: the frame is
// written as a block whose first column is the category axis, the remaining
// columns become series, and the chart object is anchored next to or below
// the block.
package chart

import (
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/excel"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
)

// Plotter writes a frame and its chart into a worksheet.
type Plotter interface {
	Plot(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error
}

// base carries the shared bookkeeping for one data block: the cell range the
// frame occupies and which of its columns feed the chart.
type base struct {
	cfg    config.Config
	helper *excel.Helper
	log    *zap.Logger

	// Data range. minRow is the headings row; minCol is the first data
	// column (the column before it holds the categories).
	minRow int
	minCol int
	maxRow int
	maxCol int

	// 1-based data block columns used as series, in series order.
	dataColumns []int

	// Index into the series slice of the reference (baseline) series, -1 if
	// none was detected.
	refSeries int
}

func newBase(cfg config.Config, helper *excel.Helper, log *zap.Logger) base {
	if helper == nil {
		helper = excel.NewHelper(cfg, log)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return base{cfg: cfg, helper: helper, log: log, refSeries: -1}
}

// Writer writes data blocks without deriving a chart.
type Writer struct {
	base
}

// NewWriter creates a chart-less table writer.
func NewWriter(cfg config.Config, helper *excel.Helper, log *zap.Logger) *Writer {
	return &Writer{base: newBase(cfg, helper, log)}
}

// Plot writes the frame as a plain data block.
func (w *Writer) Plot(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error {
	return w.writeFrame(f, sheet, fr, opts)
}

// WriteFrame writes the frame as a plain data block. The first column is
// treated as the category axis by any chart later derived from the block.
func (w *Writer) WriteFrame(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error {
	return w.writeFrame(f, sheet, fr, opts)
}

// WriteFramesSideBySide writes several frames into one row of blocks,
// separated by the configured number of columns. Per-frame titles come from
// opts.TableTitles, per-frame column headings from opts.HeadingsPerFrame.
func (w *Writer) WriteFramesSideBySide(f *excelize.File, sheet string, frames []*frame.Frame, opts Options) error {
	return w.writeFramesSideBySide(f, sheet, frames, opts)
}

func (b *base) columnStart(opts Options) int {
	if opts.ColumnLetter != "" {
		return b.helper.ColumnNumber(opts.ColumnLetter)
	}
	return opts.ColumnStart
}

func (b *base) writeFrame(f *excelize.File, sheet string, fr *frame.Frame, opts Options) error {
	if err := b.helper.EnsureSheet(f, sheet); err != nil {
		return err
	}

	rowStart, colStart := b.helper.StartingPosition(sheet, opts.RowStart, b.columnStart(opts))

	if opts.SectionHeading != "" {
		if err := f.SetCellValue(sheet, excel.Anchor(colStart, rowStart), opts.SectionHeading); err != nil {
			return err
		}
		b.helper.ApplySectionHeadingFont(f, sheet, colStart, rowStart)
		rowStart++
	}

	rows, cols := fr.Shape()
	b.minRow = rowStart
	b.minCol = colStart + 1
	b.maxRow = rowStart + rows
	b.maxCol = colStart + cols - 1

	headings := fr.Columns
	if len(opts.Headings) > 0 {
		headings = opts.Headings
	}
	headingCells := make([]any, len(headings))
	for i, h := range headings {
		headingCells[i] = h
	}
	if err := f.SetSheetRow(sheet, excel.Anchor(colStart, rowStart), &headingCells); err != nil {
		return err
	}

	for i, row := range fr.Rows {
		cells := make([]any, len(row))
		copy(cells, row)
		if err := f.SetSheetRow(sheet, excel.Anchor(colStart, rowStart+1+i), &cells); err != nil {
			return err
		}
	}

	b.helper.SetLastRow(sheet, b.maxRow)
	return nil
}

func (b *base) writeFramesSideBySide(f *excelize.File, sheet string, frames []*frame.Frame, opts Options) error {
	if err := b.helper.EnsureSheet(f, sheet); err != nil {
		return err
	}

	rowStart, colStart := b.helper.StartingPosition(sheet, opts.RowStart, b.columnStart(opts))

	if opts.SectionHeading != "" {
		if err := f.SetCellValue(sheet, excel.Anchor(colStart, rowStart), opts.SectionHeading); err != nil {
			return err
		}
		b.helper.ApplySectionHeadingFont(f, sheet, colStart, rowStart)
		rowStart++
	}

	columnsUsed := 0
	for idx, fr := range frames {
		currentCol := colStart + columnsUsed
		currentRow := rowStart

		if len(opts.TableTitles) > 0 {
			if idx < len(opts.TableTitles) {
				if err := f.SetCellValue(sheet, excel.Anchor(currentCol, rowStart), opts.TableTitles[idx]); err != nil {
					return err
				}
				b.helper.ApplyTableTitleFont(f, sheet, currentCol, rowStart)
			} else {
				b.log.Warn("fewer table titles than frames", zap.Int("frames", len(frames)),
					zap.Int("titles", len(opts.TableTitles)))
			}
			currentRow++
		}

		sub := Options{RowStart: currentRow, ColumnStart: currentCol}
		if idx < len(opts.HeadingsPerFrame) {
			sub.Headings = opts.HeadingsPerFrame[idx]
		}
		if err := b.writeFrame(f, sheet, fr, sub); err != nil {
			return err
		}

		_, cols := fr.Shape()
		columnsUsed += cols + b.cfg.DataDataSeparator
	}
	return nil
}

// series turns the written data block into chart series. Selection follows
// the options: an explicit list of data columns, a contiguous start/end
// range, or every column of the block. Column indexes are 1-based positions
// of the block as written starting at column A; an explicit ColumnStart
// shifts them accordingly.
func (b *base) series(sheet string, fr *frame.Frame, opts Options) []excelize.ChartSeries {
	offset := 0
	if start := b.columnStart(opts); start > 0 {
		offset = start - 1
	}

	useRef := b.cfg.UseRefLine
	if opts.UseRefLine != nil {
		useRef = *opts.UseRefLine
	}

	categories := excel.RangeRef(sheet, b.minCol-1, b.minRow+1, b.minCol-1, b.maxRow)

	var frameCols []int // 1-based frame columns
	var sheetCols []int
	switch {
	case len(opts.DataColumns) > 0:
		frameCols = uniqueSorted(opts.DataColumns)
		for _, c := range frameCols {
			sheetCols = append(sheetCols, c+offset)
		}
	case opts.DataColumnStart > 0:
		end := opts.DataColumnEnd
		if end == 0 {
			end = opts.DataColumnStart
		}
		for c := opts.DataColumnStart; c <= end; c++ {
			frameCols = append(frameCols, c)
			sheetCols = append(sheetCols, c+offset)
		}
	default:
		for c := b.minCol; c <= b.maxCol; c++ {
			frameCols = append(frameCols, c-offset)
			sheetCols = append(sheetCols, c)
		}
	}

	b.dataColumns = frameCols
	b.refSeries = -1

	series := make([]excelize.ChartSeries, 0, len(sheetCols))
	for idx, col := range sheetCols {
		series = append(series, excelize.ChartSeries{
			Name:       excel.CellRef(sheet, col, b.minRow),
			Categories: categories,
			Values:     excel.RangeRef(sheet, col, b.minRow+1, col, b.maxRow),
		})
		if useRef && fr.IsConstant(frameCols[idx]-1) {
			b.refSeries = idx
		}
	}
	return series
}

// paletteColor returns the fill color for the series at idx, recycling the
// palette. Reference series are skipped when counting palette slots.
func (b *base) paletteColor(idx int) string {
	palette := b.cfg.Palette
	if len(palette) == 0 {
		return ""
	}
	return palette[idx%len(palette)]
}

func solidFill(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

// fillSeries applies the palette to every series unless coloring is left to
// excelize.
func (b *base) fillSeries(series []excelize.ChartSeries, opts Options) {
	if b.cfg.DefaultColors || opts.DefaultColors || opts.NoFill {
		return
	}
	for i := range series {
		series[i].Fill = solidFill(b.paletteColor(i))
	}
}

// newChart assembles the chart object: dimensions, title, legend and axes.
func (b *base) newChart(chartType excelize.ChartType, series []excelize.ChartSeries, opts Options) *excelize.Chart {
	ch := &excelize.Chart{Type: chartType, Series: series}

	width := b.cfg.ChartWidth
	if opts.Width > 0 {
		width = opts.Width
	}
	height := b.cfg.ChartHeight
	if opts.Height > 0 {
		height = opts.Height
	}
	ch.Dimension = excelize.ChartDimension{Width: width, Height: height}

	if opts.Title != "" {
		ch.Title = []excelize.RichTextRun{{
			Text: opts.Title,
			Font: chartFont(b.cfg.ChartTitleFont),
		}}
	}

	showLegend := b.cfg.ShowLegend
	if opts.ShowLegend != nil {
		showLegend = *opts.ShowLegend
	}
	if showLegend {
		pos := opts.LegendPosition
		if pos == "" {
			pos = b.cfg.LegendPosition
		}
		ch.Legend = excelize.ChartLegend{Position: pos}
	} else {
		ch.Legend = excelize.ChartLegend{Position: "none"}
	}

	rotation := b.cfg.TickRotation
	if opts.Rotation != nil {
		rotation = *opts.Rotation
	}
	b.applyXAxis(&ch.XAxis, opts, rotation)
	b.applyYAxis(&ch.YAxis, opts.YLabel, opts.YLim, opts.YMajorUnit, opts.YLogBase, opts.ReverseY, opts.YTickLabelPosition)

	return ch
}

func (b *base) applyXAxis(axis *excelize.ChartAxis, opts Options, rotation int) {
	if opts.XLabel != "" {
		axis.Title = []excelize.RichTextRun{{Text: opts.XLabel, Font: chartFont(b.cfg.AxisFont)}}
	}
	if opts.XLim != nil {
		b.setAxisLimit(axis, opts.XLim)
	}
	if opts.XLogBase > 0 {
		axis.LogBase = opts.XLogBase
	}
	if rotation != 0 {
		if rotation < -90 {
			rotation = -90
		}
		if rotation > 90 {
			rotation = 90
		}
		axis.Alignment = excelize.Alignment{TextRotation: rotation}
	}
	if pos := tickLabelPosition(opts.XTickLabelPosition); pos != nil {
		axis.TickLabelPosition = *pos
		axis.TickLabelSkip = 2
	}
}

func (b *base) applyYAxis(axis *excelize.ChartAxis, label string, lim *Limit, majorUnit, logBase float64, reverse bool, tickPos string) {
	if label != "" {
		axis.Title = []excelize.RichTextRun{{Text: label, Font: chartFont(b.cfg.AxisFont)}}
	}
	if lim != nil {
		b.setAxisLimit(axis, lim)
	}
	if majorUnit > 0 {
		axis.MajorUnit = majorUnit
	}
	if logBase > 0 {
		axis.LogBase = logBase
	}
	axis.ReverseOrder = reverse
	if pos := tickLabelPosition(tickPos); pos != nil {
		axis.TickLabelPosition = *pos
		axis.TickLabelSkip = 2
	}
}

func (b *base) setAxisLimit(axis *excelize.ChartAxis, lim *Limit) {
	if lim.Min >= lim.Max {
		b.log.Warn("invalid axis limits, ignoring",
			zap.Float64("min", lim.Min), zap.Float64("max", lim.Max))
		return
	}
	minimum, maximum := lim.Min, lim.Max
	axis.Minimum = &minimum
	axis.Maximum = &maximum
}

func tickLabelPosition(pos string) *excelize.ChartTickLabelPositionType {
	var t excelize.ChartTickLabelPositionType
	switch pos {
	case "low":
		t = excelize.ChartTickLabelLow
	case "high":
		t = excelize.ChartTickLabelHigh
	case "none":
		t = excelize.ChartTickLabelNone
	case "nextTo", "next_to":
		t = excelize.ChartTickLabelNextToAxis
	default:
		return nil
	}
	return &t
}

func chartFont(font config.Font) *excelize.Font {
	return &excelize.Font{
		Family: font.Name,
		Size:   font.Size,
		Bold:   font.Bold,
		Color:  font.Color,
	}
}

// anchor adds the chart to the sheet relative to the data block and reserves
// the rows it covers. An unknown position skips anchoring: two-axes charts
// rely on this to finalize their halves without placing them.
func (b *base) anchor(f *excelize.File, sheet string, ch *excelize.Chart, opts Options, combo ...*excelize.Chart) error {
	position := opts.Position
	if position == "" {
		position = b.cfg.ChartPosition
	}

	height := float64(ch.Dimension.Height)
	if height == 0 {
		height = 260
	}

	switch position {
	case config.PositionBottom:
		row := b.maxRow + b.cfg.DataChartSeparator + 1
		cell := excel.Anchor(b.minCol-1, row)
		if err := f.AddChart(sheet, cell, ch, combo...); err != nil {
			return err
		}
		b.helper.ReserveChartRows(sheet, row, height)
	case config.PositionRight:
		col := b.maxCol + b.cfg.DataChartSeparator + 1
		cell := excel.Anchor(col, b.minRow)
		if err := f.AddChart(sheet, cell, ch, combo...); err != nil {
			return err
		}
		b.helper.ReserveChartRows(sheet, b.minRow, height)
	default:
		if !opts.SuppressPositionWarning {
			b.log.Warn("unknown chart position, chart will not be added",
				zap.String("position", position))
		}
	}
	return nil
}

func uniqueSorted(values []int) []int {
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
