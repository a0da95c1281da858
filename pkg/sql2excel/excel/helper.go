// Package excel wraps the excelize bookkeeping shared by all chart writers:
// worksheet cursors, starting positions, cell range references and cell fonts.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
)

// MaxColumns is the xlsx worksheet column limit.
const MaxColumns = 16384

// Helper tracks per-sheet write positions and applies cell formatting.
//
// Worksheets in excelize have no notion of an append cursor, so the helper
// remembers the last row each sheet was written to and hands out the next
// section start below it, separated by the configured number of blank rows.
type Helper struct {
	cfg     config.Config
	log     *zap.Logger
	lastRow map[string]int
}

// NewHelper creates a helper. A nil logger falls back to a no-op logger.
func NewHelper(cfg config.Config, log *zap.Logger) *Helper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Helper{cfg: cfg, log: log, lastRow: make(map[string]int)}
}

// EnsureSheet creates the sheet if it does not exist yet.
func (h *Helper) EnsureSheet(f *excelize.File, sheet string) error {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}
	return nil
}

// NextRow returns the first row of the next section on the sheet: row 1 on an
// untouched sheet, otherwise the last written row plus the section separator.
func (h *Helper) NextRow(sheet string) int {
	last := h.lastRow[sheet]
	if last == 0 {
		return 1
	}
	return last + h.cfg.SectionSeparator + 1
}

// SetLastRow records the last row written on the sheet. The cursor only moves
// forward.
func (h *Helper) SetLastRow(sheet string, row int) {
	if row > h.lastRow[sheet] {
		h.lastRow[sheet] = row
	}
}

// LastRow returns the last written row on the sheet, 0 for an untouched sheet.
func (h *Helper) LastRow(sheet string) int {
	return h.lastRow[sheet]
}

// StartingPosition resolves where the next block starts. rowStart and
// colStart are 1-based; zero means automatic. Invalid values log a warning
// and fall back to the automatic choice, so a bad option never aborts a
// query batch.
func (h *Helper) StartingPosition(sheet string, rowStart, colStart int) (row, col int) {
	if rowStart < 0 {
		h.log.Warn("row start must be >= 1, choosing the row dynamically",
			zap.Int("row_start", rowStart))
		rowStart = 0
	}
	if rowStart == 0 {
		rowStart = h.NextRow(sheet)
	}

	if colStart < 0 || colStart > MaxColumns {
		h.log.Warn("invalid column, using column A instead", zap.Int("column_start", colStart))
		colStart = 0
	}
	if colStart == 0 {
		colStart = 1
	}
	return rowStart, colStart
}

// ChartRows returns how many worksheet rows a chart of the given pixel height
// covers.
func (h *Helper) ChartRows(heightPx float64) int {
	rowHeight := h.cfg.RowHeight
	if rowHeight <= 0 {
		rowHeight = 20
	}
	return int(heightPx/rowHeight) + 1
}

// ReserveChartRows moves the sheet cursor past a chart anchored at anchorRow
// so the next section lands below it.
func (h *Helper) ReserveChartRows(sheet string, anchorRow int, heightPx float64) {
	h.SetLastRow(sheet, anchorRow+h.ChartRows(heightPx)-1)
}

// ColumnName converts a 1-based column number to its letter form. Invalid
// numbers log a warning and fall back to "A".
func (h *Helper) ColumnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil || col > MaxColumns {
		h.log.Warn("invalid column, using column A instead", zap.Int("column", col))
		return "A"
	}
	return name
}

// ColumnNumber converts a column letter to its 1-based number. Invalid names
// log a warning and fall back to 1.
func (h *Helper) ColumnNumber(name string) int {
	if name == "" {
		return 1
	}
	col, err := excelize.ColumnNameToNumber(name)
	if err != nil || col > MaxColumns {
		h.log.Warn("invalid column, using column A instead", zap.String("column", name))
		return 1
	}
	return col
}

// CellRef returns an absolute single-cell reference like Sheet1!$B$2.
func CellRef(sheet string, col, row int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		name = "A"
	}
	return fmt.Sprintf("%s!$%s$%d", sheet, name, row)
}

// RangeRef returns an absolute range reference like Sheet1!$B$2:$B$10.
func RangeRef(sheet string, col1, row1, col2, row2 int) string {
	n1, err := excelize.ColumnNumberToName(col1)
	if err != nil {
		n1 = "A"
	}
	n2, err := excelize.ColumnNumberToName(col2)
	if err != nil {
		n2 = "A"
	}
	return fmt.Sprintf("%s!$%s$%d:$%s$%d", sheet, n1, row1, n2, row2)
}

// Anchor returns the top-left cell name for an anchored object, e.g. "E4".
func Anchor(col, row int) string {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		cell = "A1"
	}
	return cell
}

// ApplySectionHeadingFont styles a section heading cell.
func (h *Helper) ApplySectionHeadingFont(f *excelize.File, sheet string, col, row int) {
	h.applyFont(f, sheet, col, row, h.cfg.SectionHeadingFont)
}

// ApplyTableTitleFont styles a per-table title cell.
func (h *Helper) ApplyTableTitleFont(f *excelize.File, sheet string, col, row int) {
	h.applyFont(f, sheet, col, row, h.cfg.TableTitleFont)
}

func (h *Helper) applyFont(f *excelize.File, sheet string, col, row int, font config.Font) {
	styleID, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Family: font.Name,
			Size:   font.Size,
			Bold:   font.Bold,
			Color:  font.Color,
		},
	})
	if err != nil {
		h.log.Warn("unable to create cell style", zap.Error(err))
		return
	}
	cell := Anchor(col, row)
	if err := f.SetCellStyle(sheet, cell, cell, styleID); err != nil {
		h.log.Warn("unable to style cell", zap.String("cell", cell), zap.Error(err))
	}
}
