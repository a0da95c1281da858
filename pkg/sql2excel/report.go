// Package sql2excel turns SQL query results into Excel workbooks with
// derived charts. Queries are described either programmatically as
// QueryConfig values or as annotated SQL script files; each result set is
// written as a data block with an optional chart placed next to it.
package sql2excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/chart"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/excel"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/script"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/sqlexec"
)

// PivotSpec reshapes a result set from long to wide form before it is
// written: one row per Index value, one column per Columns value, cells from
// Values.
type PivotSpec struct {
	Index   string
	Columns string
	Values  string
}

// QueryConfig is one report query: the statement, its parameters, and how to
// render the result set.
type QueryConfig struct {
	SQL   string
	Args  []any
	Named map[string]any

	// Chart selects the plotter kind ("line", "bar", "chart" for a plain
	// table, ...). Queries without a kind are skipped.
	Chart string

	// Sheet routes the result to a named worksheet. Empty means the
	// workbook's default sheet.
	Sheet string

	Pivot   *PivotSpec
	Options chart.Options
}

// ConfigFromScript converts a parsed script query into a QueryConfig.
func ConfigFromScript(q script.Query) QueryConfig {
	qc := QueryConfig{
		SQL:     q.SQL,
		Options: chart.OptionsFromMap(q.Options),
	}
	if kind, ok := q.Options["chart"].(string); ok {
		qc.Chart = kind
	}
	for _, key := range []string{"sheetname", "sheet_name"} {
		if name, ok := q.Options[key].(string); ok {
			qc.Sheet = strings.TrimSpace(name)
		}
	}
	if index, ok := q.Options["index"].(string); ok {
		columns, _ := q.Options["columns"].(string)
		values, _ := q.Options["values"].(string)
		qc.Pivot = &PivotSpec{Index: index, Columns: columns, Values: values}
	}
	return qc
}

// Report executes queries and writes their results into one workbook.
// Closing the executor's database handle is left to the caller.
type Report struct {
	cfg  config.Config
	exec *sqlexec.Executor
	log  *zap.Logger
}

// NewReport creates a report writer around an executor.
func NewReport(exec *sqlexec.Executor, cfg config.Config, log *zap.Logger) *Report {
	if log == nil {
		log = zap.NewNop()
	}
	return &Report{
		cfg:  cfg,
		exec: exec,
		log:  log,
	}
}

// Generate runs every query and saves the workbook. sheetName renames the
// workbook's default sheet; queries carrying their own sheet name are routed
// to that worksheet instead, and when the first result is routed the default
// sheet is dropped. A query without a sheet name stays on whichever sheet the
// report is currently writing to.
func (r *Report) Generate(ctx context.Context, configs []QueryConfig, outPath, sheetName string) error {
	if len(configs) == 0 {
		return ErrNoQueries
	}

	f := excelize.NewFile()
	defer f.Close()

	// Layout cursors are per workbook, not per report.
	helper := excel.NewHelper(r.cfg, r.log)

	defaultSheet := "Sheet1"
	if sheetName != "" {
		if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
			return fmt.Errorf("rename default sheet: %w", err)
		}
		defaultSheet = sheetName
	}

	type result struct {
		qc QueryConfig
		fr *frame.Frame
	}
	var results []result

	for _, qc := range configs {
		fr, err := r.exec.QueryFrame(ctx, sqlexec.Query{SQL: qc.SQL, Args: qc.Args, Named: qc.Named})
		if err != nil {
			return NewQueryError(qc.SQL, err)
		}
		if fr == nil {
			continue
		}

		if qc.Pivot != nil {
			fr, err = fr.Pivot(qc.Pivot.Index, qc.Pivot.Columns, qc.Pivot.Values)
			if err != nil {
				return NewQueryError(qc.SQL, err)
			}
		}

		results = append(results, result{qc: qc, fr: fr})
	}

	sheet := defaultSheet
	for idx, res := range results {
		if res.qc.Sheet != "" {
			sheet = res.qc.Sheet
			if err := helper.EnsureSheet(f, sheet); err != nil {
				return fmt.Errorf("sheet %s: %w", sheet, err)
			}
			if idx == 0 {
				if err := f.DeleteSheet(defaultSheet); err != nil {
					return fmt.Errorf("drop default sheet: %w", err)
				}
			}
		}

		if res.qc.Chart == "" {
			r.log.Warn("query has no chart kind, skipping",
				zap.String("sql", res.qc.SQL))
			continue
		}
		plotter, ok := chart.New(res.qc.Chart, r.cfg, helper, r.log)
		if !ok {
			r.log.Warn("unknown chart kind, skipping",
				zap.String("chart", res.qc.Chart), zap.String("sql", res.qc.SQL))
			continue
		}

		if err := plotter.Plot(f, sheet, res.fr, res.qc.Options); err != nil {
			return NewQueryError(res.qc.SQL, err)
		}
	}

	if err := f.SaveAs(outPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	r.log.Info("workbook written",
		zap.String("path", outPath), zap.Int("queries", len(results)))
	return nil
}

// GenerateFromScript parses an annotated SQL script and generates the
// workbook from it. Script statements without a chart annotation are skipped.
func (r *Report) GenerateFromScript(ctx context.Context, scriptPath, outPath, sheetName string) error {
	queries, err := script.ParseFile(scriptPath)
	if err != nil {
		return err
	}

	var configs []QueryConfig
	for _, q := range queries {
		if _, ok := q.Options["chart"]; !ok {
			continue
		}
		configs = append(configs, ConfigFromScript(q))
	}
	return r.Generate(ctx, configs, outPath, sheetName)
}
