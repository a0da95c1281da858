// Package sqlexec runs SQL queries and returns their result sets as frames.
// It papers over driver differences in parameter binding: queries are written
// with '?' positional or ':name' named placeholders and rewritten to whatever
// the driver expects, expanding slice values for IN lists along the way.
package sqlexec

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/frame"
)

// ErrNoSQL indicates a query with an empty SQL statement.
var ErrNoSQL = errors.New("no sql statement")

// ErrUnboundParam indicates a named placeholder with no matching value.
var ErrUnboundParam = errors.New("unbound named parameter")

// Style selects the positional placeholder syntax of the driver.
type Style int

const (
	// Question keeps '?' placeholders (sqlite3, mysql).
	Question Style = iota
	// Dollar rewrites placeholders to '$1', '$2', ... (pgx).
	Dollar
)

// Query is one statement with its parameters. Args binds '?' placeholders in
// order; Named binds ':name' placeholders. Slice values expand into one
// placeholder per element.
type Query struct {
	SQL   string
	Args  []any
	Named map[string]any
}

// Executor runs queries against a database handle.
type Executor struct {
	db     *sql.DB
	log    *zap.Logger
	style  Style
	silent bool
}

// Option customizes an Executor.
type Option func(*Executor)

// WithLogger sets the executor's logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Executor) { e.log = log }
}

// WithPlaceholders sets the positional placeholder style of the driver.
func WithPlaceholders(style Style) Option {
	return func(e *Executor) { e.style = style }
}

// WithSilent makes query failures non-fatal: they are logged and yield a nil
// frame instead of an error.
func WithSilent(silent bool) Option {
	return func(e *Executor) { e.silent = silent }
}

// NewExecutor wraps an open database handle.
func NewExecutor(db *sql.DB, opts ...Option) *Executor {
	e := &Executor{db: db, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open opens a database handle and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// QueryFrame runs the query and scans the whole result set into a frame. In
// silent mode a failing query logs a warning and returns a nil frame.
func (e *Executor) QueryFrame(ctx context.Context, q Query) (*frame.Frame, error) {
	fr, err := e.queryFrame(ctx, q)
	if err != nil && e.silent {
		e.log.Warn("query failed, continuing", zap.String("sql", q.SQL), zap.Error(err))
		return nil, nil
	}
	return fr, err
}

// QueryFrames runs every query in order.
func (e *Executor) QueryFrames(ctx context.Context, queries []Query) ([]*frame.Frame, error) {
	frames := make([]*frame.Frame, 0, len(queries))
	for _, q := range queries {
		fr, err := e.QueryFrame(ctx, q)
		if err != nil {
			return frames, err
		}
		frames = append(frames, fr)
	}
	return frames, nil
}

func (e *Executor) queryFrame(ctx context.Context, q Query) (*frame.Frame, error) {
	if strings.TrimSpace(q.SQL) == "" {
		return nil, ErrNoSQL
	}

	stmt, args, err := Bind(q.SQL, q.Args, q.Named, e.style)
	if err != nil {
		return nil, err
	}

	rows, err := e.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	fr := frame.New(columns, nil)
	for rows.Next() {
		values := make([]any, len(columns))
		scan := make([]any, len(columns))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		for i, v := range values {
			if raw, ok := v.([]byte); ok {
				values[i] = string(raw)
			}
		}
		fr.Rows = append(fr.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return fr, nil
}

// Bind prepares a statement for the driver: named placeholders become
// positional, slice arguments expand into placeholder lists, and the result
// is rewritten to the requested placeholder style.
func Bind(stmt string, args []any, named map[string]any, style Style) (string, []any, error) {
	var err error
	if len(named) > 0 {
		stmt, args, err = BindNamed(stmt, named)
		if err != nil {
			return "", nil, err
		}
	}

	stmt, args, err = ExpandArgs(stmt, args)
	if err != nil {
		return "", nil, err
	}

	if style == Dollar {
		stmt = RewriteDollar(stmt)
	}
	return stmt, args, nil
}

// namedParam matches ':name' placeholders without touching '::' type casts.
var namedParam = regexp.MustCompile(`(^|[^:]):([a-zA-Z_][a-zA-Z0-9_]*)`)

// BindNamed rewrites ':name' placeholders to '?' and returns the values in
// placeholder order. A name with no value in the map is an error.
func BindNamed(stmt string, named map[string]any) (string, []any, error) {
	var args []any
	var missing string

	out := namedParam.ReplaceAllStringFunc(stmt, func(match string) string {
		groups := namedParam.FindStringSubmatch(match)
		name := groups[2]
		value, ok := named[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return match
		}
		args = append(args, value)
		return groups[1] + "?"
	})

	if missing != "" {
		return "", nil, fmt.Errorf("%w: %s", ErrUnboundParam, missing)
	}
	return out, args, nil
}

// ExpandArgs expands slice arguments into comma-separated placeholder lists,
// matching each '?' to its argument in order.
func ExpandArgs(stmt string, args []any) (string, []any, error) {
	if len(args) == 0 {
		return stmt, args, nil
	}

	var sb strings.Builder
	expanded := make([]any, 0, len(args))
	argIdx := 0

	for _, r := range stmt {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}
		if argIdx >= len(args) {
			return "", nil, fmt.Errorf("placeholder count exceeds %d arguments", len(args))
		}
		values := expandValue(args[argIdx])
		argIdx++
		for i, v := range values {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('?')
			expanded = append(expanded, v)
		}
	}

	if argIdx < len(args) {
		return "", nil, fmt.Errorf("%d arguments for %d placeholders", len(args), argIdx)
	}
	return sb.String(), expanded, nil
}

// expandValue flattens a slice argument into its elements. Strings and byte
// slices stay single values.
func expandValue(v any) []any {
	switch values := v.(type) {
	case []any:
		return values
	case []string:
		out := make([]any, len(values))
		for i, s := range values {
			out[i] = s
		}
		return out
	case []int:
		out := make([]any, len(values))
		for i, n := range values {
			out[i] = n
		}
		return out
	case []int64:
		out := make([]any, len(values))
		for i, n := range values {
			out[i] = n
		}
		return out
	case []float64:
		out := make([]any, len(values))
		for i, n := range values {
			out[i] = n
		}
		return out
	case []time.Time:
		out := make([]any, len(values))
		for i, ts := range values {
			out[i] = ts
		}
		return out
	default:
		return []any{v}
	}
}

// RewriteDollar numbers '?' placeholders as '$1', '$2', ...
func RewriteDollar(stmt string) string {
	var sb strings.Builder
	n := 0
	for _, r := range stmt {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
