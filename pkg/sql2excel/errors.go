package sql2excel

import (
	"errors"
	"fmt"
)

// ErrNoQueries indicates a report with nothing to run.
var ErrNoQueries = errors.New("no queries to run")

// QueryError represents a failure while running one report query.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %q: %v", e.SQL, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError creates a new QueryError.
func NewQueryError(sql string, err error) *QueryError {
	return &QueryError{SQL: sql, Err: err}
}
