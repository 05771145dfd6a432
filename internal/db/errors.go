package db

import (
	"context"
	"errors"

	"github.com/lib/pq"
)

// Postgres error classes that mean a query referenced an optional schema
// element this deployment does not have.
const (
	pgUndefinedColumn = "42703"
	pgUndefinedTable  = "42P01"
	pgUndefinedObject = "42704"
)

// Error wraps an underlying error with the query name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// isSchemaErr reports whether err is a missing column/table/object error,
// the class the executor degrades on instead of failing the request.
func isSchemaErr(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch string(pqErr.Code) {
	case pgUndefinedColumn, pgUndefinedTable, pgUndefinedObject:
		return true
	}
	return false
}

// isTimeout reports whether err is a deadline miss rather than a store fault.
func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
