package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound    = errors.New("db: key not found")
	ErrUnknownTable   = errors.New("db: unknown table")
	ErrUnsupportedOp  = errors.New("db: unsupported probe")
	ErrEmptyStreamKey = errors.New("db: empty stream key")
)

// Op constants name the failing operation for error context.
const (
	OpSelect = "SELECT"
	OpProbe  = "PROBE"
	OpPing   = "PING"
	OpGet    = "GET"
	OpMGet   = "MGET"
	OpSet    = "SET"
	OpXAdd   = "XADD"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
