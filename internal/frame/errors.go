package frame

import "errors"

// Sentinel errors returned by frame operations. Callers match with errors.Is.
var (
	ErrColumnNotFound   = errors.New("column not found")
	ErrColumnExists     = errors.New("column already exists")
	ErrRowNotFound      = errors.New("row label not found")
	ErrKindMismatch     = errors.New("value does not match column kind")
	ErrNotNumeric       = errors.New("column is not numeric")
	ErrRaggedRow        = errors.New("row length does not match column count")
	ErrEmptyFrame       = errors.New("frame has no rows")
	ErrNothingToStash   = errors.New("nothing stashed under that name")
	ErrConvertFailed    = errors.New("column conversion failed")
	ErrUnknownAggregate = errors.New("unknown aggregate function")
)
