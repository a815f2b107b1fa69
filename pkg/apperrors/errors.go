package apperrors

import "errors"

var (
	ErrUnresolvedColumn = errors.New("column not resolved")
	ErrParseFailure     = errors.New("query parse failure")
	ErrUnsafeStatement  = errors.New("unsafe SQL statement")
	ErrUnknownStrategy  = errors.New("unknown translation strategy")
	ErrNoSchemaContext  = errors.New("schema context not set")
	ErrEmptyQuery       = errors.New("empty query")
)
