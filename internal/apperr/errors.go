package apperr

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidDocument   = errors.New("invalid flows document")
	ErrMissingRoot       = errors.New("script root does not exist")
	ErrMissingID         = errors.New("node id is required")
	ErrMalformedMetadata = errors.New("malformed metadata block")
)
