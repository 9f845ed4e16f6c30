package artifact

import "errors"

var (
	// ErrNoParser is returned when no registered parser recognizes a file.
	ErrNoParser = errors.New("no parser for file")

	// ErrEmptyHeader is returned when a file yields no header bytes.
	ErrEmptyHeader = errors.New("empty file header")
)
