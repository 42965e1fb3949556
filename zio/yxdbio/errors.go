package yxdbio

import "errors"

var (
	ErrBadHeader       = errors.New("yxdbio: bad header")
	ErrBadSchema       = errors.New("yxdbio: bad meta info")
	ErrUnknownType     = errors.New("yxdbio: unknown field type")
	ErrTruncatedStream = errors.New("yxdbio: truncated stream")
	ErrMissingRecords  = errors.New("yxdbio: stream ended before declared record count")
	ErrBlockTooLarge   = errors.New("yxdbio: block exceeds maximum size")
	ErrInvalidField    = errors.New("yxdbio: invalid field")
	ErrBadValue        = errors.New("yxdbio: bad value")
	ErrBadBlob         = errors.New("yxdbio: bad blob encoding")
	ErrClosed          = errors.New("yxdbio: reader closed")
	ErrNoRecord        = errors.New("yxdbio: no current record")
)
