package png

import "errors"

var (
	ErrIncomplete        = errors.New("png: truncated stream")
	ErrInvalid           = errors.New("png: invalid stream")
	errInvalidFilterType = errors.New("png: invalid scanline filter type")
)

// UnsupportedError wraps a recognized-but-unimplemented PNG feature.
type UnsupportedError struct {
	Reason string
}

func (e *UnsupportedError) Error() string { return "png: unsupported: " + e.Reason }
