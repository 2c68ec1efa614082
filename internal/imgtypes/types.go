// Package imgtypes holds the small value types shared by the public
// imagecodec package and every internal decoder (bmp, png), so those
// decoders don't need to import the root package and create a cycle.
package imgtypes

import "fmt"

// Result is the outcome of a decode operation.
type Result int

const (
	Success Result = iota
	IncompleteInput
	InvalidInput
	InvalidConversion
	InvalidScale
	CouldNotRewind
	Unimplemented
)

func (r Result) String() string {
	switch r {
	case Success:
		return "Success"
	case IncompleteInput:
		return "IncompleteInput"
	case InvalidInput:
		return "InvalidInput"
	case InvalidConversion:
		return "InvalidConversion"
	case InvalidScale:
		return "InvalidScale"
	case CouldNotRewind:
		return "CouldNotRewind"
	case Unimplemented:
		return "Unimplemented"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// ColorType enumerates destination pixel packings.
type ColorType int

const (
	N32 ColorType = iota
)

// AlphaType is the destination's alpha convention.
type AlphaType int

const (
	Opaque AlphaType = iota
	Premul
	Unpremul
)

func (a AlphaType) String() string {
	switch a {
	case Opaque:
		return "Opaque"
	case Premul:
		return "Premul"
	case Unpremul:
		return "Unpremul"
	default:
		return "Unknown"
	}
}

// ImageInfo describes an image's dimensions and pixel format.
type ImageInfo struct {
	Width     int
	Height    int
	ColorType ColorType
	AlphaType AlphaType
}

// Valid reports whether the dimensions are in the legal range this decoder
// accepts: non-negative and under 65536 in each dimension.
func (i ImageInfo) Valid() bool {
	return i.Width >= 0 && i.Width < 65536 && i.Height >= 0 && i.Height < 65536
}

// MinRowBytes returns the minimum destination stride for this ImageInfo
// assuming 4 bytes per N32 pixel.
func (i ImageInfo) MinRowBytes() int {
	return i.Width * 4
}

// Options configures a GetPixels call.
type Options struct {
	// ZeroInitialized tells the decoder the destination buffer is already
	// zero-filled, letting the BMP RLE path skip its own background fill.
	ZeroInitialized bool
}

// DebugSink receives terse, human-readable diagnostic messages. The zero
// value is a no-op.
type DebugSink func(format string, args ...any)

// Logf calls the sink if non-nil.
func (s DebugSink) Logf(format string, args ...any) {
	if s != nil {
		s(format, args...)
	}
}
