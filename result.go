// Package imagecodec decodes BMP (including BMP embedded in ICO
// containers) and PNG images into 32-bit ARGB pixel buffers.
package imagecodec

import "github.com/anas-shakeel/go-imagecodec/internal/imgtypes"

// Result is the outcome of a decode operation. Decoders never panic;
// GetPixels reports every outcome as one of these, and some failures also
// come with a Go error carrying a diagnostic message.
type Result = imgtypes.Result

const (
	// Success means every destination pixel was written.
	Success = imgtypes.Success
	// IncompleteInput means the stream ended early. The destination buffer
	// holds a best-effort partial decode and may be displayed as-is.
	IncompleteInput = imgtypes.IncompleteInput
	// InvalidInput means the bytes do not describe a recoverable image.
	InvalidInput = imgtypes.InvalidInput
	// InvalidConversion means the requested destination ImageInfo is not
	// reachable from the source (wrong color type, unsupported alpha
	// combination).
	InvalidConversion = imgtypes.InvalidConversion
	// InvalidScale means the destination dimensions differ from the
	// source's. This decoder never resamples.
	InvalidScale = imgtypes.InvalidScale
	// CouldNotRewind means a retry required rewinding a non-seekable
	// stream.
	CouldNotRewind = imgtypes.CouldNotRewind
	// Unimplemented means the input uses a recognized but unsupported
	// feature (CMYK, Huffman, JPEG/PNG-in-BMP, index-8 destinations).
	Unimplemented = imgtypes.Unimplemented
)

// ColorType enumerates destination pixel packings. This decoder only ever
// produces N32 (32-bit ARGB); index-8 destinations are a Non-goal.
type ColorType = imgtypes.ColorType

// N32 is 32-bit ARGB, one byte per channel.
const N32 = imgtypes.N32

// AlphaType is the destination's alpha convention.
type AlphaType = imgtypes.AlphaType

const (
	// Opaque means every pixel's alpha is 0xFF and color channels carry no
	// alpha scaling.
	Opaque = imgtypes.Opaque
	// Premul means color channels are pre-multiplied by alpha/255.
	Premul = imgtypes.Premul
	// Unpremul means color channels are stored independent of alpha.
	Unpremul = imgtypes.Unpremul
)

// ImageInfo describes an image's dimensions and pixel format. It is
// immutable once parsed.
type ImageInfo = imgtypes.ImageInfo

// Options configures a GetPixels call.
type Options = imgtypes.Options

// DebugSink receives terse, human-readable diagnostic messages. The zero
// value is a no-op; callers inject their own (e.g. log.Printf) to observe
// them.
type DebugSink = imgtypes.DebugSink
