package bmp

import "github.com/anas-shakeel/go-imagecodec/internal/imgtypes"

// Masks holds the up-to-four channel bit masks a DecodePlan carries for the
// BitMask input format (or for 32-bit images with an alpha mask).
type Masks struct {
	Red, Green, Blue, Alpha uint32
}

// DecodePlan is the normalized, header-version-independent description of
// how to decode a BMP's pixel data, produced by ParseHeader and consumed by
// Decoder.
type DecodePlan struct {
	Width, Height int
	BitsPerPixel  int
	InputFormat   InputFormat
	RowOrder      RowOrder
	HasMasks      bool
	Masks         Masks
	NumColors     int
	BytesPerColor int
	// PixelDataOffsetPadding is bytes to skip between the end of the color
	// table and the first pixel row. Non-ICO only; ICO never skips it.
	PixelDataOffsetPadding uint32
	// RLEByteCount is the total RLE payload size (RLE format only).
	RLEByteCount uint32
	IsIco        bool
	AlphaType    imgtypes.AlphaType
	HeaderVersion HeaderVersion
	// LogicalHeight is the height after halving for ICO (XOR-plane height);
	// equals Height for non-ICO plans.
	LogicalHeight int
}
