// BMP-specific structs and types
package bmp

// The BitmapFileHeader structure contains information about the type, size,
// and layout of a file that contains a DIB [device-independent bitmap].
// https://learn.microsoft.com/en-us/windows/win32/api/wingdi/ns-wingdi-bitmapfileheader

type BitmapFileHeader struct {
	Type      [2]byte // The file type: must be 0x4d42 (ASCII string "BM").
	Size      uint32  // The size, in bytes, of the bitmap file.
	Reserved1 uint16  // Reserved; must be zero.
	Reserved2 uint16  // Reserved; must be zero.
	OffBits   uint32  // Bitmap File Offset (In bytes) to Pixel Arrays
}

const fileHeaderLen = 14

// The BitmapInfoHeader structure contains information about the
// dimensions and color format of DIB [device-independent bitmap]. Only the
// fields present in the shortest recognized header (BITMAPCOREHEADER, 12
// bytes) are guaranteed populated; later fields are zero when the source
// header didn't carry them.

type BitmapInfoHeader struct {
	Size            uint32 // The number of bytes required by the structure.
	Width           int32  // The width of the bitmap, in pixels.
	Height          int32  // The height of the bitmap, in pixels
	Planes          uint16 // The number of planes for the target device.
	BitCount        uint16 // The number of bits-per-pixel.
	Compression     uint32 // The type of compression
	SizeImage       uint32 // The size of the image (in bytes).
	XPixelsPerM     int32  // The horizontal resolution, in pixels-per-meter.
	YPixelsPerM     int32  // The vertical resolution, in pixels-per-meter.
	ColorsUsed      uint32 // Number of color indexes that are actually used by bitmap.
	ColorsImportant uint32 // Number of color indexes required for displaying the bitmap.
	// Present from v2 (52 bytes) onward.
	RedMask, GreenMask, BlueMask uint32
	// Present from v3 (56 bytes) onward.
	AlphaMask uint32
	// v4/v5 color-space fields exist in the file but are not interpreted by
	// this decoder; they are intentionally not modeled here.
}

// HeaderVersion names which info-header variant was detected, mirroring the
// original codec's BitmapHeaderType enumeration.
type HeaderVersion int

const (
	HeaderOS2V1 HeaderVersion = iota
	HeaderOS2VX
	HeaderInfoV1
	HeaderInfoV2
	HeaderInfoV3
	HeaderInfoV4
	HeaderInfoV5
	HeaderUnknown
)

func (v HeaderVersion) String() string {
	switch v {
	case HeaderOS2V1:
		return "OS2V1"
	case HeaderOS2VX:
		return "OS2VX"
	case HeaderInfoV1:
		return "InfoV1"
	case HeaderInfoV2:
		return "InfoV2"
	case HeaderInfoV3:
		return "InfoV3"
	case HeaderInfoV4:
		return "InfoV4"
	case HeaderInfoV5:
		return "InfoV5"
	default:
		return "Unknown"
	}
}

// Compression identifies the raw BMP compression field, mirroring the
// original codec's BitmapCompressionMethod enumeration.
type Compression uint32

const (
	CompressionNone           Compression = 0
	CompressionRLE8           Compression = 1
	CompressionRLE4           Compression = 2
	CompressionBitFields      Compression = 3
	CompressionJPEG           Compression = 4
	CompressionPNG            Compression = 5
	CompressionAlphaBitFields Compression = 6
	CompressionCMYK           Compression = 11
	CompressionCMYK8BitRLE    Compression = 12
	CompressionCMYK4BitRLE    Compression = 13
)

// InputFormat is the normalized pixel-decoding strategy a DecodePlan
// selects, independent of which header version produced it.
type InputFormat int

const (
	Standard InputFormat = iota
	BitMask
	RLE
)

func (f InputFormat) String() string {
	switch f {
	case Standard:
		return "Standard"
	case BitMask:
		return "BitMask"
	case RLE:
		return "RLE"
	default:
		return "Unknown"
	}
}

// RowOrder is the vertical direction rows are stored in the file.
type RowOrder int

const (
	BottomUp RowOrder = iota
	TopDown
)
