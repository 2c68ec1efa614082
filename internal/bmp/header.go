package bmp

import (
	"errors"
	"fmt"

	"github.com/anas-shakeel/go-imagecodec/internal/bytereader"
	"github.com/anas-shakeel/go-imagecodec/internal/imgtypes"
)

// ErrIncomplete and ErrInvalid classify why ParseHeader failed, mirroring
// the Result taxonomy spec.md §7 assigns to parse-time failures.
var (
	ErrIncomplete = errors.New("bmp: truncated header")
	ErrInvalid    = errors.New("bmp: invalid header")
)

// UnsupportedError wraps a recognized-but-unimplemented BMP feature
// (CMYK, Huffman, embedded JPEG/PNG payloads).
type UnsupportedError struct {
	Reason string
}

func (e *UnsupportedError) Error() string { return "bmp: unsupported: " + e.Reason }

// IsBitmapSignature reports whether the next two bytes of buf are "BM",
// matching the original codec's standalone SkBmpCodec::IsBmp probe.
func IsBitmapSignature(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 'B' && buf[1] == 'M'
}

func classifyHeaderSize(size uint32) HeaderVersion {
	switch size {
	case 12:
		return HeaderOS2V1
	case 16, 20, 24, 28, 32, 36, 42, 46, 48, 60, 64:
		return HeaderOS2VX
	case 40:
		return HeaderInfoV1
	case 52:
		return HeaderInfoV2
	case 56:
		return HeaderInfoV3
	case 108:
		return HeaderInfoV4
	case 124:
		return HeaderInfoV5
	default:
		return HeaderUnknown
	}
}

// ParseHeader reads a BMP file header (unless isIco) and info header from
// br, producing a normalized DecodePlan. debug receives terse diagnostics
// for recoverable oddities (unknown header sizes); it never affects the
// returned error.
func ParseHeader(br *bytereader.Reader, isIco bool, debug imgtypes.DebugSink) (*DecodePlan, error) {
	var offBits uint32
	var fileSize uint32

	if !isIco {
		fh, short := br.ReadN(fileHeaderLen)
		if short {
			return nil, ErrIncomplete
		}
		if !IsBitmapSignature(fh) {
			return nil, fmt.Errorf("%w: missing 'BM' signature", ErrInvalid)
		}
		fileSize = bytereader.U32(fh, 2)
		offBits = bytereader.U32(fh, 10)
		if offBits < fileHeaderLen+12 {
			return nil, fmt.Errorf("%w: pixel data offset %d is impossible", ErrInvalid, offBits)
		}
	}

	sizeBuf, short := br.ReadN(4)
	if short {
		return nil, ErrIncomplete
	}
	headerSize := bytereader.U32(sizeBuf, 0)
	version := classifyHeaderSize(headerSize)

	if headerSize < 12 {
		return nil, fmt.Errorf("%w: info header size %d too small", ErrInvalid, headerSize)
	}
	remaining := int(headerSize) - 4

	const maxBodyRead = 256
	readLen := remaining
	if readLen > maxBodyRead {
		readLen = maxBodyRead
	}
	body, short := br.ReadN(readLen)
	if short {
		return nil, ErrIncomplete
	}
	if remaining > readLen {
		if ok := br.Skip(remaining - readLen); !ok {
			return nil, ErrIncomplete
		}
	}

	buf := make([]byte, 4+len(body))
	copy(buf, sizeBuf)
	copy(buf[4:], body)

	var width, height int32
	var planes, bitCount uint16
	var compressionRaw uint32
	var sizeImage, colorsUsed uint32
	var rawMasks Masks
	bytesPerColor := 4

	need := func(n int) bool { return len(buf) >= n }

	switch version {
	case HeaderOS2V1:
		if !need(12) {
			return nil, ErrIncomplete
		}
		width = int32(bytereader.U16(buf, 4))
		height = int32(bytereader.U16(buf, 6))
		planes = bytereader.U16(buf, 8)
		bitCount = bytereader.U16(buf, 10)
		bytesPerColor = 3

	case HeaderOS2VX:
		if !need(16) {
			return nil, ErrIncomplete
		}
		width = int32(bytereader.U32(buf, 4))
		height = int32(bytereader.U32(buf, 8))
		planes = bytereader.U16(buf, 12)
		bitCount = bytereader.U16(buf, 14)
		if need(20) {
			compressionRaw = bytereader.U32(buf, 16)
		}
		if compressionRaw != 0 {
			return nil, &UnsupportedError{Reason: "OS/2 Huffman/RLE compression in trimmed BITMAPINFOHEADER"}
		}

	case HeaderInfoV1, HeaderInfoV2, HeaderInfoV3, HeaderInfoV4, HeaderInfoV5:
		if !need(40) {
			return nil, ErrIncomplete
		}
		width = int32(bytereader.U32(buf, 4))
		height = int32(bytereader.U32(buf, 8))
		planes = bytereader.U16(buf, 12)
		bitCount = bytereader.U16(buf, 14)
		compressionRaw = bytereader.U32(buf, 16)
		sizeImage = bytereader.U32(buf, 20)
		colorsUsed = bytereader.U32(buf, 32)
		if version >= HeaderInfoV2 && need(48) {
			rawMasks.Red = bytereader.U32(buf, 36)
			rawMasks.Green = bytereader.U32(buf, 40)
			rawMasks.Blue = bytereader.U32(buf, 44)
		}
		if version >= HeaderInfoV3 && need(52) {
			rawMasks.Alpha = bytereader.U32(buf, 48)
		}

	default: // HeaderUnknown
		if !need(12) {
			return nil, ErrIncomplete
		}
		width = int32(bytereader.U32(buf, 4))
		height = int32(bytereader.U32(buf, 8))
		planes = 1
		if need(16) {
			bitCount = bytereader.U16(buf, 14)
		}
		debug.Logf("bmp: unknown info header size %d; parsing leniently", headerSize)
	}
	_ = planes

	rowOrder := BottomUp
	h := int(height)
	if h < 0 {
		rowOrder = TopDown
		h = -h
	}
	w := int(width)
	if w < 0 || w >= 65536 || h >= 65536 {
		return nil, fmt.Errorf("%w: dimensions %dx%d out of range", ErrInvalid, w, h)
	}

	bitsPerPixel := int(bitCount)
	inputFormat := Standard
	masks := rawMasks
	hasMasks := false
	extraMaskBytesRead := 0

	comp := Compression(compressionRaw)
	switch {
	case version == HeaderOS2VX:
		// already validated compressionRaw == 0 above.
	case comp == CompressionNone:
		if bitsPerPixel == 16 {
			masks = Masks{Red: 0x7C00, Green: 0x03E0, Blue: 0x001F}
			hasMasks = true
			inputFormat = BitMask
		}
	case comp == CompressionRLE8:
		inputFormat = RLE
		bitsPerPixel = 8
	case comp == CompressionRLE4:
		inputFormat = RLE
		bitsPerPixel = 4
	case comp == CompressionBitFields || comp == CompressionAlphaBitFields:
		inputFormat = BitMask
		hasMasks = true
		if version == HeaderInfoV1 {
			extra, short := br.ReadN(12)
			if short {
				return nil, ErrIncomplete
			}
			masks.Red = bytereader.U32(extra, 0)
			masks.Green = bytereader.U32(extra, 4)
			masks.Blue = bytereader.U32(extra, 8)
			extraMaskBytesRead = 12
		} else {
			masks.Red, masks.Green, masks.Blue = rawMasks.Red, rawMasks.Green, rawMasks.Blue
			if comp == CompressionAlphaBitFields {
				masks.Alpha = rawMasks.Alpha
			}
		}
	case comp == CompressionJPEG:
		if bitsPerPixel != 24 {
			return nil, &UnsupportedError{Reason: "embedded JPEG payload requires 24 bpp"}
		}
		inputFormat = RLE // reinterpreted as RLE24 per spec.md §4.5
	case comp == CompressionPNG:
		return nil, &UnsupportedError{Reason: "embedded PNG payload in BMP"}
	case comp == CompressionCMYK || comp == CompressionCMYK8BitRLE || comp == CompressionCMYK4BitRLE:
		return nil, &UnsupportedError{Reason: "CMYK BMP variant"}
	default:
		return nil, &UnsupportedError{Reason: fmt.Sprintf("unrecognized compression method %d", compressionRaw)}
	}

	switch inputFormat {
	case Standard, BitMask:
		switch bitsPerPixel {
		case 1, 2, 4, 8, 16, 24, 32:
		default:
			return nil, fmt.Errorf("%w: unsupported bits-per-pixel %d", ErrInvalid, bitsPerPixel)
		}
	case RLE:
		switch bitsPerPixel {
		case 4, 8, 24:
		default:
			return nil, fmt.Errorf("%w: RLE requires bpp in {4,8,24}, got %d", ErrInvalid, bitsPerPixel)
		}
	}

	numColors := 0
	if bitsPerPixel <= 8 {
		numColors = int(colorsUsed)
		if numColors <= 0 || numColors > 256 {
			numColors = 1 << uint(bitsPerPixel)
			if numColors > 256 {
				numColors = 256
			}
		}
	}

	logicalHeight := h
	if isIco {
		logicalHeight = h / 2
	}

	alphaType := imgtypes.Opaque
	switch {
	case isIco:
		// An ICO/CUR embedding always carries an AND mask applied after
		// pixel decode (spec.md §4.5), regardless of bit depth.
		alphaType = imgtypes.Unpremul
	case bitsPerPixel == 32 && version == HeaderInfoV3:
		alphaType = imgtypes.Opaque
	case bitsPerPixel == 32 && masks.Alpha != 0:
		alphaType = imgtypes.Unpremul
	}

	rleByteCount := sizeImage
	if inputFormat == RLE && rleByteCount == 0 && !isIco {
		if fileSize > offBits {
			rleByteCount = fileSize - offBits
		}
	}

	plan := &DecodePlan{
		Width:         w,
		Height:        logicalHeight,
		LogicalHeight: logicalHeight,
		BitsPerPixel:  bitsPerPixel,
		InputFormat:   inputFormat,
		RowOrder:      rowOrder,
		HasMasks:      hasMasks,
		Masks:         masks,
		NumColors:     numColors,
		BytesPerColor: bytesPerColor,
		RLEByteCount:  rleByteCount,
		IsIco:         isIco,
		AlphaType:     alphaType,
		HeaderVersion: version,
	}

	if !isIco {
		headerBytesConsumed := int(headerSize) + extraMaskBytesRead
		paletteBytes := 0
		if bitsPerPixel <= 8 {
			paletteBytes = numColors * bytesPerColor
		}
		padding := int64(offBits) - int64(fileHeaderLen) - int64(headerBytesConsumed) - int64(paletteBytes)
		if padding < 0 {
			return nil, fmt.Errorf("%w: pixel data offset precedes computed header+palette end", ErrInvalid)
		}
		plan.PixelDataOffsetPadding = uint32(padding)
	}

	return plan, nil
}
