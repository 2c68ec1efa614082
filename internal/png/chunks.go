package png

import (
	"encoding/binary"
	"fmt"

	"github.com/anas-shakeel/go-imagecodec/internal/bytereader"
)

var pngSignature = [8]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// ColorType is the PNG IHDR color type.
type ColorType int

const (
	ColorGray       ColorType = 0
	ColorRGB        ColorType = 2
	ColorPalette    ColorType = 3
	ColorGrayAlpha  ColorType = 4
	ColorRGBA       ColorType = 6
)

// IHDR is the parsed image header chunk.
type IHDR struct {
	Width, Height int
	BitDepth      int
	ColorType     ColorType
	Interlace     int // 0 = none, 1 = Adam7
}

// rawChunks holds everything ParseChunks collects from an IDAT-bearing
// stream: the header, an optional palette (+ its tRNS alpha), and the
// concatenation of every IDAT payload in file order.
type rawChunks struct {
	ihdr  IHDR
	plte  []byte // RGB triplets
	trns  []byte // per-palette-entry alpha, or (for RGB/gray) a transparent-color key
	idat  []byte
}

// ParseChunks validates the PNG signature and walks chunks until IEND,
// collecting IHDR, PLTE, tRNS, and the concatenated IDAT stream.
func ParseChunks(br *bytereader.Reader) (*rawChunks, error) {
	sig, short := br.ReadN(8)
	if short {
		return nil, fmt.Errorf("%w: truncated signature", ErrIncomplete)
	}
	for i, b := range pngSignature {
		if sig[i] != b {
			return nil, fmt.Errorf("%w: bad PNG signature", ErrInvalid)
		}
	}

	var rc rawChunks
	sawIHDR := false

	for {
		lenBuf, short := br.ReadN(8) // 4-byte length + 4-byte type
		if short {
			return nil, fmt.Errorf("%w: truncated chunk header", ErrIncomplete)
		}
		length := binary.BigEndian.Uint32(lenBuf[0:4])
		typ := string(lenBuf[4:8])

		data, short := br.ReadN(int(length))
		if short {
			return nil, fmt.Errorf("%w: truncated %s chunk", ErrIncomplete, typ)
		}
		if short2 := !br.Skip(4); short2 { // CRC, not verified
			return nil, fmt.Errorf("%w: truncated %s chunk CRC", ErrIncomplete, typ)
		}

		switch typ {
		case "IHDR":
			if len(data) < 13 {
				return nil, fmt.Errorf("%w: short IHDR", ErrInvalid)
			}
			ihdr := IHDR{
				Width:     int(binary.BigEndian.Uint32(data[0:4])),
				Height:    int(binary.BigEndian.Uint32(data[4:8])),
				BitDepth:  int(data[8]),
				ColorType: ColorType(data[9]),
				Interlace: int(data[12]),
			}
			if data[10] != 0 || data[11] != 0 {
				return nil, fmt.Errorf("%w: unsupported compression/filter method", ErrInvalid)
			}
			if int64(ihdr.Width)*int64(ihdr.Height)*4 > 1<<31-1 {
				return nil, fmt.Errorf("%w: image dimensions overflow", ErrInvalid)
			}
			rc.ihdr = ihdr
			sawIHDR = true
		case "PLTE":
			rc.plte = append([]byte(nil), data...)
		case "tRNS":
			rc.trns = append([]byte(nil), data...)
		case "IDAT":
			rc.idat = append(rc.idat, data...)
		case "IEND":
			if !sawIHDR {
				return nil, fmt.Errorf("%w: IEND before IHDR", ErrInvalid)
			}
			return &rc, nil
		}
	}
}
