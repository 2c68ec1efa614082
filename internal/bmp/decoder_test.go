package bmp_test

import (
	"bytes"
	"testing"

	"github.com/anas-shakeel/go-imagecodec/internal/bmp"
	"github.com/anas-shakeel/go-imagecodec/internal/bytereader"
	"github.com/anas-shakeel/go-imagecodec/internal/imgtypes"
	"github.com/stretchr/testify/require"
	xbmp "golang.org/x/image/bmp"
)

func decodeFull(t *testing.T, data []byte, isIco bool) (*bmp.DecodePlan, []byte, int) {
	t.Helper()
	br := bytereader.New(bytes.NewReader(data))
	plan, err := bmp.ParseHeader(br, isIco, nil)
	require.NoError(t, err)

	dec, err := bmp.New(br, plan, nil)
	require.NoError(t, err)

	info := dec.Info()
	stride := info.Width * 4
	dst := make([]byte, stride*info.Height)
	res, err := dec.GetPixels(info, dst, stride, imgtypes.Options{ZeroInitialized: true})
	require.NoError(t, err)
	require.Equal(t, imgtypes.Success, res)
	return plan, dst, stride
}

func TestStandard24BitRoundTrip(t *testing.T) {
	data := bmp.EncodeStandard24(2, 2, func(x, y int) (r, g, b byte) {
		switch {
		case x == 0 && y == 0:
			return 0xFF, 0x00, 0x00
		case x == 1 && y == 0:
			return 0x00, 0xFF, 0x00
		case x == 0 && y == 1:
			return 0x00, 0x00, 0xFF
		default:
			return 0x11, 0x22, 0x33
		}
	})

	_, dst, stride := decodeFull(t, data, false)

	px := func(x, y int) (a, r, g, b byte) {
		off := y*stride + x*4
		return dst[off], dst[off+1], dst[off+2], dst[off+3]
	}

	a, r, g, b := px(0, 0)
	require.Equal(t, [4]byte{0xFF, 0xFF, 0x00, 0x00}, [4]byte{a, r, g, b})
	a, r, g, b = px(1, 1)
	require.Equal(t, [4]byte{0xFF, 0x11, 0x22, 0x33}, [4]byte{a, r, g, b})
}

// buildRLE8 assembles a minimal BMP file header + BITMAPINFOHEADER +
// RLE8-compressed pixel stream, for round-tripping decodeRLE.
func buildRLE8(width, height int, rle []byte) []byte {
	const infoHeaderSize = 40
	const paletteBytes = 2 * 4 // 2 colors, 4 bytes each
	offBits := uint32(14 + infoHeaderSize + paletteBytes)
	fileSize := offBits + uint32(len(rle))

	buf := make([]byte, 0, fileSize)
	buf = append(buf, 'B', 'M')
	buf = appendU32(buf, fileSize)
	buf = appendU16(buf, 0)
	buf = appendU16(buf, 0)
	buf = appendU32(buf, offBits)

	buf = appendU32(buf, infoHeaderSize)
	buf = appendU32(buf, uint32(width))
	buf = appendU32(buf, uint32(height))
	buf = appendU16(buf, 1)  // planes
	buf = appendU16(buf, 8)  // bitCount
	buf = appendU32(buf, 1)  // BI_RLE8
	buf = appendU32(buf, uint32(len(rle)))
	buf = appendU32(buf, 0)
	buf = appendU32(buf, 0)
	buf = appendU32(buf, 2) // colorsUsed
	buf = appendU32(buf, 0)

	// 2-entry palette, B,G,R,0
	buf = append(buf, 0x00, 0x00, 0xFF, 0x00) // entry 0: red
	buf = append(buf, 0x00, 0xFF, 0x00, 0x00) // entry 1: green

	buf = append(buf, rle...)
	return buf
}

func appendU16(buf []byte, v uint16) []byte { return append(buf, byte(v), byte(v>>8)) }
func appendU32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func TestRLE8RunAndAbsolute(t *testing.T) {
	// File row 0: run of 3 pixels of index 0 (red), then EOL.
	// File row 1: absolute run of 3 literal pixels (idx1,idx0,idx1 = g,r,g),
	// padded to an even byte count, then EOF. (Absolute-mode counts below 3
	// are impossible to encode: task values 0/1/2 are the EOL/EOF/delta
	// escapes, per spec.md §4.6.)
	rle := []byte{
		3, 0x00, // run: 3 pixels, index 0 (red)
		0, 0, // EOL
		0, 3, 0x01, 0x00, 0x01, 0x00, // absolute: count 3 [idx1,idx0,idx1], pad
		0, 1, // EOF
	}
	data := buildRLE8(3, 2, rle)

	_, dst, stride := decodeFull(t, data, false)

	px := func(x, y int) (r, g, b byte) {
		off := y*stride + x*4
		return dst[off+1], dst[off+2], dst[off+3]
	}

	// BMP rows are bottom-up by default, so file row 0 (the first RLE row
	// read) maps to the last logical row, and file row 1 maps to row 0.
	r, g, b := px(0, 1)
	require.Equal(t, [3]byte{0xFF, 0x00, 0x00}, [3]byte{r, g, b}) // run: red

	r, g, b = px(0, 0)
	require.Equal(t, [3]byte{0x00, 0xFF, 0x00}, [3]byte{r, g, b}) // absolute idx1 = green
	r, g, b = px(1, 0)
	require.Equal(t, [3]byte{0xFF, 0x00, 0x00}, [3]byte{r, g, b}) // absolute idx0 = red
	r, g, b = px(2, 0)
	require.Equal(t, [3]byte{0x00, 0xFF, 0x00}, [3]byte{r, g, b}) // absolute idx1 = green
}

func buildBitMask32(width, height int, alphaAllZero bool) []byte {
	const infoHeaderSize = 40
	const maskBytes = 12 // V1 bitfields: R,G,B masks follow the header inline
	offBits := uint32(14 + infoHeaderSize + maskBytes)
	rowBytes := width * 4
	pixelBytes := uint32(rowBytes * height)
	fileSize := offBits + pixelBytes

	buf := make([]byte, 0, fileSize)
	buf = append(buf, 'B', 'M')
	buf = appendU32(buf, fileSize)
	buf = appendU16(buf, 0)
	buf = appendU16(buf, 0)
	buf = appendU32(buf, offBits)

	buf = appendU32(buf, infoHeaderSize)
	buf = appendU32(buf, uint32(width))
	buf = appendU32(buf, uint32(height))
	buf = appendU16(buf, 1)
	buf = appendU16(buf, 32)
	buf = appendU32(buf, 3) // BI_BITFIELDS
	buf = appendU32(buf, pixelBytes)
	buf = appendU32(buf, 0)
	buf = appendU32(buf, 0)
	buf = appendU32(buf, 0)
	buf = appendU32(buf, 0)

	// V1 bitfields: 12 extra bytes of R,G,B masks right after the header.
	buf = appendU32(buf, 0x00FF0000)
	buf = appendU32(buf, 0x0000FF00)
	buf = appendU32(buf, 0x000000FF)

	for i := 0; i < height*width; i++ {
		a := byte(0xFF)
		if alphaAllZero {
			a = 0x00
		}
		// This header only declares R,G,B masks (no alpha mask), so the
		// engine always reports opaque regardless of the high byte; the
		// byte is written anyway to exercise the full 32-bit sample path.
		buf = append(buf, 0x10, 0x20, 0x30, a)
	}
	return buf
}

func TestBitMask32NoAlphaMaskIsOpaque(t *testing.T) {
	data := buildBitMask32(2, 1, false)
	_, dst, _ := decodeFull(t, data, false)
	require.EqualValues(t, 0xFF, dst[0])
	require.EqualValues(t, 0x30, dst[1]) // red channel from 0x00FF0000 mask
	require.EqualValues(t, 0x20, dst[2])
	require.EqualValues(t, 0x10, dst[3])
}

func TestHeaderVersionDispatch(t *testing.T) {
	data := bmp.EncodeStandard24(1, 1, func(x, y int) (r, g, b byte) { return 1, 2, 3 })
	br := bytereader.New(bytes.NewReader(data))
	plan, err := bmp.ParseHeader(br, false, nil)
	require.NoError(t, err)
	require.Equal(t, bmp.HeaderInfoV1, plan.HeaderVersion)
	require.Equal(t, bmp.Standard, plan.InputFormat)
	require.Equal(t, bmp.BottomUp, plan.RowOrder)
}

// TestStandard24BitCrossDecodeWithXImage decodes the same 24bpp BI_RGB
// fixture with both the local decoder and golang.org/x/image/bmp, as a
// cross-check that the basic uncompressed row format agrees with a
// second, independent implementation.
func TestStandard24BitCrossDecodeWithXImage(t *testing.T) {
	data := bmp.EncodeStandard24(2, 2, func(x, y int) (r, g, b byte) {
		switch {
		case x == 0 && y == 0:
			return 0xFF, 0x00, 0x00
		case x == 1 && y == 0:
			return 0x00, 0xFF, 0x00
		case x == 0 && y == 1:
			return 0x00, 0x00, 0xFF
		default:
			return 0x11, 0x22, 0x33
		}
	})

	_, dst, stride := decodeFull(t, data, false)

	ref, err := xbmp.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			wantR, wantG, wantB, _ := ref.At(x, y).RGBA()
			off := y*stride + x*4
			require.EqualValues(t, wantR>>8, dst[off+1], "red at (%d,%d)", x, y)
			require.EqualValues(t, wantG>>8, dst[off+2], "green at (%d,%d)", x, y)
			require.EqualValues(t, wantB>>8, dst[off+3], "blue at (%d,%d)", x, y)
		}
	}
}

func TestIsBitmapSignature(t *testing.T) {
	require.True(t, bmp.IsBitmapSignature([]byte{'B', 'M', 0, 0}))
	require.False(t, bmp.IsBitmapSignature([]byte{0x89, 'P'}))
	require.False(t, bmp.IsBitmapSignature([]byte{'B'}))
}
