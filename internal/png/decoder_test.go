package png_test

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/anas-shakeel/go-imagecodec/internal/bytereader"
	"github.com/anas-shakeel/go-imagecodec/internal/imgtypes"
	"github.com/anas-shakeel/go-imagecodec/internal/png"
	"github.com/stretchr/testify/require"
)

func appendChunk(buf []byte, typ string, data []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, []byte(typ)...)
	buf = append(buf, data...)
	buf = append(buf, 0, 0, 0, 0) // CRC, unverified by ParseChunks
	return buf
}

func deflate(t *testing.T, raw []byte) []byte {
	t.Helper()
	var out bytes.Buffer
	w := zlib.NewWriter(&out)
	_, err := w.Write(raw)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return out.Bytes()
}

func buildPNG(t *testing.T, width, height, bitDepth int, colorType png.ColorType, plte, trns []byte, scanlines []byte) []byte {
	t.Helper()
	buf := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(height))
	ihdr[8] = byte(bitDepth)
	ihdr[9] = byte(colorType)
	ihdr[10], ihdr[11], ihdr[12] = 0, 0, 0
	buf = appendChunk(buf, "IHDR", ihdr)

	if plte != nil {
		buf = appendChunk(buf, "PLTE", plte)
	}
	if trns != nil {
		buf = appendChunk(buf, "tRNS", trns)
	}

	idat := deflate(t, scanlines)
	buf = appendChunk(buf, "IDAT", idat)
	buf = appendChunk(buf, "IEND", nil)
	return buf
}

func TestDecodeRGBANonInterlaced(t *testing.T) {
	// 2x1 RGBA image: opaque red, half-alpha blue.
	scanlines := []byte{
		0, // filter: None
		0xFF, 0x00, 0x00, 0xFF,
		0x00, 0x00, 0xFF, 0x80,
	}
	data := buildPNG(t, 2, 1, 8, png.ColorRGBA, nil, nil, scanlines)

	br := bytereader.New(bytes.NewReader(data))
	dec, err := png.New(br, nil)
	require.NoError(t, err)

	info := dec.Info()
	require.Equal(t, 2, info.Width)
	require.Equal(t, imgtypes.Unpremul, info.AlphaType)

	dst := imgtypes.ImageInfo{Width: 2, Height: 1, ColorType: imgtypes.N32, AlphaType: imgtypes.Unpremul}
	stride := dst.Width * 4
	buf := make([]byte, stride*dst.Height)
	res, err := dec.GetPixels(dst, buf, stride, imgtypes.Options{})
	require.NoError(t, err)
	require.Equal(t, imgtypes.Success, res)

	require.Equal(t, []byte{0xFF, 0xFF, 0x00, 0x00}, buf[0:4])
	require.Equal(t, []byte{0x80, 0x00, 0x00, 0xFF}, buf[4:8])
	require.True(t, dec.ReallyHasAlpha())
}

func TestDecodePaletteWithTRNSWorkaround(t *testing.T) {
	plte := []byte{
		0xFF, 0x00, 0x00, // index 0: red
		0x00, 0xFF, 0x00, // index 1: green
	}
	trns := []byte{0x80, 0xFF}
	// filter None, row = [idx0, idx1, idx2]; idx2 equals the palette size.
	scanlines := []byte{0, 0x00, 0x01, 0x02}
	data := buildPNG(t, 3, 1, 8, png.ColorPalette, plte, trns, scanlines)

	br := bytereader.New(bytes.NewReader(data))
	dec, err := png.New(br, nil)
	require.NoError(t, err)

	dst := imgtypes.ImageInfo{Width: 3, Height: 1, ColorType: imgtypes.N32, AlphaType: imgtypes.Unpremul}
	stride := dst.Width * 4
	buf := make([]byte, stride*dst.Height)
	res, err := dec.GetPixels(dst, buf, stride, imgtypes.Options{})
	require.NoError(t, err)
	require.Equal(t, imgtypes.Success, res)

	require.EqualValues(t, 0x80, buf[0]) // alpha of index 0
	require.EqualValues(t, 0xFF, buf[4]) // alpha of index 1
	// Out-of-range index 2 resolves to the duplicated last entry (green).
	require.Equal(t, buf[4:8], buf[8:12])
}

func TestGetScanlineDecoderNonInterlaced(t *testing.T) {
	scanlines := []byte{
		0, 0x11, 0x22, 0x33, 0xFF,
		0, 0x44, 0x55, 0x66, 0xFF,
	}
	data := buildPNG(t, 1, 2, 8, png.ColorRGBA, nil, nil, scanlines)

	br := bytereader.New(bytes.NewReader(data))
	dec, err := png.New(br, nil)
	require.NoError(t, err)

	dst := imgtypes.ImageInfo{Width: 1, Height: 2, ColorType: imgtypes.N32, AlphaType: imgtypes.Unpremul}
	sd := dec.GetScanlineDecoder(dst)
	require.NotNil(t, sd)

	stride := dst.Width * 4
	buf := make([]byte, stride*dst.Height)
	n, res := sd.GetScanlines(buf, stride, 1)
	require.Equal(t, 1, n)
	require.Equal(t, imgtypes.Success, res)
	require.Equal(t, []byte{0xFF, 0x11, 0x22, 0x33}, buf[0:4])

	n, res = sd.GetScanlines(buf[stride:], stride, 1)
	require.Equal(t, 1, n)
	require.Equal(t, imgtypes.Success, res)

	require.NoError(t, sd.Finish())
}

func TestInterlacedRoundTrip(t *testing.T) {
	// Minimal Adam7 stream: a 2x2 RGB image only has data in passes 1, 6
	// and 7 at this size; every other pass starts outside the image and is
	// empty. Each pass's scanlines are written by hand below, and the test
	// checks that every pixel lands at its image position, fully opaque.
	width, height := 2, 2

	var raw bytes.Buffer
	// Pass 1 (xStart=0,yStart=0,step=8): touches (0,0) only for a 2x2 image.
	raw.WriteByte(0) // filter
	raw.Write([]byte{0x10, 0x20, 0x30})
	// Pass 4 (xStart=2,..): out of bounds for width=2, skipped.
	// Pass 5 (xStart=0,yStart=2,step=4,2): yStart=2 out of bounds for height=2, skipped.
	// Pass 6 (xStart=1,yStart=0,xStep=2,yStep=2): touches (1,0).
	raw.WriteByte(0)
	raw.Write([]byte{0x40, 0x50, 0x60})
	// Pass 7 (xStart=0,yStart=1,xStep=1,yStep=2): touches (0,1) and (1,1).
	raw.WriteByte(0)
	raw.Write([]byte{0x70, 0x80, 0x90, 0xA0, 0xB0, 0xC0})

	data := buildPNGInterlaced(t, width, height, raw.Bytes())

	br := bytereader.New(bytes.NewReader(data))
	dec, err := png.New(br, nil)
	require.NoError(t, err)
	require.True(t, dec.IsInterlaced())

	dst := imgtypes.ImageInfo{Width: width, Height: height, ColorType: imgtypes.N32, AlphaType: imgtypes.Opaque}
	stride := dst.Width * 4
	buf := make([]byte, stride*dst.Height)
	res, err := dec.GetPixels(dst, buf, stride, imgtypes.Options{})
	require.NoError(t, err)
	require.Equal(t, imgtypes.Success, res)

	require.Equal(t, []byte{0xFF, 0x10, 0x20, 0x30}, buf[0:4])   // (0,0)
	require.Equal(t, []byte{0xFF, 0x40, 0x50, 0x60}, buf[4:8])   // (1,0)
	require.Equal(t, []byte{0xFF, 0x70, 0x80, 0x90}, buf[stride:stride+4])     // (0,1)
	require.Equal(t, []byte{0xFF, 0xA0, 0xB0, 0xC0}, buf[stride+4:stride+8]) // (1,1)
}

func buildPNGInterlaced(t *testing.T, width, height int, deflatedInput []byte) []byte {
	t.Helper()
	buf := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(height))
	ihdr[8] = 8
	ihdr[9] = byte(png.ColorRGB)
	ihdr[12] = 1 // Adam7
	buf = appendChunk(buf, "IHDR", ihdr)

	idat := deflate(t, deflatedInput)
	buf = appendChunk(buf, "IDAT", idat)
	buf = appendChunk(buf, "IEND", nil)
	return buf
}
