// Package swizzle implements the per-scanline transform from a recognized
// source pixel packing into 32-bit ARGB destination rows.
//
// Destination pixels are 4 bytes each, stored in the order A, R, G, B —
// byte 0 is alpha, byte 3 is blue. A row lives at
// dstBuf[dstRowIndex*stride : dstRowIndex*stride + width*4].
package swizzle

import "github.com/anas-shakeel/go-imagecodec/internal/colorutil"

// SourceConfig identifies how a source scanline is packed.
type SourceConfig int

const (
	Index1 SourceConfig = iota
	Index2
	Index4
	Index8
	BGR
	BGRX
	BGRA
	Gray
	RGBX
	RGBA
	BitMask16
	BitMask32
)

// ResultAlpha summarizes a row's alpha content.
type ResultAlpha int

const (
	// RowOpaque means every pixel in the row had alpha == 0xFF.
	RowOpaque ResultAlpha = iota
	// RowTransparent means every pixel in the row had alpha == 0.
	RowTransparent
	// RowTranslucent means the row had mixed alpha.
	RowTranslucent
)

// DestAlphaMode selects whether output color channels are premultiplied.
type DestAlphaMode int

const (
	DestOpaque DestAlphaMode = iota
	DestPremul
	DestUnpremul
)

// Swizzler transforms one source scanline at a time into a destination ARGB
// row. It is reused across an entire decode; construction cost (resolving
// the source configuration, table/engine lookups) is paid once.
type Swizzler struct {
	src       SourceConfig
	width     int
	dstBuf    []byte
	dstStride int
	destAlpha DestAlphaMode
	table     *colorutil.ColorTable
	engine    *colorutil.Engine
}

// New constructs a Swizzler. table is required for Index* configurations;
// engine is required for BitMask16/BitMask32.
func New(src SourceConfig, width int, dstBuf []byte, dstStride int, destAlpha DestAlphaMode, table *colorutil.ColorTable, engine *colorutil.Engine) *Swizzler {
	return &Swizzler{
		src:       src,
		width:     width,
		dstBuf:    dstBuf,
		dstStride: dstStride,
		destAlpha: destAlpha,
		table:     table,
		engine:    engine,
	}
}

func writePixel(row []byte, x int, a, r, g, b uint8, destAlpha DestAlphaMode) {
	if destAlpha == DestPremul && a != 0xFF {
		r = uint8(uint16(r) * uint16(a) / 255)
		g = uint8(uint16(g) * uint16(a) / 255)
		b = uint8(uint16(b) * uint16(a) / 255)
	}
	if destAlpha == DestOpaque {
		a = 0xFF
	}
	off := x * 4
	row[off+0] = a
	row[off+1] = r
	row[off+2] = g
	row[off+3] = b
}

// Next unpacks srcRow according to the configured SourceConfig and writes
// width pixels into destination row dstRowIndex. It returns a summary of the
// row's alpha content.
func (s *Swizzler) Next(srcRow []byte, dstRowIndex int) ResultAlpha {
	rowStart := dstRowIndex * s.dstStride
	row := s.dstBuf[rowStart : rowStart+s.width*4]

	sawOpaque, sawTransparent, sawTranslucent := false, false, false
	note := func(a uint8) {
		switch {
		case a == 0xFF:
			sawOpaque = true
		case a == 0:
			sawTransparent = true
		default:
			sawTranslucent = true
		}
	}

	switch s.src {
	case Index1, Index2, Index4, Index8:
		bitsPerIndex := map[SourceConfig]int{Index1: 1, Index2: 2, Index4: 4, Index8: 8}[s.src]
		perByte := 8 / bitsPerIndex
		mask := byte(1<<uint(bitsPerIndex) - 1)
		for x := 0; x < s.width; x++ {
			byteIdx := x / perByte
			shift := uint(8 - bitsPerIndex*(x%perByte+1))
			idx := int((srcRow[byteIdx] >> shift) & mask)
			argb := s.table.At(idx)
			a, r, g, b := byte(argb>>24), byte(argb>>16), byte(argb>>8), byte(argb)
			writePixel(row, x, a, r, g, b, s.destAlpha)
			note(a)
		}
	case BGR:
		for x := 0; x < s.width; x++ {
			off := x * 3
			b, g, r := srcRow[off], srcRow[off+1], srcRow[off+2]
			writePixel(row, x, 0xFF, r, g, b, s.destAlpha)
			sawOpaque = true
		}
	case BGRX:
		for x := 0; x < s.width; x++ {
			off := x * 4
			b, g, r := srcRow[off], srcRow[off+1], srcRow[off+2]
			writePixel(row, x, 0xFF, r, g, b, s.destAlpha)
			sawOpaque = true
		}
	case BGRA:
		for x := 0; x < s.width; x++ {
			off := x * 4
			b, g, r, a := srcRow[off], srcRow[off+1], srcRow[off+2], srcRow[off+3]
			writePixel(row, x, a, r, g, b, s.destAlpha)
			note(a)
		}
	case RGBX:
		for x := 0; x < s.width; x++ {
			off := x * 4
			r, g, b := srcRow[off], srcRow[off+1], srcRow[off+2]
			writePixel(row, x, 0xFF, r, g, b, s.destAlpha)
			sawOpaque = true
		}
	case RGBA:
		for x := 0; x < s.width; x++ {
			off := x * 4
			r, g, b, a := srcRow[off], srcRow[off+1], srcRow[off+2], srcRow[off+3]
			writePixel(row, x, a, r, g, b, s.destAlpha)
			note(a)
		}
	case Gray:
		for x := 0; x < s.width; x++ {
			gray := srcRow[x]
			writePixel(row, x, 0xFF, gray, gray, gray, s.destAlpha)
			sawOpaque = true
		}
	case BitMask16:
		for x := 0; x < s.width; x++ {
			sample := uint32(srcRow[x*2]) | uint32(srcRow[x*2+1])<<8
			r, g, b, a := s.engine.GetRed(sample), s.engine.GetGreen(sample), s.engine.GetBlue(sample), s.engine.GetAlpha(sample)
			writePixel(row, x, a, r, g, b, s.destAlpha)
			note(a)
		}
	case BitMask32:
		for x := 0; x < s.width; x++ {
			off := x * 4
			sample := uint32(srcRow[off]) | uint32(srcRow[off+1])<<8 | uint32(srcRow[off+2])<<16 | uint32(srcRow[off+3])<<24
			r, g, b, a := s.engine.GetRed(sample), s.engine.GetGreen(sample), s.engine.GetBlue(sample), s.engine.GetAlpha(sample)
			writePixel(row, x, a, r, g, b, s.destAlpha)
			note(a)
		}
	}

	switch {
	case sawTranslucent || (sawOpaque && sawTransparent):
		return RowTranslucent
	case sawTransparent:
		return RowTransparent
	default:
		return RowOpaque
	}
}

// TransparentRunTracker tracks whether a contiguous run of rows from the start
// of the image has been fully transparent. It continues while every row
// seen so far is RowTransparent; any RowOpaque or RowTranslucent row breaks
// it permanently.
type TransparentRunTracker struct {
	broken  bool
	allSeen bool
}

// NewTransparentRunTracker returns a tracker that starts in the "still
// transparent" state.
func NewTransparentRunTracker() *TransparentRunTracker {
	return &TransparentRunTracker{allSeen: true}
}

// Observe folds one row's result into the run.
func (t *TransparentRunTracker) Observe(r ResultAlpha) {
	if t.broken {
		return
	}
	if r != RowTransparent {
		t.broken = true
		t.allSeen = false
	}
}

// WhollyTransparent reports whether every observed row has been fully
// transparent.
func (t *TransparentRunTracker) WhollyTransparent() bool {
	return t.allSeen
}
