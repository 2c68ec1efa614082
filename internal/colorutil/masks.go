// Package colorutil implements the bit-mask channel engine and the
// indexed-color palette shared by the bmp and png decoders.
package colorutil

import (
	"fmt"
	"math/bits"
)

// MaskInfo describes one channel's placement inside a packed sample.
type MaskInfo struct {
	Mask  uint32
	Shift uint8 // trailing zero count of Mask
	Width uint8 // popcount of Mask; 0 means the channel is absent
}

// newMaskInfo derives shift/width from a raw mask, rejecting masks whose set
// bits are not contiguous.
func newMaskInfo(mask uint32) (MaskInfo, error) {
	if mask == 0 {
		return MaskInfo{}, nil
	}
	shift := bits.TrailingZeros32(mask)
	width := bits.OnesCount32(mask)
	// A contiguous run of `width` bits starting at `shift` must equal mask.
	contiguous := uint32(((uint64(1) << uint(width)) - 1) << uint(shift))
	if contiguous != mask {
		return MaskInfo{}, fmt.Errorf("colorutil: mask 0x%08x is not contiguous", mask)
	}
	return MaskInfo{Mask: mask, Shift: uint8(shift), Width: uint8(width)}, nil
}

// Engine extracts 8-bit-normalized R/G/B/A channels out of a packed sample
// given up to four bit masks.
type Engine struct {
	red, green, blue, alpha MaskInfo
	hasAlpha                bool
}

// NewEngine validates and precomputes shifts/widths for the given channel
// masks. bitsPerPixel bounds the legal bit range; masks exceeding it or
// overlapping each other are rejected.
func NewEngine(redMask, greenMask, blueMask, alphaMask uint32, bitsPerPixel int) (*Engine, error) {
	red, err := newMaskInfo(redMask)
	if err != nil {
		return nil, err
	}
	green, err := newMaskInfo(greenMask)
	if err != nil {
		return nil, err
	}
	blue, err := newMaskInfo(blueMask)
	if err != nil {
		return nil, err
	}
	alpha, err := newMaskInfo(alphaMask)
	if err != nil {
		return nil, err
	}

	if redMask&greenMask != 0 || redMask&blueMask != 0 || greenMask&blueMask != 0 {
		return nil, fmt.Errorf("colorutil: RGB masks overlap (r=%#x g=%#x b=%#x)", redMask, greenMask, blueMask)
	}
	if alphaMask != 0 && (alphaMask&(redMask|greenMask|blueMask) != 0) {
		return nil, fmt.Errorf("colorutil: alpha mask overlaps RGB masks")
	}

	limit := uint32(1)<<uint(bitsPerPixel) - 1
	if bitsPerPixel >= 32 {
		limit = 0xFFFFFFFF
	}
	if redMask&^limit != 0 || greenMask&^limit != 0 || blueMask&^limit != 0 || alphaMask&^limit != 0 {
		return nil, fmt.Errorf("colorutil: mask exceeds %d-bit sample window", bitsPerPixel)
	}

	return &Engine{
		red:      red,
		green:    green,
		blue:     blue,
		alpha:    alpha,
		hasAlpha: alphaMask != 0,
	}, nil
}

// HasAlpha reports whether an alpha mask was supplied at construction.
func (e *Engine) HasAlpha() bool {
	return e.hasAlpha
}

func extract(sample uint32, m MaskInfo, absentDefault uint8) uint8 {
	if m.Width == 0 {
		return absentDefault
	}
	maxVal := (uint32(1) << uint(m.Width)) - 1
	raw := (sample & m.Mask) >> m.Shift
	return uint8(raw * 255 / maxVal)
}

// GetRed extracts the normalized 8-bit red channel.
func (e *Engine) GetRed(sample uint32) uint8 { return extract(sample, e.red, 0) }

// GetGreen extracts the normalized 8-bit green channel.
func (e *Engine) GetGreen(sample uint32) uint8 { return extract(sample, e.green, 0) }

// GetBlue extracts the normalized 8-bit blue channel.
func (e *Engine) GetBlue(sample uint32) uint8 { return extract(sample, e.blue, 0) }

// GetAlpha extracts the normalized 8-bit alpha channel. An absent alpha
// channel always yields 0xFF (fully opaque).
func (e *Engine) GetAlpha(sample uint32) uint8 { return extract(sample, e.alpha, 0xFF) }
