package bmp

import (
	"github.com/anas-shakeel/go-imagecodec/internal/bytereader"
	"github.com/anas-shakeel/go-imagecodec/internal/imgtypes"
)

// applyAndMask reads the 1-bit AND-mask plane that trails an ICO-embedded
// BMP's XOR pixel plane (spec.md §4.6 last paragraph) and zeroes every
// destination pixel (all four ARGB bytes) whose mask bit is set. Rows are
// 4-byte aligned, bit 7-(x mod 8) of byte x/8 is the transparency flag for
// pixel x, and this pass runs last, after all other decoding.
func applyAndMask(br *bytereader.Reader, plan *DecodePlan, dstBuf []byte, dstStride int) imgtypes.Result {
	width, height := plan.Width, plan.Height
	rowBytes := align4((width + 7) / 8)

	for i := 0; i < height; i++ {
		row, short := br.ReadN(rowBytes)
		if short {
			return imgtypes.IncompleteInput
		}
		rowStart := rowIndexFor(plan, i) * dstStride
		for x := 0; x < width; x++ {
			byteIdx := x / 8
			bit := row[byteIdx] & (1 << uint(7-(x%8)))
			if bit != 0 {
				off := rowStart + x*4
				dstBuf[off], dstBuf[off+1], dstBuf[off+2], dstBuf[off+3] = 0, 0, 0, 0
			}
		}
	}
	return imgtypes.Success
}
