package png

import (
	"fmt"

	"github.com/anas-shakeel/go-imagecodec/internal/imgtypes"
	"github.com/anas-shakeel/go-imagecodec/internal/swizzle"
)

// ScanlineDecoder exposes row-at-a-time decoding for non-interlaced PNGs
// (spec.md §6's scanline surface). It is not offered for Adam7 images: the
// pass structure requires the whole image before any row can be finalized.
type ScanlineDecoder struct {
	d       *Decoder
	sw      *swizzle.Swizzler
	prev    []byte
	nextRow int
	dst     imgtypes.ImageInfo
}

// GetScanlineDecoder returns a ScanlineDecoder bound to the destination
// pixel format, or nil if the stream is interlaced or the conversion is
// unsupported.
func (d *Decoder) GetScanlineDecoder(dst imgtypes.ImageInfo) *ScanlineDecoder {
	if d.IsInterlaced() {
		return nil
	}
	if !d.CanDecodeTo(dst) {
		return nil
	}
	return &ScanlineDecoder{d: d, dst: dst}
}

// GetScanlines decodes count rows starting at the decoder's current
// position into dstBuf, returning how many rows were actually produced.
// Fewer than count rows come back with IncompleteInput when the stream ended
// early, and with Success when the image has no rows left.
func (s *ScanlineDecoder) GetScanlines(dstBuf []byte, dstStride, count int) (int, imgtypes.Result) {
	width := s.d.ihdr.Width
	// Each call may pass a different destination, so bind a fresh swizzler.
	s.sw = nil
	for i := 0; i < count; i++ {
		if s.nextRow >= s.d.ihdr.Height {
			return i, imgtypes.Success
		}
		cur, err := s.d.decodeOneRow(width, s.prev)
		if err != nil {
			return i, imgtypes.IncompleteInput
		}
		expanded, cfg := expandScanline(s.d.ihdr.ColorType, s.d.ihdr.BitDepth, width, cur)
		if s.sw == nil {
			s.sw = swizzle.New(cfg, width, dstBuf, dstStride, destAlphaMode(s.dst), s.d.table, nil)
		}
		r := s.sw.Next(expanded, i)
		if r != swizzle.RowOpaque {
			s.d.reallyHasAlpha = true
		}
		prevCopy := make([]byte, len(cur))
		copy(prevCopy, cur)
		s.prev = prevCopy
		s.nextRow++
	}
	return count, imgtypes.Success
}

// SkipScanlines discards count rows without writing them anywhere, still
// feeding the defilter predictor chain so the row after the skip decodes
// correctly.
func (s *ScanlineDecoder) SkipScanlines(count int) imgtypes.Result {
	width := s.d.ihdr.Width
	for __i := 0; __i < count; __i++ {
		if s.nextRow >= s.d.ihdr.Height {
			return imgtypes.Success
		}
		cur, err := s.d.decodeOneRow(width, s.prev)
		if err != nil {
			return imgtypes.IncompleteInput
		}
		prevCopy := make([]byte, len(cur))
		copy(prevCopy, cur)
		s.prev = prevCopy
		s.nextRow++
	}
	return imgtypes.Success
}

// Finish releases the inflate engine; rows not yet decoded are not read.
// Callers must invoke it
// even after an IncompleteInput result, so the engine is always torn down.
func (s *ScanlineDecoder) Finish() error {
	if err := s.d.Close(); err != nil {
		return fmt.Errorf("png: finish: %w", err)
	}
	return nil
}

// ReallyHasAlpha reports whether any row decoded so far carried alpha !=
// 0xFF.
func (s *ScanlineDecoder) ReallyHasAlpha() bool { return s.d.reallyHasAlpha }
