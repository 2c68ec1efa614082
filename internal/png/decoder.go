package png

import (
	"fmt"
	"io"

	"github.com/anas-shakeel/go-imagecodec/internal/bytereader"
	"github.com/anas-shakeel/go-imagecodec/internal/colorutil"
	"github.com/anas-shakeel/go-imagecodec/internal/imgtypes"
	"github.com/anas-shakeel/go-imagecodec/internal/swizzle"
)

// Decoder drives a PNG decode: chunk/IHDR parsing already happened by the
// time New returns; GetPixels (or the scanline surface) drains the inflate
// engine row by row.
type Decoder struct {
	br        *bytereader.Reader
	ihdr      IHDR
	table     *colorutil.ColorTable
	alphaType imgtypes.AlphaType
	debug     imgtypes.DebugSink

	idat   []byte
	engine inflateEngine

	reallyHasAlpha bool
}

func validColorDepth(ihdr IHDR) bool {
	validDepths := func(depths ...int) bool {
		for _, d := range depths {
			if ihdr.BitDepth == d {
				return true
			}
		}
		return false
	}
	switch ihdr.ColorType {
	case ColorGray:
		return validDepths(1, 2, 4, 8, 16)
	case ColorRGB, ColorGrayAlpha, ColorRGBA:
		return validDepths(8, 16)
	case ColorPalette:
		return validDepths(1, 2, 4, 8)
	default:
		return false
	}
}

// New parses the PNG signature, chunk stream, and IHDR from br, and opens
// the inflate engine over the concatenated IDAT payload. The engine is
// acquired here (spec.md §4.7/§5) and torn down either by Close or by the
// end of GetPixels/Finish.
func New(br *bytereader.Reader, debug imgtypes.DebugSink) (*Decoder, error) {
	chunks, err := ParseChunks(br)
	if err != nil {
		return nil, err
	}
	ihdr := chunks.ihdr
	if !validColorDepth(ihdr) {
		return nil, &UnsupportedError{Reason: fmt.Sprintf("color type %d with bit depth %d", ihdr.ColorType, ihdr.BitDepth)}
	}
	if !(imgtypes.ImageInfo{Width: ihdr.Width, Height: ihdr.Height}).Valid() {
		return nil, fmt.Errorf("%w: dimensions %dx%d out of range", ErrInvalid, ihdr.Width, ihdr.Height)
	}

	var table *colorutil.ColorTable
	alphaType := imgtypes.Opaque
	switch ihdr.ColorType {
	case ColorPalette:
		table = colorutil.NewRGBTable(chunks.plte, chunks.trns, colorutil.AlphaUnpremul)
		if len(chunks.trns) > 0 {
			alphaType = imgtypes.Unpremul
		}
	case ColorRGBA, ColorGrayAlpha:
		alphaType = imgtypes.Unpremul
	}

	guard, err := acquireEngine(chunks.idat)
	if err != nil {
		return nil, err
	}
	engine := guard.detach()

	return &Decoder{
		br:        br,
		ihdr:      ihdr,
		table:     table,
		alphaType: alphaType,
		debug:     debug,
		idat:      chunks.idat,
		engine:    engine,
	}, nil
}

// Close tears down the inflate engine. Safe to call more than once.
func (d *Decoder) Close() error {
	if d.engine == nil {
		return nil
	}
	err := d.engine.Close()
	d.engine = nil
	return err
}

// Info returns the image's dimensions and alpha convention.
func (d *Decoder) Info() imgtypes.ImageInfo {
	return imgtypes.ImageInfo{Width: d.ihdr.Width, Height: d.ihdr.Height, ColorType: imgtypes.N32, AlphaType: d.alphaType}
}

// ReallyHasAlpha reports whether any decoded pixel had alpha != 0xFF. Valid
// only after a GetPixels/GetScanlines pass has completed.
func (d *Decoder) ReallyHasAlpha() bool { return d.reallyHasAlpha }

// CanDecodeTo mirrors bmp.Decoder.CanDecodeTo's conversion-compatibility
// rule.
func (d *Decoder) CanDecodeTo(dst imgtypes.ImageInfo) bool {
	if dst.Width != d.ihdr.Width || dst.Height != d.ihdr.Height {
		return false
	}
	if dst.ColorType != imgtypes.N32 {
		return false
	}
	if dst.AlphaType == d.alphaType {
		return true
	}
	return dst.AlphaType == imgtypes.Premul && d.alphaType == imgtypes.Unpremul
}

func destAlphaMode(dst imgtypes.ImageInfo) swizzle.DestAlphaMode {
	switch dst.AlphaType {
	case imgtypes.Premul:
		return swizzle.DestPremul
	case imgtypes.Unpremul:
		return swizzle.DestUnpremul
	default:
		return swizzle.DestOpaque
	}
}

// IsInterlaced reports whether Adam7 interlacing is in effect. Per
// spec.md §4.7, interlaced inputs do not support the scanline-by-scanline
// external API.
func (d *Decoder) IsInterlaced() bool { return d.ihdr.Interlace != 0 }

// GetPixels decodes the full image into dstBuf.
func (d *Decoder) GetPixels(dst imgtypes.ImageInfo, dstBuf []byte, dstStride int, opts imgtypes.Options) (imgtypes.Result, error) {
	if dst.Width != d.ihdr.Width || dst.Height != d.ihdr.Height {
		return imgtypes.InvalidScale, fmt.Errorf("png: destination %dx%d does not match source %dx%d", dst.Width, dst.Height, d.ihdr.Width, d.ihdr.Height)
	}
	if !d.CanDecodeTo(dst) {
		return imgtypes.InvalidConversion, fmt.Errorf("png: cannot convert %s source to %s destination", d.alphaType, dst.AlphaType)
	}
	defer d.Close()

	var res imgtypes.Result
	var err error
	if d.IsInterlaced() {
		res, err = d.decodeInterlaced(dst, dstBuf, dstStride)
	} else {
		res, err = d.decodeNonInterlaced(dst, dstBuf, dstStride, d.ihdr.Height)
	}
	return res, err
}

func (d *Decoder) channels() int { return channelsFor(d.ihdr.ColorType) }

func (d *Decoder) bpp() int {
	return bytesPerPixelForFilter(d.ihdr.BitDepth, d.channels())
}

// decodeOneRow reads one defiltered scanline of the given pixel width,
// reusing prev as the predictor reference (nil for the first row of an
// image or pass). It returns the defiltered raw bytes (without the filter
// type byte).
func (d *Decoder) decodeOneRow(width int, prev []byte) ([]byte, error) {
	rowLen := rawScanlineBytes(width, d.ihdr.BitDepth, d.channels())
	buf := make([]byte, 1+rowLen)
	if _, err := io.ReadFull(d.engine, buf); err != nil {
		return nil, err
	}
	cur := buf[1:]
	if err := unfilter(buf[0], cur, prev, d.bpp()); err != nil {
		return nil, err
	}
	return cur, nil
}

func (d *Decoder) decodeNonInterlaced(dst imgtypes.ImageInfo, dstBuf []byte, dstStride, height int) (imgtypes.Result, error) {
	width := d.ihdr.Width
	var prev []byte
	var sw *swizzle.Swizzler

	for y := 0; y < height; y++ {
		cur, err := d.decodeOneRow(width, prev)
		if err != nil {
			return imgtypes.IncompleteInput, fmt.Errorf("png: %w", err)
		}
		expanded, cfg := expandScanline(d.ihdr.ColorType, d.ihdr.BitDepth, width, cur)
		if sw == nil {
			sw = swizzle.New(cfg, width, dstBuf, dstStride, destAlphaMode(dst), d.table, nil)
		}
		r := sw.Next(expanded, y)
		if r != swizzle.RowOpaque {
			d.reallyHasAlpha = true
		}
		// prev must reference the defiltered bytes, not the expanded ones.
		prevCopy := make([]byte, len(cur))
		copy(prevCopy, cur)
		prev = prevCopy
	}
	return imgtypes.Success, nil
}

func (d *Decoder) decodeInterlaced(dst imgtypes.ImageInfo, dstBuf []byte, dstStride int) (imgtypes.Result, error) {
	width, height := d.ihdr.Width, d.ihdr.Height
	perPixel := 4
	if d.ihdr.ColorType == ColorPalette {
		perPixel = 1
	}
	full := make([]byte, width*height*perPixel)

	var cfg swizzle.SourceConfig
	for _, pass := range adam7Passes {
		pw, ph := passDimensions(pass, width, height)
		if pw == 0 || ph == 0 {
			continue
		}
		var prev []byte
		for py := 0; py < ph; py++ {
			cur, err := d.decodeOneRow(pw, prev)
			if err != nil {
				return imgtypes.IncompleteInput, fmt.Errorf("png: %w", err)
			}
			expanded, c := expandScanline(d.ihdr.ColorType, d.ihdr.BitDepth, pw, cur)
			cfg = c
			imgY := pass.yStart + py*pass.yStep
			for px := 0; px < pw; px++ {
				imgX := pass.xStart + px*pass.xStep
				srcOff := px * perPixel
				dstOff := (imgY*width + imgX) * perPixel
				copy(full[dstOff:dstOff+perPixel], expanded[srcOff:srcOff+perPixel])
			}
			prevCopy := make([]byte, len(cur))
			copy(prevCopy, cur)
			prev = prevCopy
		}
	}

	sw := swizzle.New(cfg, width, dstBuf, dstStride, destAlphaMode(dst), d.table, nil)
	for y := 0; y < height; y++ {
		row := full[y*width*perPixel : (y+1)*width*perPixel]
		r := sw.Next(row, y)
		if r != swizzle.RowOpaque {
			d.reallyHasAlpha = true
		}
	}
	return imgtypes.Success, nil
}
