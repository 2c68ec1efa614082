package imagecodec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/anas-shakeel/go-imagecodec/internal/bmp"
	"github.com/anas-shakeel/go-imagecodec/internal/bytereader"
	"github.com/anas-shakeel/go-imagecodec/internal/png"
)

// Format identifies the container a stream was sniffed as.
type Format int

const (
	None Format = iota
	Bmp
	Png
)

var pngMagic = [4]byte{0x89, 'P', 'N', 'G'}

// Probe reads the first four bytes of r to classify its container. Those
// bytes are consumed from r; a caller that goes on to decode the same
// stream must rewind it to the start first.
func Probe(r io.Reader) (Format, error) {
	br := bytereader.New(r)
	head, short := br.ReadN(4)
	if short {
		return None, fmt.Errorf("imagecodec: stream too short to sniff")
	}
	if head[0] == 'B' && head[1] == 'M' {
		return Bmp, nil
	}
	if bytes.Equal(head, pngMagic[:]) {
		return Png, nil
	}
	return None, nil
}

// Decoder is the common surface both container decoders satisfy.
type Decoder interface {
	Info() ImageInfo
	CanDecodeTo(dst ImageInfo) bool
	GetPixels(dst ImageInfo, dstBuf []byte, dstStride int, opts Options) (Result, error)
}

type bmpDecoder struct{ d *bmp.Decoder }

func (b bmpDecoder) Info() ImageInfo                    { return b.d.Info() }
func (b bmpDecoder) CanDecodeTo(dst ImageInfo) bool     { return b.d.CanDecodeTo(dst) }
func (b bmpDecoder) GetPixels(dst ImageInfo, dstBuf []byte, dstStride int, opts Options) (Result, error) {
	return b.d.GetPixels(dst, dstBuf, dstStride, opts)
}

// PngDecoder extends Decoder with PNG's scanline surface and post-decode
// alpha summary (spec.md §6).
type PngDecoder struct {
	d *png.Decoder
}

func (p *PngDecoder) Info() ImageInfo                { return p.d.Info() }
func (p *PngDecoder) CanDecodeTo(dst ImageInfo) bool { return p.d.CanDecodeTo(dst) }
func (p *PngDecoder) GetPixels(dst ImageInfo, dstBuf []byte, dstStride int, opts Options) (Result, error) {
	return p.d.GetPixels(dst, dstBuf, dstStride, opts)
}

// ReallyHasAlpha reports whether the most recent decode pass observed any
// pixel with alpha != 0xFF.
func (p *PngDecoder) ReallyHasAlpha() bool { return p.d.ReallyHasAlpha() }

// ScanlineDecoder is the non-interlaced row-at-a-time surface; nil when the
// stream is Adam7-interlaced or the destination conversion is unsupported.
type ScanlineDecoder = png.ScanlineDecoder

// GetScanlineDecoder returns a ScanlineDecoder for non-interlaced PNGs, or
// nil otherwise (spec.md §6).
func (p *PngDecoder) GetScanlineDecoder(dst ImageInfo) *ScanlineDecoder {
	return p.d.GetScanlineDecoder(dst)
}

// NewBmp parses a standalone BMP file stream (file header present).
func NewBmp(r io.Reader, debug DebugSink) (Decoder, error) {
	return newBmpDecoder(r, false, debug)
}

// NewBmpFromIco parses a BMP embedded in an ICO/CUR directory entry: no
// file header, height doubled to include the AND mask, AND mask applied
// after pixel decode.
func NewBmpFromIco(r io.Reader, debug DebugSink) (Decoder, error) {
	return newBmpDecoder(r, true, debug)
}

func newBmpDecoder(r io.Reader, isIco bool, debug DebugSink) (Decoder, error) {
	br := bytereader.New(r)
	plan, err := bmp.ParseHeader(br, isIco, debug)
	if err != nil {
		return nil, fmt.Errorf("imagecodec: %w", err)
	}
	d, err := bmp.New(br, plan, debug)
	if err != nil {
		return nil, fmt.Errorf("imagecodec: %w", err)
	}
	return bmpDecoder{d: d}, nil
}

// NewPng parses a PNG stream's signature, chunks, and IHDR, and opens the
// inflate engine over its IDAT payload.
func NewPng(r io.Reader, debug DebugSink) (*PngDecoder, error) {
	br := bytereader.New(r)
	d, err := png.New(br, debug)
	if err != nil {
		return nil, fmt.Errorf("imagecodec: %w", err)
	}
	return &PngDecoder{d: d}, nil
}
