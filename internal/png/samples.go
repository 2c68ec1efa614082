package png

import "github.com/anas-shakeel/go-imagecodec/internal/swizzle"

// channelsFor returns how many samples make up one pixel for a color type.
func channelsFor(ct ColorType) int {
	switch ct {
	case ColorGray, ColorPalette:
		return 1
	case ColorGrayAlpha:
		return 2
	case ColorRGB:
		return 3
	case ColorRGBA:
		return 4
	default:
		return 0
	}
}

// bytesPerPixelForFilter returns the whole-pixel byte width the Sub/Average/
// Paeth unfilter predictors use, per the PNG spec (never less than 1).
func bytesPerPixelForFilter(bitDepth, channels int) int {
	bpp := (bitDepth*channels + 7) / 8
	if bpp < 1 {
		bpp = 1
	}
	return bpp
}

// rawScanlineBytes returns the defiltered scanline length (excluding the
// leading filter-type byte) for a row of the given pixel width.
func rawScanlineBytes(width, bitDepth, channels int) int {
	return (width*channels*bitDepth + 7) / 8
}

func scaleSample(v byte, bitDepth int) byte {
	switch bitDepth {
	case 1:
		return v * 255
	case 2:
		return v * 85
	case 4:
		return v * 17
	default:
		return v
	}
}

// unpackSamples expands a defiltered scanline (raw, packed at bitDepth bits
// per sample) into one byte per sample. When scale is true, sub-8-bit
// values are rescaled to fill 0..255 (PNG's rule for gray/RGB channel
// data); indexed-palette samples pass scale=false since they are indices,
// not intensities. 16-bit samples are stripped to their high byte per
// spec.md §4.7's "bitDepth 16 -> strip to 8" fixup.
func unpackSamples(raw []byte, totalSamples, bitDepth int, scale bool) []byte {
	out := make([]byte, totalSamples)
	switch {
	case bitDepth == 16:
		for i := 0; i < totalSamples; i++ {
			out[i] = raw[i*2]
		}
	case bitDepth == 8:
		copy(out, raw[:totalSamples])
	default: // 1, 2, 4
		perByte := 8 / bitDepth
		mask := byte(1<<uint(bitDepth) - 1)
		for i := 0; i < totalSamples; i++ {
			byteIdx := i / perByte
			shift := uint(8 - bitDepth*(i%perByte+1))
			v := (raw[byteIdx] >> shift) & mask
			if scale {
				v = scaleSample(v, bitDepth)
			}
			out[i] = v
		}
	}
	return out
}

// expandScanline applies spec.md §4.7's pre-decode fixups to one defiltered
// scanline: gray/gray-alpha are expanded into RGB(A), bit depths under 8
// are expanded to one byte per sample, 16-bit samples are stripped to 8,
// and RGB (no alpha) gets a 0xFF filler byte. It returns a row ready for
// the shared Swizzler plus the SourceConfig to drive it with.
func expandScanline(ct ColorType, bitDepth, width int, raw []byte) ([]byte, swizzle.SourceConfig) {
	switch ct {
	case ColorPalette:
		idx := unpackSamples(raw, width, bitDepth, false)
		return idx, swizzle.Index8

	case ColorGray:
		gray := unpackSamples(raw, width, bitDepth, true)
		row := make([]byte, width*4)
		for x := 0; x < width; x++ {
			g := gray[x]
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = g, g, g, 0xFF
		}
		return row, swizzle.RGBX

	case ColorGrayAlpha:
		samples := unpackSamples(raw, width*2, bitDepth, true)
		row := make([]byte, width*4)
		for x := 0; x < width; x++ {
			g, a := samples[x*2], samples[x*2+1]
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = g, g, g, a
		}
		return row, swizzle.RGBA

	case ColorRGB:
		samples := unpackSamples(raw, width*3, bitDepth, true)
		row := make([]byte, width*4)
		for x := 0; x < width; x++ {
			off, o := x*3, x*4
			row[o], row[o+1], row[o+2], row[o+3] = samples[off], samples[off+1], samples[off+2], 0xFF
		}
		return row, swizzle.RGBX

	case ColorRGBA:
		samples := unpackSamples(raw, width*4, bitDepth, true)
		return samples, swizzle.RGBA

	default:
		return nil, 0
	}
}
