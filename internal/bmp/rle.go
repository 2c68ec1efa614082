package bmp

import (
	"github.com/anas-shakeel/go-imagecodec/internal/bytereader"
	"github.com/anas-shakeel/go-imagecodec/internal/colorutil"
	"github.com/anas-shakeel/go-imagecodec/internal/imgtypes"
)

// decodeRLE interprets the escape-driven RLE4/RLE8/RLE24 opcode stream
// described in spec.md §4.6 as a small state machine over an explicit
// (flag, task) command and (x, y) cursor, rather than folding it into the
// outer row loop.
func decodeRLE(br *bytereader.Reader, plan *DecodePlan, table *colorutil.ColorTable, dstBuf []byte, dstStride int, zeroInitialized bool, debug imgtypes.DebugSink) imgtypes.Result {
	width, height := plan.Width, plan.Height

	raw, short := br.ReadN(int(plan.RLEByteCount))
	if short {
		debug.Logf("bmp: RLE payload shorter than declared size (%d bytes read)", len(raw))
	}

	if !zeroInitialized {
		for y := 0; y < height; y++ {
			rowStart := y * dstStride
			for i := 0; i < width*4; i++ {
				dstBuf[rowStart+i] = 0
			}
		}
	}

	mapRow := func(y int) int {
		if plan.RowOrder == BottomUp {
			return height - 1 - y
		}
		return y
	}

	setPixel := func(x, y int, argb uint32) {
		if x < 0 || x >= width || y < 0 || y >= height {
			return
		}
		row := mapRow(y)
		off := row*dstStride + x*4
		dstBuf[off+0] = byte(argb >> 24)
		dstBuf[off+1] = byte(argb >> 16)
		dstBuf[off+2] = byte(argb >> 8)
		dstBuf[off+3] = byte(argb)
	}

	x, y := 0, 0
	pos := 0

	for {
		if pos+2 > len(raw) {
			return imgtypes.IncompleteInput
		}
		flag, task := raw[pos], raw[pos+1]
		pos += 2

		isWrite := flag != 0 || task >= 3
		if isWrite && y >= height {
			return imgtypes.IncompleteInput
		}

		if flag == 0 {
			switch {
			case task == 0: // end of line
				x = 0
				y++
			case task == 1: // end of file
				return imgtypes.Success
			case task == 2: // delta
				if pos+2 > len(raw) {
					return imgtypes.IncompleteInput
				}
				dx, dy := int(raw[pos]), int(raw[pos+1])
				pos += 2
				x += dx
				y += dy
				if x > width || y > height {
					return imgtypes.IncompleteInput
				}
			default: // absolute mode: `task` literal pixels follow
				count := int(task)
				if x+count > width {
					return imgtypes.IncompleteInput
				}
				switch plan.BitsPerPixel {
				case 8:
					if pos+count > len(raw) {
						return imgtypes.IncompleteInput
					}
					for k := 0; k < count; k++ {
						setPixel(x+k, y, table.At(int(raw[pos+k])))
					}
					pos += count
					if count%2 == 1 {
						pos++
					}
				case 4:
					nbytes := (count + 1) / 2
					if pos+nbytes > len(raw) {
						return imgtypes.IncompleteInput
					}
					for k := 0; k < count; k++ {
						b := raw[pos+k/2]
						idx := int(b >> 4)
						if k%2 == 1 {
							idx = int(b & 0x0F)
						}
						setPixel(x+k, y, table.At(idx))
					}
					pos += nbytes
					if nbytes%2 == 1 {
						pos++
					}
				case 24:
					need := count * 3
					if pos+need > len(raw) {
						return imgtypes.IncompleteInput
					}
					for k := 0; k < count; k++ {
						off := pos + k*3
						b, g, r := raw[off], raw[off+1], raw[off+2]
						setPixel(x+k, y, 0xFF000000|uint32(r)<<16|uint32(g)<<8|uint32(b))
					}
					pos += need
					if need%2 == 1 {
						pos++
					}
				default:
					return imgtypes.InvalidInput
				}
				x += count
			}
			continue
		}

		// Run mode: flag pixels, clipped to width-x.
		runLen := int(flag)
		clipped := runLen
		if remain := width - x; clipped > remain {
			if remain < 0 {
				remain = 0
			}
			clipped = remain
		}
		switch plan.BitsPerPixel {
		case 8:
			argb := table.At(int(task))
			for k := 0; k < clipped; k++ {
				setPixel(x+k, y, argb)
			}
		case 4:
			idx0, idx1 := int(task>>4), int(task&0x0F)
			argb0, argb1 := table.At(idx0), table.At(idx1)
			for k := 0; k < clipped; k++ {
				if k%2 == 0 {
					setPixel(x+k, y, argb0)
				} else {
					setPixel(x+k, y, argb1)
				}
			}
		case 24:
			if pos+2 > len(raw) {
				return imgtypes.IncompleteInput
			}
			blue := task
			green, red := raw[pos], raw[pos+1]
			pos += 2
			argb := 0xFF000000 | uint32(red)<<16 | uint32(green)<<8 | uint32(blue)
			for k := 0; k < clipped; k++ {
				setPixel(x+k, y, argb)
			}
		default:
			return imgtypes.InvalidInput
		}
		x += clipped
	}
}
