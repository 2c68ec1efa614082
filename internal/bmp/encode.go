package bmp

import "encoding/binary"

// EncodeStandard24 builds a minimal 24-bit uncompressed, bottom-up BMP byte
// stream for width x height, calling pixel(x, y) for each source pixel in
// image (top-left-origin) coordinates. It is the fixture generator the
// decoder's tests build inputs with; it is adapted from the teacher
// repo's CreateBitmap/Save pair, generalized from writing a file to
// returning bytes and from operating on a [][]Pixel grid to an on-demand
// callback.
func EncodeStandard24(width, height int, pixel func(x, y int) (r, g, b byte)) []byte {
	const bitsPerPixel = 24
	stride := align4(width * bitsPerPixel / 8)
	padding := stride - width*3
	sizeImage := uint32(stride * height)
	fileSize := uint32(fileHeaderLen) + 40 + sizeImage

	buf := make([]byte, 0, fileSize)

	fh := BitmapFileHeader{Type: [2]byte{'B', 'M'}, Size: fileSize, OffBits: fileHeaderLen + 40}
	buf = appendLE(buf, fh.Type[:])
	buf = appendLE32(buf, fh.Size)
	buf = appendLE16(buf, fh.Reserved1)
	buf = appendLE16(buf, fh.Reserved2)
	buf = appendLE32(buf, fh.OffBits)

	bih := BitmapInfoHeader{Size: 40, Width: int32(width), Height: int32(height), Planes: 1, BitCount: bitsPerPixel, SizeImage: sizeImage}
	buf = appendLE32(buf, bih.Size)
	buf = appendLE32(buf, uint32(bih.Width))
	buf = appendLE32(buf, uint32(bih.Height))
	buf = appendLE16(buf, bih.Planes)
	buf = appendLE16(buf, bih.BitCount)
	buf = appendLE32(buf, 0) // compression: none
	buf = appendLE32(buf, bih.SizeImage)
	buf = appendLE32(buf, 0) // XPixelsPerM
	buf = appendLE32(buf, 0) // YPixelsPerM
	buf = appendLE32(buf, 0) // ColorsUsed
	buf = appendLE32(buf, 0) // ColorsImportant

	padBytes := make([]byte, padding)
	for row := height - 1; row >= 0; row-- {
		for col := 0; col < width; col++ {
			r, g, b := pixel(col, row)
			buf = append(buf, b, g, r)
		}
		buf = append(buf, padBytes...)
	}

	return buf
}

func appendLE(buf []byte, b []byte) []byte { return append(buf, b...) }

func appendLE16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

func appendLE32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}
