// Command imgcodec decodes a BMP, ICO-embedded BMP, or PNG file into a
// 32-bit ARGB buffer, optionally applies a filter, and prints the result
// as a 24-bit BMP or a colored terminal block preview.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	imagecodec "github.com/anas-shakeel/go-imagecodec"
	"github.com/anas-shakeel/go-imagecodec/internal/bmp"
	"github.com/anas-shakeel/go-imagecodec/internal/filters"
)

func main() {
	in := flag.String("in", "", "path to a .bmp, .ico, or .png file")
	out := flag.String("out", "", "path to write a 24-bit BMP preview (optional)")
	filter := flag.String("filter", "", "invert|grayscale|grayscale-luma (optional)")
	preview := flag.Bool("preview", false, "print a colored terminal block preview")
	flag.Parse()

	if *in == "" {
		log.Fatal("imgcodec: -in is required")
	}

	debug := imgtypesSink()

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("imgcodec: %v", err)
	}
	defer f.Close()

	var dec imagecodec.Decoder
	switch strings.ToLower(filepath.Ext(*in)) {
	case ".ico":
		dec, err = imagecodec.NewBmpFromIco(f, debug)
	case ".png":
		dec, err = imagecodec.NewPng(f, debug)
	default:
		dec, err = imagecodec.NewBmp(f, debug)
	}
	if err != nil {
		log.Fatalf("imgcodec: %v", err)
	}

	info := dec.Info()
	dst := imagecodec.ImageInfo{Width: info.Width, Height: info.Height, ColorType: imagecodec.N32, AlphaType: imagecodec.Unpremul}
	if !dec.CanDecodeTo(dst) {
		dst.AlphaType = info.AlphaType
	}

	stride := dst.Width * 4
	buf := make([]byte, stride*dst.Height)
	res, err := dec.GetPixels(dst, buf, stride, imagecodec.Options{ZeroInitialized: true})
	if err != nil {
		log.Fatalf("imgcodec: %v", err)
	}
	if res != imagecodec.Success {
		fmt.Fprintf(os.Stderr, "imgcodec: decode finished with %v\n", res)
	}

	switch *filter {
	case "invert":
		filters.Invert(buf, dst.Width, dst.Height, stride)
	case "grayscale":
		filters.Grayscale(buf, dst.Width, dst.Height, stride)
	case "grayscale-luma":
		filters.GrayscaleLuma(buf, dst.Width, dst.Height, stride)
	case "":
	default:
		log.Fatalf("imgcodec: unknown filter %q", *filter)
	}

	if *preview {
		printPreview(buf, dst.Width, dst.Height, stride)
	}

	if *out != "" {
		encoded := bmp.EncodeStandard24(dst.Width, dst.Height, func(x, y int) (r, g, b byte) {
			off := y*stride + x*4
			return buf[off+1], buf[off+2], buf[off+3]
		})
		if err := os.WriteFile(*out, encoded, 0o644); err != nil {
			log.Fatalf("imgcodec: %v", err)
		}
	}
}

func printPreview(buf []byte, width, height, stride int) {
	for y := 0; y < height; y++ {
		base := y * stride
		for x := 0; x < width; x++ {
			off := base + x*4
			fmt.Print(coloredBlock(buf[off+1], buf[off+2], buf[off+3]))
		}
		fmt.Println()
	}
}

// coloredBlock renders a two-space terminal cell in the given ARGB pixel's
// color using a 24-bit-color ANSI escape.
func coloredBlock(r, g, b byte) string {
	return fmt.Sprintf("\033[48;2;%d;%d;%dm  \033[0m", r, g, b)
}

func imgtypesSink() imagecodec.DebugSink {
	return func(format string, args ...any) {
		log.Printf("imgcodec: "+format, args...)
	}
}
