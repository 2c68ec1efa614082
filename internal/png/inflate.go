// Package png is a thin driver around an external inflate engine
// (github.com/klauspost/compress/zlib) that extracts the PNG IHDR,
// requests channel-expansion fixups, and hands decoded rows to the shared
// swizzler.
package png

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// inflateEngine is the narrow callback interface spec.md §1/§4.7 treats the
// concrete decompression library as: read decompressed bytes, surface a
// fatal error. klauspost/compress/zlib.Reader satisfies it directly.
type inflateEngine interface {
	io.Reader
	io.Closer
}

// engineGuard owns an inflateEngine from acquisition through teardown on
// every exit path — the Go analogue of spec.md §9's note that the
// longjmp-based error path of a C inflate library must be isolated behind
// a guard that tears the engine down on every unwind path, including the
// error path itself.
type engineGuard struct {
	engine   inflateEngine
	detached bool
}

// acquireEngine wraps zlib-compressed IDAT bytes with a klauspost zlib
// reader. Fatal errors from engine construction are reported as a plain
// error, which New returns as a parse-time failure (no decoder is built).
func acquireEngine(idat []byte) (*engineGuard, error) {
	zr, err := zlib.NewReader(bytes.NewReader(idat))
	if err != nil {
		return nil, fmt.Errorf("png: inflate engine init failed: %w", err)
	}
	return &engineGuard{engine: zr}, nil
}

// detach hands the engine to the caller, who now owns teardown.
func (g *engineGuard) detach() inflateEngine {
	g.detached = true
	return g.engine
}

// release tears the engine down if it was never detached — the recovery
// point for every parse-time error between acquisition and a successful
// construction.
func (g *engineGuard) release() {
	if !g.detached && g.engine != nil {
		g.engine.Close()
	}
}
