package colorutil_test

import (
	"testing"

	"github.com/anas-shakeel/go-imagecodec/internal/colorutil"
	"github.com/stretchr/testify/require"
)

func TestEngineRGB555Extraction(t *testing.T) {
	// 16-bit 555 mask, sample 0x7C00 selects only the top bits of red.
	eng, err := colorutil.NewEngine(0x7C00, 0x03E0, 0x001F, 0, 16)
	require.NoError(t, err)

	require.EqualValues(t, 0xFF, eng.GetRed(0x7C00))
	require.EqualValues(t, 0x00, eng.GetGreen(0x7C00))
	require.EqualValues(t, 0x00, eng.GetBlue(0x7C00))
	require.EqualValues(t, 0xFF, eng.GetAlpha(0x7C00)) // no alpha mask -> opaque
	require.False(t, eng.HasAlpha())
}

func TestEngineRejectsNonContiguousMask(t *testing.T) {
	_, err := colorutil.NewEngine(0x5555, 0, 0, 0, 16)
	require.Error(t, err)
}

func TestEngineRejectsOverlappingMasks(t *testing.T) {
	_, err := colorutil.NewEngine(0xFF00, 0x0FF0, 0x000F, 0, 16)
	require.Error(t, err)
}

func TestEngineRejectsOutOfRangeMask(t *testing.T) {
	_, err := colorutil.NewEngine(0xFF0000, 0x00FF00, 0x0000FF, 0, 16)
	require.Error(t, err)
}

func TestEngineWithAlpha(t *testing.T) {
	eng, err := colorutil.NewEngine(0x00FF0000, 0x0000FF00, 0x000000FF, 0xFF000000, 32)
	require.NoError(t, err)
	require.True(t, eng.HasAlpha())

	sample := uint32(0x80102030)
	require.EqualValues(t, 0x10, eng.GetRed(sample))
	require.EqualValues(t, 0x20, eng.GetGreen(sample))
	require.EqualValues(t, 0x30, eng.GetBlue(sample))
	require.EqualValues(t, 0x80, eng.GetAlpha(sample))
}
