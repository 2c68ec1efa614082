package bytereader_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/anas-shakeel/go-imagecodec/internal/bytereader"
	"github.com/stretchr/testify/require"
)

func TestReadNExact(t *testing.T) {
	br := bytereader.New(strings.NewReader("hello world"))
	buf, short := br.ReadN(5)
	require.False(t, short)
	require.Equal(t, "hello", string(buf))
	require.EqualValues(t, 5, br.Consumed())
}

func TestReadNShort(t *testing.T) {
	br := bytereader.New(strings.NewReader("ab"))
	buf, short := br.ReadN(5)
	require.True(t, short)
	require.Equal(t, "ab", string(buf))
}

func TestSkip(t *testing.T) {
	br := bytereader.New(strings.NewReader("0123456789"))
	require.True(t, br.Skip(4))
	buf, short := br.ReadN(2)
	require.False(t, short)
	require.Equal(t, "45", string(buf))

	require.False(t, br.Skip(100))
}

func TestRewindNonSeekable(t *testing.T) {
	// io.MultiReader hides the underlying strings.Reader's Seek method.
	br := bytereader.New(io.MultiReader(strings.NewReader("abc")))
	require.False(t, br.Rewind())
}

func TestRewindSeekable(t *testing.T) {
	br := bytereader.New(bytes.NewReader([]byte("abcdef")))
	br.ReadN(3)
	require.True(t, br.Rewind())
	require.EqualValues(t, 0, br.Consumed())
	buf, short := br.ReadN(3)
	require.False(t, short)
	require.Equal(t, "abc", string(buf))
}

func TestLittleEndianAccessors(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	require.EqualValues(t, 0x01, bytereader.U8(buf, 0))
	require.EqualValues(t, 0x0201, bytereader.U16(buf, 0))
	require.EqualValues(t, 0x04030201, bytereader.U32(buf, 0))
}
