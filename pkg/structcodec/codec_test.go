package structcodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeMatchesFieldWidths(t *testing.T) {
	c := New(
		Field{I8, "a"},
		Field{U8, "b"},
		Field{I16, "c"},
		Field{U16, "d"},
		Field{I32, "e"},
		Field{U32, "f"},
		Field{F32, "g"},
	)
	assert.Equal(t, 1+1+2+2+4+4+4, c.Size())
}

func TestRoundTripAllKinds(t *testing.T) {
	c := New(
		Field{I8, "a"},
		Field{U8, "b"},
		Field{I16, "c"},
		Field{U16, "d"},
		Field{I32, "e"},
		Field{U32, "f"},
		Field{F32, "g"},
	)
	rec := Record{
		"a": int8(-128),
		"b": uint8(255),
		"c": int16(-32768),
		"d": uint16(65535),
		"e": int32(-2147483648),
		"f": uint32(4294967295),
		"g": float32(3.5),
	}
	buf, err := c.Pack(rec)
	require.NoError(t, err)
	require.Len(t, buf, c.Size())

	got, err := c.Unpack(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestI8TwosComplementBoundary(t *testing.T) {
	c := New(Field{I8, "v"})
	for _, v := range []int8{-128, -1, 0, 1, 127} {
		buf, err := c.Pack(Record{"v": v})
		require.NoError(t, err)
		got, err := c.Unpack(buf, 0)
		require.NoError(t, err)
		assert.Equal(t, v, got["v"])
	}
}

func TestUnpackShortReadAtOffset(t *testing.T) {
	c := New(Field{U32, "x"})
	buf := make([]byte, 3)
	_, err := c.Unpack(buf, 0)
	assert.ErrorIs(t, err, ErrShortRead)

	buf2 := make([]byte, 10)
	_, err = c.Unpack(buf2, 8)
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestPackMissingFieldErrors(t *testing.T) {
	c := New(Field{U16, "only"})
	_, err := c.Pack(Record{})
	assert.Error(t, err)
}

func TestPackWrongTypeErrors(t *testing.T) {
	c := New(Field{U16, "x"})
	_, err := c.Pack(Record{"x": int16(5)})
	assert.Error(t, err)
}
