package hashengine

import (
	"crypto/md5"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMD5FVectors(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"", "84d1ce3bd68f49ab26eb0f96416617cf"},
		{"a", "f10bddaecb62e5a92433757867ee06db"},
		{"abcd", "fa27c78b6ec31559f0e760ce3f2b03f6"},
		{"Why are you doing this, Youthcat Studio?", "13424e12890a3f50a1f8567c464fff8c"},
	}

	for _, c := range cases {
		got := HexOneShot(MD5F, []byte(c.input))
		assert.Equal(t, c.want, got, "input %q", c.input)
	}
}

func TestOriginalMatchesStandardLibraryMD5(t *testing.T) {
	for n := 0; n < 200; n++ {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte((i*31 + n) % 256)
		}
		want := md5.Sum(data)
		got := SumOneShot(Original, data)
		require.Equal(t, want[:], got, "length %d", n)
	}
}

func TestWriteInChunksMatchesOneShot(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, several times over")
	whole := HexOneShot(MD5F, data)

	h := New(MD5F)
	h.Write(data[:10])
	h.Write(data[10:37])
	h.Write(data[37:])
	assert.Equal(t, whole, h.SumHex())
}

func TestSumIsIdempotentAndFreezesWriter(t *testing.T) {
	h := New(Original)
	h.Update([]byte("frozen"))
	first := h.Sum(nil)
	second := h.Sum(nil)
	assert.Equal(t, first, second)

	assert.Panics(t, func() { h.Write([]byte("more")) })
}

func TestSumAppendsToProvidedSlice(t *testing.T) {
	h := New(Original)
	h.Update([]byte("prefixed"))
	prefix := []byte{0xAA, 0xBB}
	got := h.Sum(prefix)
	require.Len(t, got, 2+16)
	assert.Equal(t, []byte{0xAA, 0xBB}, got[:2])
	assert.Equal(t, h.Sum(nil), got[2:])
}

func TestResetPanics(t *testing.T) {
	h := New(Original)
	assert.Panics(t, func() { h.Reset() })
}

func TestMD5FCDiffersFromMD5F(t *testing.T) {
	data := []byte("abcd")
	assert.NotEqual(t, HexOneShot(MD5F, data), HexOneShot(MD5FC, data))
}
