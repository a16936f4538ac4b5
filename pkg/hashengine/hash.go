// Package hashengine implements the Dyson Sphere Program's MD5 variants.
//
// The game's blueprint fingerprint is not RFC 1321 MD5: it uses a
// deliberately corrupted initialization vector and patches a handful of
// the 64 round constants. This package implements the standard algorithm
// once and applies the variant's IV and per-round patches as a sparse
// overlay on the canonical round table, so the non-standard constants
// stay auditable in one place instead of three copy-pasted digest
// implementations.
package hashengine

import (
	"encoding/binary"
	"encoding/hex"
)

// Variant selects the initialization vector and round-constant patch set.
type Variant int

const (
	// Original is standard RFC 1321 MD5.
	Original Variant = iota
	// MD5F is the variant used for the blueprint string fingerprint.
	MD5F
	// MD5FC is a further-patched variant, provided for completeness.
	MD5FC
)

type nonlinear func(x, y, z uint32) uint32

func f(x, y, z uint32) uint32 { return (x & y) | (^x & z) }
func g(x, y, z uint32) uint32 { return (x & z) | (y & ^z) }
func h(x, y, z uint32) uint32 { return x ^ y ^ z }
func i(x, y, z uint32) uint32 { return y ^ (x | ^z) }

func rol(x uint32, s uint) uint32 { return (x << s) | (x >> (32 - s)) }

// roundOp is one of MD5's 64 per-block rounds: which of the four state
// words play the roles of a/b/c/d for this round, which message word k
// it consumes, the rotation amount s, the additive constant T, and the
// nonlinear function.
type roundOp struct {
	a, b, c, d int
	k          int
	s          uint
	t          uint32
	fn         nonlinear
}

// standardRounds is the canonical RFC 1321 round table.
var standardRounds = [64]roundOp{
	{0, 1, 2, 3, 0, 7, 0xd76aa478, f}, {3, 0, 1, 2, 1, 12, 0xe8c7b756, f},
	{2, 3, 0, 1, 2, 17, 0x242070db, f}, {1, 2, 3, 0, 3, 22, 0xc1bdceee, f},
	{0, 1, 2, 3, 4, 7, 0xf57c0faf, f}, {3, 0, 1, 2, 5, 12, 0x4787c62a, f},
	{2, 3, 0, 1, 6, 17, 0xa8304613, f}, {1, 2, 3, 0, 7, 22, 0xfd469501, f},
	{0, 1, 2, 3, 8, 7, 0x698098d8, f}, {3, 0, 1, 2, 9, 12, 0x8b44f7af, f},
	{2, 3, 0, 1, 10, 17, 0xffff5bb1, f}, {1, 2, 3, 0, 11, 22, 0x895cd7be, f},
	{0, 1, 2, 3, 12, 7, 0x6b901122, f}, {3, 0, 1, 2, 13, 12, 0xfd987193, f},
	{2, 3, 0, 1, 14, 17, 0xa679438e, f}, {1, 2, 3, 0, 15, 22, 0x49b40821, f},

	{0, 1, 2, 3, 1, 5, 0xf61e2562, g}, {3, 0, 1, 2, 6, 9, 0xc040b340, g},
	{2, 3, 0, 1, 11, 14, 0x265e5a51, g}, {1, 2, 3, 0, 0, 20, 0xe9b6c7aa, g},
	{0, 1, 2, 3, 5, 5, 0xd62f105d, g}, {3, 0, 1, 2, 10, 9, 0x02441453, g},
	{2, 3, 0, 1, 15, 14, 0xd8a1e681, g}, {1, 2, 3, 0, 4, 20, 0xe7d3fbc8, g},
	{0, 1, 2, 3, 9, 5, 0x21e1cde6, g}, {3, 0, 1, 2, 14, 9, 0xc33707d6, g},
	{2, 3, 0, 1, 3, 14, 0xf4d50d87, g}, {1, 2, 3, 0, 8, 20, 0x455a14ed, g},
	{0, 1, 2, 3, 13, 5, 0xa9e3e905, g}, {3, 0, 1, 2, 2, 9, 0xfcefa3f8, g},
	{2, 3, 0, 1, 7, 14, 0x676f02d9, g}, {1, 2, 3, 0, 12, 20, 0x8d2a4c8a, g},

	{0, 1, 2, 3, 5, 4, 0xfffa3942, h}, {3, 0, 1, 2, 8, 11, 0x8771f681, h},
	{2, 3, 0, 1, 11, 16, 0x6d9d6122, h}, {1, 2, 3, 0, 14, 23, 0xfde5380c, h},
	{0, 1, 2, 3, 1, 4, 0xa4beea44, h}, {3, 0, 1, 2, 4, 11, 0x4bdecfa9, h},
	{2, 3, 0, 1, 7, 16, 0xf6bb4b60, h}, {1, 2, 3, 0, 10, 23, 0xbebfbc70, h},
	{0, 1, 2, 3, 13, 4, 0x289b7ec6, h}, {3, 0, 1, 2, 0, 11, 0xeaa127fa, h},
	{2, 3, 0, 1, 3, 16, 0xd4ef3085, h}, {1, 2, 3, 0, 6, 23, 0x04881d05, h},
	{0, 1, 2, 3, 9, 4, 0xd9d4d039, h}, {3, 0, 1, 2, 12, 11, 0xe6db99e5, h},
	{2, 3, 0, 1, 15, 16, 0x1fa27cf8, h}, {1, 2, 3, 0, 2, 23, 0xc4ac5665, h},

	{0, 1, 2, 3, 0, 6, 0xf4292244, i}, {3, 0, 1, 2, 7, 10, 0x432aff97, i},
	{2, 3, 0, 1, 14, 15, 0xab9423a7, i}, {1, 2, 3, 0, 5, 21, 0xfc93a039, i},
	{0, 1, 2, 3, 12, 6, 0x655b59c3, i}, {3, 0, 1, 2, 3, 10, 0x8f0ccc92, i},
	{2, 3, 0, 1, 10, 15, 0xffeff47d, i}, {1, 2, 3, 0, 1, 21, 0x85845dd1, i},
	{0, 1, 2, 3, 8, 6, 0x6fa87e4f, i}, {3, 0, 1, 2, 15, 10, 0xfe2ce6e0, i},
	{2, 3, 0, 1, 6, 15, 0xa3014314, i}, {1, 2, 3, 0, 13, 21, 0x4e0811a1, i},
	{0, 1, 2, 3, 4, 6, 0xf7537e82, i}, {3, 0, 1, 2, 11, 10, 0xbd3af235, i},
	{2, 3, 0, 1, 2, 15, 0x2ad7d2bb, i}, {1, 2, 3, 0, 9, 21, 0xeb86d391, i},
}

// roundPatches holds, per variant, the sparse round-index -> replacement
// overlay. Every patched round keeps the original quartet/function; only
// T (and, incidentally, the same k/s the original round already had)
// is restated here for clarity.
var roundPatches = map[Variant]map[int]roundOp{
	MD5F: {
		1:  {3, 0, 1, 2, 1, 12, 0xe8d7b756, f},
		6:  {2, 3, 0, 1, 6, 17, 0xa8304623, f},
		12: {0, 1, 2, 3, 12, 7, 0x6b9f1122, f},
		15: {1, 2, 3, 0, 15, 22, 0x39b40821, f},
		19: {1, 2, 3, 0, 0, 20, 0xc9b6c7aa, g},
		21: {3, 0, 1, 2, 10, 9, 0x02443453, g},
		24: {0, 1, 2, 3, 9, 5, 0x21f1cde6, g},
		27: {1, 2, 3, 0, 8, 20, 0x475a14ed, g},
	},
	MD5FC: {
		1:  {3, 0, 1, 2, 1, 12, 0xe8d7b756, f},
		3:  {1, 2, 3, 0, 3, 22, 0xc1bdceef, f},
		6:  {2, 3, 0, 1, 6, 17, 0xa8304623, f},
		12: {0, 1, 2, 3, 12, 7, 0x6b9f1122, f},
		15: {1, 2, 3, 0, 15, 22, 0x39b40821, f},
		19: {1, 2, 3, 0, 0, 20, 0xc9b6c7aa, g},
		21: {3, 0, 1, 2, 10, 9, 0x02443453, g},
		24: {0, 1, 2, 3, 9, 5, 0x23f1cde6, g},
		27: {1, 2, 3, 0, 8, 20, 0x475a14ed, g},
		34: {2, 3, 0, 1, 11, 16, 0x6d9d6121, h},
	},
}

// ivs holds, per variant, the initial (a, b, c, d) state. MD5F/MD5FC use
// the game's deliberately corrupted IV: two byte swaps versus the
// standard IV, visible when each word is written little-endian
// (0x89abcdef -> 0x89abdcef, 0x10325476 -> 0x10325746).
var ivs = map[Variant][4]uint32{
	Original: {0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476},
	MD5F:     {0x67452301, 0xefdcab89, 0x98badcfe, 0x10325746},
	MD5FC:    {0x67452301, 0xefdcab89, 0x98badcfe, 0x10325746},
}

// Hasher computes a DysonSphereMD5 digest. The zero value is not usable;
// construct with New. A Hasher is mutable and not safe for concurrent
// use — unlike this module's shared hclog.Logger instances, each
// goroutine needs its own Hasher.
type Hasher struct {
	state   [4]uint32
	buf     []byte
	length  uint64
	patches map[int]roundOp
	sum     []byte // set once Sum is first called; freezes the instance
}

// New creates a Hasher for the given variant.
func New(variant Variant) *Hasher {
	return &Hasher{
		state:   ivs[variant],
		patches: roundPatches[variant],
	}
}

// Write implements io.Writer, feeding data into the running digest. It
// panics if called after Sum, matching the standard library's hash.Hash
// contract of "write before you read".
func (h *Hasher) Write(p []byte) (int, error) {
	if h.sum != nil {
		panic("hashengine: Write after Sum")
	}
	h.length += uint64(len(p))
	h.buf = append(h.buf, p...)
	for len(h.buf) >= 64 {
		h.block(h.buf[:64])
		h.buf = h.buf[64:]
	}
	return len(p), nil
}

// Update is an alias for Write that never errors, for callers that don't
// want to thread the io.Writer error return through.
func (h *Hasher) Update(p []byte) *Hasher {
	_, _ = h.Write(p)
	return h
}

func (h *Hasher) block(block []byte) {
	var x [16]uint32
	for j := 0; j < 16; j++ {
		x[j] = binary.LittleEndian.Uint32(block[4*j : 4*j+4])
	}

	state := h.state
	for idx := 0; idx < 64; idx++ {
		op := standardRounds[idx]
		if p, ok := h.patches[idx]; ok {
			op = p
		}
		a, b, c, d := state[op.a], state[op.b], state[op.c], state[op.d]
		state[op.a] = b + rol(a+op.fn(b, c, d)+x[op.k]+op.t, op.s)
	}

	h.state[0] += state[0]
	h.state[1] += state[1]
	h.state[2] += state[2]
	h.state[3] += state[3]
}

// Sum finalizes the digest (idempotent) and appends the 16-byte result
// to b, returning the resulting slice, matching hash.Hash's Sum(b
// []byte) []byte contract exactly. After Sum, the Hasher is frozen:
// further Write calls panic.
func (h *Hasher) Sum(b []byte) []byte {
	if h.sum == nil {
		h.finalize()
	}
	return append(b, h.sum...)
}

func (h *Hasher) finalize() {
	length := h.length
	padLen := (64 - (len(h.buf) % 64) - 8 + 64) % 64
	if padLen == 0 {
		padLen = 64
	}
	h.buf = append(h.buf, 0x80)
	h.buf = append(h.buf, make([]byte, padLen-1)...)

	var lenBits [8]byte
	binary.LittleEndian.PutUint64(lenBits[:], length*8)
	h.buf = append(h.buf, lenBits[:]...)

	for len(h.buf) >= 64 {
		h.block(h.buf[:64])
		h.buf = h.buf[64:]
	}

	out := make([]byte, 16)
	binary.LittleEndian.PutUint32(out[0:4], h.state[0])
	binary.LittleEndian.PutUint32(out[4:8], h.state[1])
	binary.LittleEndian.PutUint32(out[8:12], h.state[2])
	binary.LittleEndian.PutUint32(out[12:16], h.state[3])
	h.sum = out
}

// SumHex returns the digest as 32 lowercase hex characters.
func (h *Hasher) SumHex() string {
	return hex.EncodeToString(h.Sum(nil))
}

// Size returns the digest size in bytes, satisfying hash.Hash.
func (h *Hasher) Size() int { return 16 }

// BlockSize returns the block size in bytes, satisfying hash.Hash.
func (h *Hasher) BlockSize() int { return 64 }

// Reset is unsupported: the original toolkit never resets a running
// digest, and a frozen Hasher cannot un-freeze. Reset always panics.
func (h *Hasher) Reset() {
	panic("hashengine: Hasher does not support Reset")
}

// SumOneShot is a convenience one-shot helper mirroring the standard
// library's package-level hash functions (e.g. md5.Sum).
func SumOneShot(variant Variant, data []byte) []byte {
	return New(variant).Update(data).Sum(nil)
}

// HexOneShot is the hex-encoded form of SumOneShot.
func HexOneShot(variant Variant, data []byte) string {
	return New(variant).Update(data).SumHex()
}
