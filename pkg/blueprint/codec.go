package blueprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// gzipLevel is the compression level used on emit. See SPEC_FULL.md §4.4
// (open question 2): byte-exact round-tripping of the *compressed*
// stream isn't guaranteed across gzip implementations, only that the
// fingerprint validates over whatever body is emitted and that
// decode(encode(x)) reproduces the same payload bytes.
const gzipLevel = gzip.DefaultCompression

// decodePayloadBody reverses encodePayloadBody: standard base64 (with
// padding), then gzip inflate.
func decodePayloadBody(b64 string) ([]byte, error) {
	compressed, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrPayloadDecode, err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", ErrPayloadDecode, err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %v", ErrPayloadDecode, err)
	}
	return raw, nil
}

// encodePayloadBody gzip-compresses raw payload bytes and base64-encodes
// the result, matching the envelope's wire format.
func encodePayloadBody(raw []byte) (string, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzipLevel)
	if err != nil {
		return "", err
	}
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
