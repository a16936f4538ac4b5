package blueprint

import "errors"

// The error kinds surfaced at the parse/emit boundary. An unknown item id
// is not an error here: FormatItemName renders it as "[<id>]".
var (
	// ErrInvalidHashValue means the envelope's trailing fingerprint does
	// not match the recomputed MD5F hash of the body.
	ErrInvalidHashValue = errors.New("blueprint: invalid hash value")

	// ErrMalformedEnvelope covers a missing "BLUEPRINT:" prefix, a
	// wrong comma or quote count, bad percent encoding, a non-integer
	// where an integer is required, or a reserved field that isn't 0.
	ErrMalformedEnvelope = errors.New("blueprint: malformed envelope")

	// ErrPayloadDecode covers gzip/base64 failures and the payload
	// codec's own ErrShortRead/ErrInconsistentCount.
	ErrPayloadDecode = errors.New("blueprint: payload decode error")
)
