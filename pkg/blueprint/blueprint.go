// Package blueprint implements the Dyson Sphere Program blueprint string
// envelope: the "BLUEPRINT:...".."HEX" ASCII framing around a
// gzip+base64-compressed binary payload, guarded by an MD5F fingerprint.
package blueprint

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/dspbptk/dspbptk-go/pkg/dsptime"
	"github.com/dspbptk/dspbptk-go/pkg/hashengine"
	"github.com/dspbptk/dspbptk-go/pkg/payload"
)

const wirePrefix = "BLUEPRINT:"

// Blueprint is a fully parsed blueprint: envelope metadata plus the
// decoded binary payload.
type Blueprint struct {
	Layout      int64
	Icons       [5]int64
	GameVersion string
	ShortDesc   string
	LongDesc    string
	Payload     *payload.Payload

	reserved0 int64
	reserved1 int64 // preserved verbatim per SPEC_FULL.md §4.4 open question 4
	rawTicks  int64 // the originally-parsed tick count, or the last value SetTimestamp computed
	logger    hclog.Logger
}

// New constructs a Blueprint programmatically, matching the original
// toolkit's Blueprint constructor defaults.
func New(gameVersion string, p *payload.Payload) *Blueprint {
	bp := &Blueprint{
		Layout:      10,
		GameVersion: gameVersion,
		ShortDesc:   "Short description",
		LongDesc:    "Long description",
		Payload:     p,
		logger:      hclog.NewNullLogger(),
	}
	bp.rawTicks = dsptime.Now()
	return bp
}

// SetLogger attaches a logger for diagnostic Debug/Trace output during
// parse/emit/replace operations. The zero value uses a null logger.
func (bp *Blueprint) SetLogger(logger hclog.Logger) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	bp.logger = logger
}

func (bp *Blueprint) log() hclog.Logger {
	if bp.logger == nil {
		return hclog.NewNullLogger()
	}
	return bp.logger
}

// Timestamp returns the blueprint's timestamp as a UTC time.Time,
// decoded from the preserved C# ticks.
func (bp *Blueprint) Timestamp() time.Time {
	return dsptime.ToTime(bp.rawTicks)
}

// SetTimestamp sets the blueprint's timestamp. Sub-second precision is
// dropped on re-serialization (SPEC_FULL.md §4.4 open question 3): the
// original verbatim ticks are kept only until this is called.
func (bp *Blueprint) SetTimestamp(t time.Time) {
	bp.rawTicks = dsptime.ToTicks(t)
}

// Reserved1 exposes the second reserved comma field so callers can
// inspect a non-zero value rather than have it silently discarded.
func (bp *Blueprint) Reserved1() int64 { return bp.reserved1 }

// Parse decodes a full blueprint string. If validateHash is true, the
// trailing fingerprint is verified against MD5F(body) before anything
// else is parsed; a mismatch is ErrInvalidHashValue. Diagnostics go to a
// null logger; use ParseWithLogger to observe them.
func Parse(bpString string, validateHash bool) (*Blueprint, error) {
	return ParseWithLogger(bpString, validateHash, hclog.NewNullLogger())
}

// ParseWithLogger is Parse with a caller-supplied logger. Each parse
// step logs at Trace on success; the field, hash, and quote-split
// failure paths log at Debug with enough context (lengths, the field
// index) to diagnose a malformed blueprint string without printing the
// string itself, which can run to megabytes of base64.
func ParseWithLogger(bpString string, validateHash bool, logger hclog.Logger) (*Blueprint, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger.Trace("parsing blueprint string", "length", len(bpString), "validate_hash", validateHash)

	body := bpString
	if validateHash {
		idx := strings.LastIndex(bpString, "\"")
		if idx < 0 {
			logger.Debug("parse failed: no trailing fingerprint")
			return nil, fmt.Errorf("%w: no trailing fingerprint", ErrMalformedEnvelope)
		}
		body = bpString[:idx]
		refHash := strings.ToLower(strings.TrimSpace(bpString[idx+1:]))
		gotHash := hashengine.HexOneShot(hashengine.MD5F, []byte(body))
		if refHash != gotHash {
			logger.Debug("parse failed: fingerprint mismatch", "want", gotHash, "got", refHash)
			return nil, ErrInvalidHashValue
		}
		logger.Trace("fingerprint verified", "hash", gotHash)
	} else {
		if idx := strings.LastIndex(bpString, "\""); idx >= 0 {
			body = bpString[:idx]
		}
	}

	if !strings.HasPrefix(body, wirePrefix) {
		logger.Debug("parse failed: missing wire prefix")
		return nil, fmt.Errorf("%w: missing %q prefix", ErrMalformedEnvelope, wirePrefix)
	}
	rest := body[len(wirePrefix):]

	components := strings.Split(rest, ",")
	if len(components) != 12 {
		logger.Debug("parse failed: wrong comma field count", "got", len(components))
		return nil, fmt.Errorf("%w: expected 12 comma fields, got %d", ErrMalformedEnvelope, len(components))
	}
	logger.Trace("split envelope fields", "fields", len(components))

	ints := make([]int64, 9)
	intFields := components[:9]
	for i, s := range intFields {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			logger.Debug("parse failed: non-integer comma field", "field", i, "error", err)
			return nil, fmt.Errorf("%w: field %d not an integer: %v", ErrMalformedEnvelope, i, err)
		}
		ints[i] = v
	}
	reserved0, layout := ints[0], ints[1]
	icons := [5]int64{ints[2], ints[3], ints[4], ints[5], ints[6]}
	reserved1, ticks := ints[7], ints[8]

	if reserved0 != 0 {
		logger.Debug("parse failed: reserved field 0 non-zero", "value", reserved0)
		return nil, fmt.Errorf("%w: reserved field 0 is %d, want 0", ErrMalformedEnvelope, reserved0)
	}
	if reserved1 != 0 {
		logger.Debug("parse failed: reserved field 1 non-zero", "value", reserved1)
		return nil, fmt.Errorf("%w: reserved field 1 is %d, want 0", ErrMalformedEnvelope, reserved1)
	}
	logger.Trace("parsed integer fields", "layout", layout, "ticks", ticks)

	gameVersion := components[9]

	shortDescEnc := components[10]
	shortDesc, err := percentDecode(shortDescEnc)
	if err != nil {
		logger.Debug("parse failed: short_desc percent-decode", "error", err)
		return nil, err
	}

	// The twelfth component, before the trailing fingerprint was sliced
	// off above, has the shape `<longDescEncoded>"<b64Payload>"<refHash>`
	// — three quote-delimited pieces in total. Having already consumed
	// ref_hash, what's left of this component is
	// `<longDescEncoded>"<b64Payload>`: exactly one quote.
	tail := components[11]
	tailParts := strings.Split(tail, "\"")
	if len(tailParts) != 2 {
		logger.Debug("parse failed: trailing field quote split", "parts", len(tailParts))
		return nil, fmt.Errorf("%w: expected long_desc\"b64_payload in trailing field, got %d quote-delimited parts", ErrMalformedEnvelope, len(tailParts))
	}
	longDescEnc, b64Payload := tailParts[0], tailParts[1]
	longDesc, err := percentDecode(longDescEnc)
	if err != nil {
		logger.Debug("parse failed: long_desc percent-decode", "error", err)
		return nil, err
	}
	logger.Trace("decoded descriptions", "short_desc_len", len(shortDesc), "long_desc_len", len(longDesc))

	rawPayload, err := decodePayloadBody(b64Payload)
	if err != nil {
		logger.Debug("parse failed: payload body decode", "error", err)
		return nil, err
	}
	logger.Trace("decompressed payload", "bytes", len(rawPayload))
	pl, err := payload.Decode(rawPayload)
	if err != nil {
		logger.Debug("parse failed: payload decode", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPayloadDecode, err)
	}

	bp := &Blueprint{
		Layout:      layout,
		Icons:       icons,
		GameVersion: gameVersion,
		ShortDesc:   shortDesc,
		LongDesc:    longDesc,
		Payload:     pl,
		reserved0:   reserved0,
		reserved1:   reserved1,
		rawTicks:    ticks,
		logger:      logger,
	}
	bp.log().Debug("parsed blueprint", "buildings", len(pl.Buildings), "areas", len(pl.Areas))
	return bp, nil
}

// Serialize emits the blueprint string, recomputing the payload bytes
// and the MD5F fingerprint. Per I4, an unmutated blueprint serializes
// back to its original bytes (modulo the gzip open question noted in
// SPEC_FULL.md §4.4).
func (bp *Blueprint) Serialize() (string, error) {
	rawPayload, err := bp.Payload.Encode()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPayloadDecode, err)
	}
	b64Payload, err := encodePayloadBody(rawPayload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPayloadDecode, err)
	}

	components := []string{
		"0",
		strconv.FormatInt(bp.Layout, 10),
		strconv.FormatInt(bp.Icons[0], 10),
		strconv.FormatInt(bp.Icons[1], 10),
		strconv.FormatInt(bp.Icons[2], 10),
		strconv.FormatInt(bp.Icons[3], 10),
		strconv.FormatInt(bp.Icons[4], 10),
		strconv.FormatInt(bp.reserved1, 10),
		strconv.FormatInt(bp.rawTicks, 10),
		bp.GameVersion,
		percentEncode(bp.ShortDesc),
	}
	// Wire shape of the trailing field: long_desc"b64_payload"ref_hash —
	// no quote before long_desc, one between long_desc and the payload,
	// one before the fingerprint (appended after hashedBody below).
	header := wirePrefix + strings.Join(components, ",")
	hashedBody := header + "," + percentEncode(bp.LongDesc) + "\"" + b64Payload
	hashHex := hashengine.HexOneShot(hashengine.MD5F, []byte(hashedBody))
	bp.log().Debug("serialized blueprint", "buildings", len(bp.Payload.Buildings))
	return hashedBody + "\"" + strings.ToUpper(hashHex), nil
}

// ReadFromFile reads and parses a blueprint string from disk.
func ReadFromFile(path string, validateHash bool) (*Blueprint, error) {
	return ReadFromFileWithLogger(path, validateHash, hclog.NewNullLogger())
}

// ReadFromFileWithLogger is ReadFromFile with a caller-supplied logger,
// threaded through to ParseWithLogger.
func ReadFromFileWithLogger(path string, validateHash bool, logger hclog.Logger) (*Blueprint, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("read failed", "path", path, "error", err)
		return nil, err
	}
	logger.Trace("read blueprint file", "path", path, "bytes", len(data))
	return ParseWithLogger(string(data), validateHash, logger)
}

// WriteToFile serializes the blueprint and writes it to disk.
func (bp *Blueprint) WriteToFile(path string) error {
	s, err := bp.Serialize()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0o644)
}

// ReplaceItem replaces every building's item id equal to searchID with
// replacementID, leaving parameters and every other field untouched,
// and returns the number of buildings changed.
func (bp *Blueprint) ReplaceItem(searchID, replacementID uint16) int {
	n := bp.Payload.ReplaceItem(searchID, replacementID)
	bp.log().Debug("replaced item", "search", searchID, "replacement", replacementID, "count", n)
	return n
}

// ItemNamer resolves item ids to display names. The core does not ship
// an implementation: the item catalog is an external collaborator (see
// SPEC_FULL.md §1/§3). Pass nil to always fall back to "[<id>]".
type ItemNamer interface {
	Name(itemID uint16) (string, bool)
}

// FormatItemName renders an item id via namer, or "[<id>]" if namer is
// nil or has no entry for the id (the UnknownItem recovery behavior from
// spec.md §7).
func FormatItemName(namer ItemNamer, itemID uint16) string {
	if namer != nil {
		if name, ok := namer.Name(itemID); ok {
			return name
		}
	}
	return fmt.Sprintf("[%d]", itemID)
}

// ToDict renders the blueprint as a plain map/slice tree (ints, strings,
// floats, nested maps/slices) ready for an external collaborator to
// json.Marshal directly, per spec.md §6.3.
func (bp *Blueprint) ToDict() map[string]any {
	areas := make([]any, len(bp.Payload.Areas))
	for i, a := range bp.Payload.Areas {
		areas[i] = map[string]any{
			"index":                  a.Index,
			"parent_index":           a.ParentIndex,
			"tropic_anchor":          a.TropicAnchor,
			"area_segments":          a.AreaSegments,
			"anchor_local_offset_x":  a.AnchorLocalOffsetX,
			"anchor_local_offset_y":  a.AnchorLocalOffsetY,
			"width":                  a.Width,
			"height":                 a.Height,
		}
	}

	buildings := make([]any, len(bp.Payload.Buildings))
	for i := range bp.Payload.Buildings {
		buildings[i] = buildingToDict(&bp.Payload.Buildings[i])
	}

	return map[string]any{
		"icon": map[string]any{
			"layout": bp.Layout,
			"images": []any{bp.Icons[0], bp.Icons[1], bp.Icons[2], bp.Icons[3], bp.Icons[4]},
		},
		"timestamp":    bp.Timestamp().Format("2006-01-02 15:04:05"),
		"game_version": bp.GameVersion,
		"short_desc":   bp.ShortDesc,
		"long_desc":    bp.LongDesc,
		"data": map[string]any{
			"version":             bp.Payload.Header.Version,
			"cursor_offset_x":     bp.Payload.Header.CursorOffsetX,
			"cursor_offset_y":     bp.Payload.Header.CursorOffsetY,
			"cursor_target_area":  bp.Payload.Header.CursorTargetArea,
			"dragbox_size_x":      bp.Payload.Header.DragboxSizeX,
			"dragbox_size_y":      bp.Payload.Header.DragboxSizeY,
			"primary_area_index":  bp.Payload.Header.PrimaryAreaIndex,
			"area_count":          bp.Payload.Header.AreaCount,
			"areas":               areas,
			"buildings":           buildings,
		},
	}
}
