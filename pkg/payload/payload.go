// Package payload decodes and encodes the binary blueprint payload: the
// bytes left over after the envelope's base64+gzip layer has been
// stripped away. Decode order is strict: fixed header, area_count area
// records, a 4-byte building header, then building_count buildings (each
// a fixed prefix plus a parameter_count-long tail of little-endian
// uint32 cells).
package payload

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dspbptk/dspbptk-go/pkg/structcodec"
)

// ErrShortRead means a record would extend past the payload end.
var ErrShortRead = errors.New("payload: short read")

// ErrInconsistentCount means a declared count disagrees with the
// reachable record structure.
var ErrInconsistentCount = errors.New("payload: inconsistent count")

var headerCodec = structcodec.New(
	structcodec.Field{Kind: structcodec.U32, Name: "version"},
	structcodec.Field{Kind: structcodec.U32, Name: "cursor_offset_x"},
	structcodec.Field{Kind: structcodec.U32, Name: "cursor_offset_y"},
	structcodec.Field{Kind: structcodec.U32, Name: "cursor_target_area"},
	structcodec.Field{Kind: structcodec.U32, Name: "dragbox_size_x"},
	structcodec.Field{Kind: structcodec.U32, Name: "dragbox_size_y"},
	structcodec.Field{Kind: structcodec.U32, Name: "primary_area_index"},
	structcodec.Field{Kind: structcodec.U8, Name: "area_count"},
)

var areaCodec = structcodec.New(
	structcodec.Field{Kind: structcodec.I8, Name: "index"},
	structcodec.Field{Kind: structcodec.I8, Name: "parent_index"},
	structcodec.Field{Kind: structcodec.U16, Name: "tropic_anchor"},
	structcodec.Field{Kind: structcodec.U16, Name: "area_segments"},
	structcodec.Field{Kind: structcodec.U16, Name: "anchor_local_offset_x"},
	structcodec.Field{Kind: structcodec.U16, Name: "anchor_local_offset_y"},
	structcodec.Field{Kind: structcodec.U16, Name: "width"},
	structcodec.Field{Kind: structcodec.U16, Name: "height"},
)

var buildingHeaderCodec = structcodec.New(
	structcodec.Field{Kind: structcodec.U32, Name: "building_count"},
)

// buildingCodec is the 61-byte fixed prefix of a building record (see
// SPEC_FULL.md §3 for why this is 61 bytes, not the 55 the distilled
// spec states).
var buildingCodec = structcodec.New(
	structcodec.Field{Kind: structcodec.U32, Name: "index"},
	structcodec.Field{Kind: structcodec.I8, Name: "area_index"},
	structcodec.Field{Kind: structcodec.F32, Name: "local_offset_x"},
	structcodec.Field{Kind: structcodec.F32, Name: "local_offset_y"},
	structcodec.Field{Kind: structcodec.F32, Name: "local_offset_z"},
	structcodec.Field{Kind: structcodec.F32, Name: "local_offset_x2"},
	structcodec.Field{Kind: structcodec.F32, Name: "local_offset_y2"},
	structcodec.Field{Kind: structcodec.F32, Name: "local_offset_z2"},
	structcodec.Field{Kind: structcodec.F32, Name: "yaw"},
	structcodec.Field{Kind: structcodec.F32, Name: "yaw2"},
	structcodec.Field{Kind: structcodec.U16, Name: "item_id"},
	structcodec.Field{Kind: structcodec.U16, Name: "model_index"},
	structcodec.Field{Kind: structcodec.U32, Name: "output_object_index"},
	structcodec.Field{Kind: structcodec.U32, Name: "input_object_index"},
	structcodec.Field{Kind: structcodec.I8, Name: "output_to_slot"},
	structcodec.Field{Kind: structcodec.I8, Name: "input_from_slot"},
	structcodec.Field{Kind: structcodec.I8, Name: "output_from_slot"},
	structcodec.Field{Kind: structcodec.I8, Name: "input_to_slot"},
	structcodec.Field{Kind: structcodec.I8, Name: "output_offset"},
	structcodec.Field{Kind: structcodec.I8, Name: "input_offset"},
	structcodec.Field{Kind: structcodec.U16, Name: "recipe_id"},
	structcodec.Field{Kind: structcodec.U16, Name: "filter_id"},
	structcodec.Field{Kind: structcodec.U16, Name: "parameter_count"},
)

// Header is the payload's fixed preamble.
type Header struct {
	Version           uint32
	CursorOffsetX     uint32
	CursorOffsetY     uint32
	CursorTargetArea  uint32
	DragboxSizeX      uint32
	DragboxSizeY      uint32
	PrimaryAreaIndex  uint32
	AreaCount         uint8
}

// Area is an opaque placement region; the codec treats its fields as
// game-defined and does not interpret them further.
type Area struct {
	Index              int8
	ParentIndex        int8
	TropicAnchor       uint16
	AreaSegments       uint16
	AnchorLocalOffsetX uint16
	AnchorLocalOffsetY uint16
	Width              uint16
	Height             uint16
}

// Building is one placed construction object. Parameters is the raw
// little-endian uint32 parameter tail; use ParseStationView to interpret
// it for logistics stations.
type Building struct {
	Index             uint32
	AreaIndex         int8
	LocalOffsetX      float32
	LocalOffsetY      float32
	LocalOffsetZ      float32
	LocalOffsetX2     float32
	LocalOffsetY2     float32
	LocalOffsetZ2     float32
	Yaw               float32
	Yaw2              float32
	ItemID            uint16
	ModelIndex        uint16
	OutputObjectIndex uint32
	InputObjectIndex  uint32
	OutputToSlot      int8
	InputFromSlot     int8
	OutputFromSlot    int8
	InputToSlot       int8
	OutputOffset      int8
	InputOffset       int8
	RecipeID          uint16
	FilterID          uint16
	Parameters        []uint32
}

// Payload is a fully decoded blueprint payload.
type Payload struct {
	Header    Header
	Areas     []Area
	Buildings []Building
}

// Decode parses a raw payload byte stream. Invariants I1-I3 from
// SPEC_FULL.md are enforced: the declared area_count and building_count
// are used strictly to drive the read loop, and any attempt to read past
// the end of data surfaces as ErrShortRead.
func Decode(data []byte) (*Payload, error) {
	hrec, err := headerCodec.Unpack(data, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrShortRead, err)
	}
	header := Header{
		Version:          hrec["version"].(uint32),
		CursorOffsetX:    hrec["cursor_offset_x"].(uint32),
		CursorOffsetY:    hrec["cursor_offset_y"].(uint32),
		CursorTargetArea: hrec["cursor_target_area"].(uint32),
		DragboxSizeX:     hrec["dragbox_size_x"].(uint32),
		DragboxSizeY:     hrec["dragbox_size_y"].(uint32),
		PrimaryAreaIndex: hrec["primary_area_index"].(uint32),
		AreaCount:        hrec["area_count"].(uint8),
	}

	offset := headerCodec.Size()
	areas := make([]Area, 0, header.AreaCount)
	for idx := 0; idx < int(header.AreaCount); idx++ {
		arec, err := areaCodec.Unpack(data, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: area %d: %v", ErrShortRead, idx, err)
		}
		areas = append(areas, Area{
			Index:              arec["index"].(int8),
			ParentIndex:        arec["parent_index"].(int8),
			TropicAnchor:       arec["tropic_anchor"].(uint16),
			AreaSegments:       arec["area_segments"].(uint16),
			AnchorLocalOffsetX: arec["anchor_local_offset_x"].(uint16),
			AnchorLocalOffsetY: arec["anchor_local_offset_y"].(uint16),
			Width:              arec["width"].(uint16),
			Height:             arec["height"].(uint16),
		})
		offset += areaCodec.Size()
	}

	bhrec, err := buildingHeaderCodec.Unpack(data, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: building header: %v", ErrShortRead, err)
	}
	buildingCount := bhrec["building_count"].(uint32)
	offset += buildingHeaderCodec.Size()

	buildings := make([]Building, 0, buildingCount)
	for idx := 0; idx < int(buildingCount); idx++ {
		brec, err := buildingCodec.Unpack(data, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: building %d: %v", ErrShortRead, idx, err)
		}
		offset += buildingCodec.Size()

		paramCount := int(brec["parameter_count"].(uint16))
		needed := paramCount * 4
		if offset+needed > len(data) {
			return nil, fmt.Errorf("%w: building %d parameters: need %d bytes, have %d", ErrShortRead, idx, needed, len(data)-offset)
		}
		params := make([]uint32, paramCount)
		for p := 0; p < paramCount; p++ {
			params[p] = binary.LittleEndian.Uint32(data[offset+4*p : offset+4*p+4])
		}
		offset += needed

		buildings = append(buildings, Building{
			Index:             brec["index"].(uint32),
			AreaIndex:         brec["area_index"].(int8),
			LocalOffsetX:      brec["local_offset_x"].(float32),
			LocalOffsetY:      brec["local_offset_y"].(float32),
			LocalOffsetZ:      brec["local_offset_z"].(float32),
			LocalOffsetX2:     brec["local_offset_x2"].(float32),
			LocalOffsetY2:     brec["local_offset_y2"].(float32),
			LocalOffsetZ2:     brec["local_offset_z2"].(float32),
			Yaw:               brec["yaw"].(float32),
			Yaw2:              brec["yaw2"].(float32),
			ItemID:            brec["item_id"].(uint16),
			ModelIndex:        brec["model_index"].(uint16),
			OutputObjectIndex: brec["output_object_index"].(uint32),
			InputObjectIndex:  brec["input_object_index"].(uint32),
			OutputToSlot:      brec["output_to_slot"].(int8),
			InputFromSlot:     brec["input_from_slot"].(int8),
			OutputFromSlot:    brec["output_from_slot"].(int8),
			InputToSlot:       brec["input_to_slot"].(int8),
			OutputOffset:      brec["output_offset"].(int8),
			InputOffset:       brec["input_offset"].(int8),
			RecipeID:          brec["recipe_id"].(uint16),
			FilterID:          brec["filter_id"].(uint16),
			Parameters:        params,
		})
	}

	if offset != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after last building", ErrInconsistentCount, len(data)-offset)
	}

	return &Payload{Header: header, Areas: areas, Buildings: buildings}, nil
}

// Encode serializes a Payload back to bytes. The emitted building_count
// is recomputed from len(p.Buildings) — never the value the payload was
// originally parsed with — so a caller that appends or removes buildings
// need not also patch the header.
func (p *Payload) Encode() ([]byte, error) {
	hrec := structcodec.Record{
		"version":             p.Header.Version,
		"cursor_offset_x":     p.Header.CursorOffsetX,
		"cursor_offset_y":     p.Header.CursorOffsetY,
		"cursor_target_area":  p.Header.CursorTargetArea,
		"dragbox_size_x":      p.Header.DragboxSizeX,
		"dragbox_size_y":      p.Header.DragboxSizeY,
		"primary_area_index":  p.Header.PrimaryAreaIndex,
		"area_count":          uint8(len(p.Areas)),
	}
	head, err := headerCodec.Pack(hrec)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(head)+len(p.Areas)*areaCodec.Size()+buildingHeaderCodec.Size())
	out = append(out, head...)

	for idx, a := range p.Areas {
		arec := structcodec.Record{
			"index":                  a.Index,
			"parent_index":           a.ParentIndex,
			"tropic_anchor":          a.TropicAnchor,
			"area_segments":          a.AreaSegments,
			"anchor_local_offset_x":  a.AnchorLocalOffsetX,
			"anchor_local_offset_y":  a.AnchorLocalOffsetY,
			"width":                  a.Width,
			"height":                 a.Height,
		}
		buf, err := areaCodec.Pack(arec)
		if err != nil {
			return nil, fmt.Errorf("area %d: %w", idx, err)
		}
		out = append(out, buf...)
	}

	bhead, err := buildingHeaderCodec.Pack(structcodec.Record{"building_count": uint32(len(p.Buildings))})
	if err != nil {
		return nil, err
	}
	out = append(out, bhead...)

	for idx, b := range p.Buildings {
		brec := structcodec.Record{
			"index":               b.Index,
			"area_index":          b.AreaIndex,
			"local_offset_x":      b.LocalOffsetX,
			"local_offset_y":      b.LocalOffsetY,
			"local_offset_z":      b.LocalOffsetZ,
			"local_offset_x2":     b.LocalOffsetX2,
			"local_offset_y2":     b.LocalOffsetY2,
			"local_offset_z2":     b.LocalOffsetZ2,
			"yaw":                 b.Yaw,
			"yaw2":                b.Yaw2,
			"item_id":             b.ItemID,
			"model_index":         b.ModelIndex,
			"output_object_index": b.OutputObjectIndex,
			"input_object_index":  b.InputObjectIndex,
			"output_to_slot":      b.OutputToSlot,
			"input_from_slot":     b.InputFromSlot,
			"output_from_slot":    b.OutputFromSlot,
			"input_to_slot":       b.InputToSlot,
			"output_offset":       b.OutputOffset,
			"input_offset":        b.InputOffset,
			"recipe_id":           b.RecipeID,
			"filter_id":           b.FilterID,
			"parameter_count":     uint16(len(b.Parameters)),
		}
		buf, err := buildingCodec.Pack(brec)
		if err != nil {
			return nil, fmt.Errorf("building %d: %w", idx, err)
		}
		out = append(out, buf...)

		for _, param := range b.Parameters {
			var cell [4]byte
			binary.LittleEndian.PutUint32(cell[:], param)
			out = append(out, cell[:]...)
		}
	}

	return out, nil
}

// ReplaceItem sets ItemID to replacementID on every building whose
// ItemID equals searchID, leaving every other field (including
// Parameters) untouched, and returns how many buildings changed.
func (p *Payload) ReplaceItem(searchID, replacementID uint16) int {
	count := 0
	for idx := range p.Buildings {
		if p.Buildings[idx].ItemID == searchID {
			p.Buildings[idx].ItemID = replacementID
			count++
		}
	}
	return count
}
