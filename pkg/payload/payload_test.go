package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMinimalEmptyPayload(t *testing.T) {
	p := &Payload{
		Header: Header{
			Version:          1,
			CursorOffsetX:    10,
			CursorOffsetY:    20,
			CursorTargetArea: 0,
			DragboxSizeX:     5,
			DragboxSizeY:     5,
			PrimaryAreaIndex: 0,
			AreaCount:        0,
		},
	}
	buf, err := p.Encode()
	require.NoError(t, err)

	got, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, p.Header, got.Header)
	assert.Empty(t, got.Areas)
	assert.Empty(t, got.Buildings)
}

func buildingWithParams(itemID uint16, params []uint32) Building {
	return Building{
		Index:      1,
		AreaIndex:  0,
		ItemID:     itemID,
		ModelIndex: 42,
		RecipeID:   0,
		FilterID:   0,
		Parameters: params,
	}
}

func TestRoundTripWithAreasAndBuildings(t *testing.T) {
	p := &Payload{
		Header: Header{Version: 1, AreaCount: 2},
		Areas: []Area{
			{Index: 0, ParentIndex: -1, Width: 100, Height: 100},
			{Index: 1, ParentIndex: 0, Width: 50, Height: 50},
		},
		Buildings: []Building{
			buildingWithParams(2001, []uint32{1, 2, 3}),
			buildingWithParams(2103, makeStationParams()),
		},
	}

	buf, err := p.Encode()
	require.NoError(t, err)

	got, err := Decode(buf)
	require.NoError(t, err)
	require.Len(t, got.Areas, 2)
	require.Len(t, got.Buildings, 2)
	assert.Equal(t, p.Areas, got.Areas)
	assert.Equal(t, p.Buildings[0].Parameters, got.Buildings[0].Parameters)
	assert.Equal(t, p.Buildings[1].Parameters, got.Buildings[1].Parameters)
}

func TestDecodeShortReadOnTruncatedHeader(t *testing.T) {
	_, err := Decode([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestDecodeShortReadOnTruncatedParameters(t *testing.T) {
	p := &Payload{
		Header:    Header{Version: 1},
		Buildings: []Building{buildingWithParams(2001, []uint32{1, 2, 3})},
	}
	buf, err := p.Encode()
	require.NoError(t, err)

	_, err = Decode(buf[:len(buf)-4])
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestEncodeRecomputesBuildingCount(t *testing.T) {
	p := &Payload{Header: Header{Version: 1}}
	p.Buildings = append(p.Buildings, buildingWithParams(2001, nil))
	buf, err := p.Encode()
	require.NoError(t, err)

	got, err := Decode(buf)
	require.NoError(t, err)
	assert.Len(t, got.Buildings, 1)

	p.Buildings = append(p.Buildings, buildingWithParams(2002, nil))
	buf2, err := p.Encode()
	require.NoError(t, err)
	got2, err := Decode(buf2)
	require.NoError(t, err)
	assert.Len(t, got2.Buildings, 2)
}

func TestReplaceItemOnlyTouchesItemID(t *testing.T) {
	p := &Payload{
		Header: Header{Version: 1},
		Buildings: []Building{
			buildingWithParams(2001, []uint32{9, 9, 9}),
			buildingWithParams(2001, nil),
			buildingWithParams(2002, nil),
		},
	}

	changed := p.ReplaceItem(2001, 2002)
	assert.Equal(t, 2, changed)
	assert.Equal(t, uint16(2002), p.Buildings[0].ItemID)
	assert.Equal(t, uint16(2002), p.Buildings[1].ItemID)
	assert.Equal(t, uint16(2002), p.Buildings[2].ItemID)
	assert.Equal(t, []uint32{9, 9, 9}, p.Buildings[0].Parameters)
}

func makeStationParams() []uint32 {
	params := EnsureStationCapacity(nil)
	SetStorageEntry(params, 0, StorageEntry{ItemID: 1001, LocalLogic: 1, RemoteLogic: 2, MaxCount: 100})
	SetSlotEntry(params, 0, SlotEntry{Direction: DirectionOutput, StorageIndex: 1})
	SetStationParams(params, StationParams{WorkEnergy: 5, DroneCount: 2})
	return params
}

func TestStationViewPlanetaryHasThreeStorageTwelveSlots(t *testing.T) {
	b := buildingWithParams(ItemPlanetaryLogisticsStation, makeStationParams())
	view, ok := ParseStationView(&b)
	require.True(t, ok)
	assert.Len(t, view.Storage(), 3)
	assert.Len(t, view.Slots(), 12)
	require.NotNil(t, view.Storage()[0])
	assert.Equal(t, uint32(1001), view.Storage()[0].ItemID)
	require.NotNil(t, view.Slots()[0])
	assert.Equal(t, DirectionOutput, view.Slots()[0].Direction)
	assert.Equal(t, uint32(5), view.Parameters().WorkEnergy)
	assert.Equal(t, uint32(2), view.Parameters().DroneCount)
}

func TestStationViewInterstellarHasFiveStorageTwelveSlots(t *testing.T) {
	b := buildingWithParams(ItemInterstellarLogisticsStation, makeStationParams())
	view, ok := ParseStationView(&b)
	require.True(t, ok)
	assert.Len(t, view.Storage(), 5)
	assert.Len(t, view.Slots(), 12)
}

func TestStationViewNotAStationReturnsFalse(t *testing.T) {
	b := buildingWithParams(2001, nil)
	_, ok := ParseStationView(&b)
	assert.False(t, ok)
}

func TestSetHelpersOnlyTouchOwnCellRange(t *testing.T) {
	params := EnsureStationCapacity(nil)
	for i := range params {
		params[i] = uint32(i + 1000)
	}
	before := append([]uint32(nil), params...)

	SetStorageEntry(params, 1, StorageEntry{ItemID: 7})
	for i := range params {
		if i >= storageOffset+1*storageStride && i < storageOffset+1*storageStride+6 {
			continue
		}
		assert.Equal(t, before[i], params[i], "cell %d outside storage[1] range changed", i)
	}
}
