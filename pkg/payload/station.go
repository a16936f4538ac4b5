package payload

// Logistics station item ids that get a specialized parameter view.
const (
	ItemPlanetaryLogisticsStation   uint16 = 2103
	ItemInterstellarLogisticsStation uint16 = 2104
)

const (
	storageOffset    = 0
	storageStride    = 6
	slotsOffset      = 192
	slotsStride      = 4
	parametersOffset = 320
)

// LogisticsDirection is a station slot's transfer direction.
type LogisticsDirection uint32

const (
	DirectionOutput LogisticsDirection = 1
	DirectionInput  LogisticsDirection = 2
)

// StorageEntry is one storage slot of a logistics station. A nil
// *StorageEntry in StationView.Storage means that slot is unused
// (item id cell is zero).
type StorageEntry struct {
	ItemID       uint32
	LocalLogic   uint32
	RemoteLogic  uint32
	MaxCount     uint32
}

// SlotEntry is one transfer slot of a logistics station. A nil
// *SlotEntry in StationView.Slots means that slot is unused (storage
// index cell is zero).
type SlotEntry struct {
	Direction    LogisticsDirection
	StorageIndex uint32
}

// StationParams are the fixed station-wide parameters at cell 320.
type StationParams struct {
	WorkEnergy       uint32
	DroneRange       uint32
	VesselRange      uint32
	OrbitalCollector bool
	WarpDistance     uint32
	EquipWarper      bool
	DroneCount       uint32
	VesselCount      uint32
}

// StationView is a read-only projection over a logistics-station
// building's raw parameter buffer. It is derived fresh from the buffer
// every time it's requested (see ParseStationView); there is no
// in-place mutation through the view itself (SPEC_FULL.md §4.2 open
// question 1) — to change a station's parameters, mutate the raw
// []uint32 buffer via SetStorageEntry/SetSlotEntry/SetStationParams and
// re-derive the view.
type StationView struct {
	storage []*StorageEntry
	slots   []*SlotEntry
	params  StationParams
}

func (v *StationView) Storage() []*StorageEntry { return v.storage }
func (v *StationView) Slots() []*SlotEntry      { return v.slots }
func (v *StationView) Parameters() StationParams { return v.params }

// storageLenForItem returns the storage/slot lengths for a station item
// id, and whether that item id has a station view at all.
func storageLenForItem(itemID uint16) (storageLen, slotsLen int, ok bool) {
	switch itemID {
	case ItemPlanetaryLogisticsStation:
		return 3, 12, true
	case ItemInterstellarLogisticsStation:
		return 5, 12, true
	default:
		return 0, 0, false
	}
}

// ParseStationView derives a StationView for a building, or returns
// (nil, false) if the building's item id is not a logistics station.
func ParseStationView(b *Building) (*StationView, bool) {
	storageLen, slotsLen, ok := storageLenForItem(b.ItemID)
	if !ok {
		return nil, false
	}

	storage := make([]*StorageEntry, storageLen)
	for i := 0; i < storageLen; i++ {
		off := storageOffset + i*storageStride
		if cellOrZero(b.Parameters, off) == 0 {
			continue
		}
		storage[i] = &StorageEntry{
			ItemID:      cellOrZero(b.Parameters, off+0),
			LocalLogic:  cellOrZero(b.Parameters, off+1),
			RemoteLogic: cellOrZero(b.Parameters, off+2),
			MaxCount:    cellOrZero(b.Parameters, off+3),
		}
	}

	slots := make([]*SlotEntry, slotsLen)
	for i := 0; i < slotsLen; i++ {
		off := slotsOffset + i*slotsStride
		storageIndex := cellOrZero(b.Parameters, off+1)
		if storageIndex == 0 {
			continue
		}
		slots[i] = &SlotEntry{
			Direction:    LogisticsDirection(cellOrZero(b.Parameters, off+0)),
			StorageIndex: storageIndex,
		}
	}

	params := StationParams{
		WorkEnergy:       cellOrZero(b.Parameters, parametersOffset+0),
		DroneRange:       cellOrZero(b.Parameters, parametersOffset+1),
		VesselRange:      cellOrZero(b.Parameters, parametersOffset+2),
		OrbitalCollector: cellOrZero(b.Parameters, parametersOffset+3) == 1,
		WarpDistance:     cellOrZero(b.Parameters, parametersOffset+4),
		EquipWarper:      cellOrZero(b.Parameters, parametersOffset+5) == 1,
		DroneCount:       cellOrZero(b.Parameters, parametersOffset+6),
		VesselCount:      cellOrZero(b.Parameters, parametersOffset+7),
	}

	return &StationView{storage: storage, slots: slots, params: params}, true
}

func cellOrZero(params []uint32, idx int) uint32 {
	if idx < 0 || idx >= len(params) {
		return 0
	}
	return params[idx]
}

// SetStorageEntry writes one storage entry directly into a building's
// raw parameter buffer, leaving every other cell untouched. index is
// the storage slot position (0-based); the buffer must already be sized
// for the building's station layout (e.g. via EnsureStationCapacity).
func SetStorageEntry(params []uint32, index int, e StorageEntry) {
	off := storageOffset + index*storageStride
	params[off+0] = e.ItemID
	params[off+1] = e.LocalLogic
	params[off+2] = e.RemoteLogic
	params[off+3] = e.MaxCount
	params[off+4] = 0
	params[off+5] = 0
}

// SetSlotEntry writes one transfer slot directly into a building's raw
// parameter buffer, leaving every other cell untouched.
func SetSlotEntry(params []uint32, index int, e SlotEntry) {
	off := slotsOffset + index*slotsStride
	params[off+0] = uint32(e.Direction)
	params[off+1] = e.StorageIndex
	params[off+2] = 0
	params[off+3] = 0
}

// SetStationParams writes the station-wide parameter block directly
// into a building's raw parameter buffer.
func SetStationParams(params []uint32, p StationParams) {
	params[parametersOffset+0] = p.WorkEnergy
	params[parametersOffset+1] = p.DroneRange
	params[parametersOffset+2] = p.VesselRange
	params[parametersOffset+3] = boolToCell(p.OrbitalCollector)
	params[parametersOffset+4] = p.WarpDistance
	params[parametersOffset+5] = boolToCell(p.EquipWarper)
	params[parametersOffset+6] = p.DroneCount
	params[parametersOffset+7] = p.VesselCount
}

func boolToCell(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// EnsureStationCapacity grows params (if needed) to at least
// parametersOffset+8 cells, so Set* helpers can address the full
// station layout. Existing cells are preserved; new cells are zero.
func EnsureStationCapacity(params []uint32) []uint32 {
	const minLen = parametersOffset + 8
	if len(params) >= minLen {
		return params
	}
	grown := make([]uint32, minLen)
	copy(grown, params)
	return grown
}
