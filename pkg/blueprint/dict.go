package blueprint

import "github.com/dspbptk/dspbptk-go/pkg/payload"

// buildingToDict renders one building, including its station view (when
// the building is a logistics station) under a "station" key.
func buildingToDict(b *payload.Building) map[string]any {
	m := map[string]any{
		"index":               b.Index,
		"area_index":          b.AreaIndex,
		"local_offset": []any{
			b.LocalOffsetX, b.LocalOffsetY, b.LocalOffsetZ,
		},
		"local_offset2": []any{
			b.LocalOffsetX2, b.LocalOffsetY2, b.LocalOffsetZ2,
		},
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
		"parameters":          b.Parameters,
	}

	if view, ok := payload.ParseStationView(b); ok {
		m["station"] = stationViewToDict(view)
	}

	return m
}

func stationViewToDict(v *payload.StationView) map[string]any {
	storage := make([]any, len(v.Storage()))
	for i, e := range v.Storage() {
		if e == nil {
			continue
		}
		storage[i] = map[string]any{
			"item_id":      e.ItemID,
			"local_logic":  e.LocalLogic,
			"remote_logic": e.RemoteLogic,
			"max_count":    e.MaxCount,
		}
	}

	slots := make([]any, len(v.Slots()))
	for i, s := range v.Slots() {
		if s == nil {
			continue
		}
		slots[i] = map[string]any{
			"direction":     s.Direction,
			"storage_index": s.StorageIndex,
		}
	}

	p := v.Parameters()
	return map[string]any{
		"storage": storage,
		"slots":   slots,
		"parameters": map[string]any{
			"work_energy":       p.WorkEnergy,
			"drone_range":       p.DroneRange,
			"vessel_range":      p.VesselRange,
			"orbital_collector": p.OrbitalCollector,
			"warp_distance":     p.WarpDistance,
			"equip_warper":      p.EquipWarper,
			"drone_count":       p.DroneCount,
			"vessel_count":      p.VesselCount,
		},
	}
}
