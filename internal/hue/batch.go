package hue

import (
	"context"
	"maps"
	"slices"
)

// Batch operations run strictly one identifier after another and stop at the first failure.
// Nothing after the failing identifier is attempted; results gathered so far are returned
// alongside the error.

// SetLightsPower switches each light in ids on or off, in the given order
func SetLightsPower(ctx context.Context, t Transport, ids []int, on bool) ([]*Light, error) {
	out := make([]*Light, 0, len(ids))
	for _, id := range ids {
		light, err := GetLight(ctx, t, id)
		if err != nil {
			return out, err
		}
		light.State.SetOn(on)
		light, err = light.PushState(ctx, t)
		if err != nil {
			return out, err
		}
		out = append(out, light)
	}
	return out, nil
}

// SetAllLightsPower switches every light on or off, in identifier order
func SetAllLightsPower(ctx context.Context, t Transport, on bool) ([]*Light, error) {
	all, err := ListLights(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]*Light, 0, len(all))
	for _, id := range slices.Sorted(maps.Keys(all)) {
		light := all[id]
		light.State.SetOn(on)
		light, err = light.PushState(ctx, t)
		if err != nil {
			return out, err
		}
		out = append(out, light)
	}
	return out, nil
}

// SetGroupsPower switches each group in ids on or off, in the given order
func SetGroupsPower(ctx context.Context, t Transport, ids []int, on bool) ([]*Group, error) {
	out := make([]*Group, 0, len(ids))
	for _, id := range ids {
		group, err := GetGroup(ctx, t, id)
		if err != nil {
			return out, err
		}
		group.Action.SetOn(on)
		group, err = group.PushAction(ctx, t)
		if err != nil {
			return out, err
		}
		out = append(out, group)
	}
	return out, nil
}

// SetAllGroupsPower switches every group on or off, in identifier order
func SetAllGroupsPower(ctx context.Context, t Transport, on bool) ([]*Group, error) {
	all, err := ListGroups(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]*Group, 0, len(all))
	for _, id := range slices.Sorted(maps.Keys(all)) {
		group := all[id]
		group.Action.SetOn(on)
		group, err = group.PushAction(ctx, t)
		if err != nil {
			return out, err
		}
		out = append(out, group)
	}
	return out, nil
}
