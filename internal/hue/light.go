package hue

import (
	"context"
	"encoding/json"
	"strconv"
)

// SWUpdate is the software update status reported for a light
type SWUpdate struct {
	State       string `json:"state"`
	LastInstall string `json:"lastinstall,omitempty"`
}

// Light represents a Hue light (v1 API)
type Light struct {
	id      int
	deleted bool

	State            State    `json:"state"`
	SWUpdate         SWUpdate `json:"swupdate"`
	Type             string   `json:"type"`
	Name             string   `json:"name"`
	ModelID          string   `json:"modelid"`
	ManufacturerName string   `json:"manufacturername"`
	ProductName      string   `json:"productname"`
	UniqueID         string   `json:"uniqueid"`
	SWVersion        string   `json:"swversion"`
}

var lights = collection[int, Light]{
	name:     "lights",
	parseID:  strconv.Atoi,
	formatID: strconv.Itoa,
	bind:     func(l *Light, id int) { l.id = id },
	validate: func(l *Light) error { return requireName(l.Name) },
}

// ListLights returns every light known to the bridge keyed by identifier
func ListLights(ctx context.Context, t Transport) (map[int]*Light, error) {
	return lights.list(ctx, t)
}

// GetLight returns a single light
func GetLight(ctx context.Context, t Transport, id int) (*Light, error) {
	return lights.get(ctx, t, id)
}

// ID returns the identifier attached when the light was fetched
func (l *Light) ID() int {
	return l.id
}

// PushState sends the light's partial state to the bridge and returns the light as the bridge
// reports it afterwards
func (l *Light) PushState(ctx context.Context, t Transport) (*Light, error) {
	if l.deleted {
		return nil, ErrDeleted
	}
	body, err := l.State.payload()
	if err != nil {
		return nil, err
	}
	return lights.put(ctx, t, l.id, body, "state")
}

// Update sends the light's writable attributes (its name) and rereads it
func (l *Light) Update(ctx context.Context, t Transport) (*Light, error) {
	return l.pushName(ctx, t, l.Name)
}

// Rename pushes a new name. The local Name changes only once the bridge accepted it.
func (l *Light) Rename(ctx context.Context, t Transport, name string) (*Light, error) {
	updated, err := l.pushName(ctx, t, name)
	if err != nil {
		return nil, err
	}
	l.Name = updated.Name
	return updated, nil
}

func (l *Light) pushName(ctx context.Context, t Transport, name string) (*Light, error) {
	if l.deleted {
		return nil, ErrDeleted
	}
	body, err := json.Marshal(struct {
		Name string `json:"name"`
	}{name})
	if err != nil {
		return nil, err
	}
	return lights.put(ctx, t, l.id, body)
}

// Delete removes the light from the bridge. The light is unusable afterwards.
func (l *Light) Delete(ctx context.Context, t Transport) error {
	if l.deleted {
		return ErrDeleted
	}
	if err := lights.remove(ctx, t, l.id); err != nil {
		return err
	}
	l.deleted = true
	return nil
}
