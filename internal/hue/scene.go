package hue

import "context"

// AppData is application specific data attached to a scene
type AppData struct {
	Version int    `json:"version,omitempty"`
	Data    string `json:"data,omitempty"`
}

// Scene represents a Hue scene (v1 API). Scenes are read-only here.
type Scene struct {
	id string

	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Group       string   `json:"group,omitempty"`
	Lights      []string `json:"lights"`
	Owner       string   `json:"owner"`
	Recycle     bool     `json:"recycle"`
	Locked      bool     `json:"locked"`
	AppData     *AppData `json:"appdata,omitempty"`
	Picture     string   `json:"picture"`
	LastUpdated string   `json:"lastupdated"`
	Version     int      `json:"version"`
}

var scenes = collection[string, Scene]{
	name:     "scenes",
	parseID:  func(s string) (string, error) { return s, checkSegment(s) },
	formatID: func(s string) string { return s },
	bind:     func(s *Scene, id string) { s.id = id },
	validate: func(s *Scene) error { return requireName(s.Name) },
}

// ListScenes returns every scene keyed by identifier
func ListScenes(ctx context.Context, t Transport) (map[string]*Scene, error) {
	return scenes.list(ctx, t)
}

// GetScene returns a single scene
func GetScene(ctx context.Context, t Transport, id string) (*Scene, error) {
	return scenes.get(ctx, t, id)
}

// ID returns the identifier attached when the scene was fetched
func (s *Scene) ID() string {
	return s.id
}

// Activate would recall the scene on its group.
// TODO: recall through PUT groups/{group}/action {"scene": id} once group scenes are modelled.
func (s *Scene) Activate(ctx context.Context, t Transport) error {
	return ErrNotImplemented
}
