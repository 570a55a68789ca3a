package cli

import (
	"encoding/json"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/dokzlo13/huectl/internal/hue"
)

// render writes v in the configured output format
func (a *App) render(w io.Writer, v any) error {
	if a.cfg != nil && a.cfg.Output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func lightView(l *hue.Light) map[string]any {
	return map[string]any{
		"name":             l.Name,
		"type":             l.Type,
		"modelid":          l.ModelID,
		"manufacturername": l.ManufacturerName,
		"productname":      l.ProductName,
		"uniqueid":         l.UniqueID,
		"swversion":        l.SWVersion,
		"state":            l.State.Snapshot(),
	}
}

func groupView(g *hue.Group) map[string]any {
	view := map[string]any{
		"name":   g.Name,
		"type":   g.Type,
		"lights": g.Lights,
		"state": map[string]any{
			"all_on": g.Status.AllOn,
			"any_on": g.Status.AnyOn,
		},
		"action": g.Action.Snapshot(),
	}
	if g.Class != "" {
		view["class"] = g.Class
	}
	return view
}

func sceneView(s *hue.Scene) map[string]any {
	return map[string]any{
		"name":        s.Name,
		"type":        s.Type,
		"group":       s.Group,
		"lights":      s.Lights,
		"owner":       s.Owner,
		"locked":      s.Locked,
		"recycle":     s.Recycle,
		"lastupdated": s.LastUpdated,
	}
}

func lightViews(lights []*hue.Light) map[string]any {
	out := make(map[string]any, len(lights))
	for _, l := range lights {
		out[strconv.Itoa(l.ID())] = lightView(l)
	}
	return out
}

func groupViews(groups []*hue.Group) map[string]any {
	out := make(map[string]any, len(groups))
	for _, g := range groups {
		out[strconv.Itoa(g.ID())] = groupView(g)
	}
	return out
}
