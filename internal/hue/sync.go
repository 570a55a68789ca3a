package hue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/rs/zerolog"
)

// collection describes one bridge resource kind and drives the fetch/push/reread cycle for it.
// Bodies returned by the bridge never contain the identifier; it comes from the map key or the
// path, and bind attaches it after decoding.
type collection[K comparable, E any] struct {
	name     string // "lights", "groups", "scenes"
	parseID  func(string) (K, error)
	formatID func(K) string
	bind     func(*E, K)
	validate func(*E) error
}

// itemPath refuses identifiers that would address a different resource once joined
func (c collection[K, E]) itemPath(id K, sub ...string) (string, error) {
	seg := c.formatID(id)
	if err := checkSegment(seg); err != nil {
		return "", err
	}
	return path.Join(append([]string{c.name, seg}, sub...)...), nil
}

// checkSegment accepts s only as a single non-empty path element
func checkSegment(s string) error {
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\?#`) {
		return fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return nil
}

// list GETs the collection and attaches every map key as the entity's identifier.
// A single unparseable key fails the whole call.
func (c collection[K, E]) list(ctx context.Context, t Transport) (map[K]*E, error) {
	body, err := t.Get(ctx, c.name)
	if err != nil {
		return nil, asTransportError(http.MethodGet, c.name, err)
	}

	var raw map[string]*E
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Path: c.name, Err: err}
	}

	out := make(map[K]*E, len(raw))
	for key, entity := range raw {
		if entity == nil {
			return nil, &DecodeError{Path: c.name, Err: fmt.Errorf("entry %q is null", key)}
		}
		id, err := c.parseID(key)
		if err != nil {
			return nil, &DecodeError{Path: c.name, Err: fmt.Errorf("invalid identifier %q: %w", key, err)}
		}
		if _, dup := out[id]; dup {
			return nil, &DecodeError{Path: c.name, Err: fmt.Errorf("duplicate identifier %q", key)}
		}
		if err := c.validate(entity); err != nil {
			return nil, &DecodeError{Path: c.name, Err: fmt.Errorf("entry %q: %w", key, err)}
		}
		c.bind(entity, id)
		out[id] = entity
	}

	zerolog.Ctx(ctx).Debug().Str("kind", c.name).Int("count", len(out)).Msg("Listed resources")
	return out, nil
}

// get GETs one entity and attaches id to it
func (c collection[K, E]) get(ctx context.Context, t Transport, id K) (*E, error) {
	p, err := c.itemPath(id)
	if err != nil {
		return nil, err
	}
	body, err := t.Get(ctx, p)
	if err != nil {
		return nil, asTransportError(http.MethodGet, p, err)
	}

	entity := new(E)
	if err := json.Unmarshal(body, entity); err != nil {
		return nil, &DecodeError{Path: p, Err: err}
	}
	if err := c.validate(entity); err != nil {
		return nil, &DecodeError{Path: p, Err: err}
	}
	c.bind(entity, id)
	return entity, nil
}

// put PUTs body to the entity (or one of its sub-paths) and returns the entity as the bridge
// reports it afterwards. The local copy is never trusted after a write.
func (c collection[K, E]) put(ctx context.Context, t Transport, id K, body []byte, sub ...string) (*E, error) {
	p, err := c.itemPath(id, sub...)
	if err != nil {
		return nil, err
	}
	if _, err := t.Put(ctx, p, body); err != nil {
		return nil, asTransportError(http.MethodPut, p, err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", p).RawJSON("body", body).Msg("Pushed, rereading")
	return c.get(ctx, t, id)
}

// create POSTs body to the collection, parses the new identifier from the bridge's success
// reply and rereads the created entity
func (c collection[K, E]) create(ctx context.Context, t Transport, body []byte) (*E, error) {
	resp, err := t.Post(ctx, c.name, body)
	if err != nil {
		return nil, asTransportError(http.MethodPost, c.name, err)
	}

	var results []struct {
		Success *struct {
			ID string `json:"id"`
		} `json:"success"`
		Error *struct {
			Type        int    `json:"type"`
			Address     string `json:"address"`
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp, &results); err != nil {
		return nil, &DecodeError{Path: c.name, Err: err}
	}

	for _, r := range results {
		if r.Error != nil {
			return nil, &TransportError{
				Method: http.MethodPost,
				Path:   c.name,
				Err:    fmt.Errorf("bridge error %d: %s", r.Error.Type, r.Error.Description),
			}
		}
		if r.Success != nil && r.Success.ID != "" {
			id, err := c.parseID(r.Success.ID)
			if err != nil {
				return nil, &DecodeError{Path: c.name, Err: fmt.Errorf("invalid identifier %q: %w", r.Success.ID, err)}
			}
			return c.get(ctx, t, id)
		}
	}
	return nil, &DecodeError{Path: c.name, Err: fmt.Errorf("%w: success.id", ErrMissingField)}
}

// remove DELETEs the entity; nothing is reread
func (c collection[K, E]) remove(ctx context.Context, t Transport, id K) error {
	p, err := c.itemPath(id)
	if err != nil {
		return err
	}
	if _, err := t.Delete(ctx, p); err != nil {
		return asTransportError(http.MethodDelete, p, err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", p).Msg("Deleted")
	return nil
}

func requireName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	return nil
}
