package hue

import (
	"context"
	"encoding/json"
	"strconv"
)

// GroupState is the aggregate power status of a group. It is read-only.
type GroupState struct {
	AllOn bool `json:"all_on"`
	AnyOn bool `json:"any_on"`
}

// Group represents a Hue group (v1 API). Its Action uses the same partial state as a light.
type Group struct {
	id      int
	deleted bool

	Name    string     `json:"name"`
	Lights  []string   `json:"lights"`
	Sensors []string   `json:"sensors"`
	Type    string     `json:"type"`
	Status  GroupState `json:"state"`
	Recycle bool       `json:"recycle"`
	Class   string     `json:"class,omitempty"`
	Action  State      `json:"action"`
}

// groupAttributes is the writable part of a group
type groupAttributes struct {
	Name   string   `json:"name"`
	Lights []string `json:"lights"`
	Type   string   `json:"type,omitempty"`
	Class  string   `json:"class,omitempty"`
}

var groups = collection[int, Group]{
	name:     "groups",
	parseID:  strconv.Atoi,
	formatID: strconv.Itoa,
	bind:     func(g *Group, id int) { g.id = id },
	validate: func(g *Group) error { return requireName(g.Name) },
}

// ListGroups returns every group keyed by identifier
func ListGroups(ctx context.Context, t Transport) (map[int]*Group, error) {
	return groups.list(ctx, t)
}

// GetGroup returns a single group
func GetGroup(ctx context.Context, t Transport, id int) (*Group, error) {
	return groups.get(ctx, t, id)
}

// CreateGroup creates a group of the given lights and returns it as stored by the bridge.
// typ and class may be empty to use the bridge defaults.
func CreateGroup(ctx context.Context, t Transport, name string, lightIDs []int, typ, class string) (*Group, error) {
	members := make([]string, len(lightIDs))
	for i, id := range lightIDs {
		members[i] = strconv.Itoa(id)
	}
	body, err := json.Marshal(groupAttributes{Name: name, Lights: members, Type: typ, Class: class})
	if err != nil {
		return nil, err
	}
	return groups.create(ctx, t, body)
}

// DeleteGroup removes a group by identifier without fetching it first
func DeleteGroup(ctx context.Context, t Transport, id int) error {
	return groups.remove(ctx, t, id)
}

// ID returns the identifier attached when the group was fetched
func (g *Group) ID() int {
	return g.id
}

// PushAction sends the group's action to every member light and rereads the group
func (g *Group) PushAction(ctx context.Context, t Transport) (*Group, error) {
	if g.deleted {
		return nil, ErrDeleted
	}
	body, err := g.Action.payload()
	if err != nil {
		return nil, err
	}
	return groups.put(ctx, t, g.id, body, "action")
}

// Update sends name, membership and class and rereads the group
func (g *Group) Update(ctx context.Context, t Transport) (*Group, error) {
	if g.deleted {
		return nil, ErrDeleted
	}
	body, err := json.Marshal(groupAttributes{Name: g.Name, Lights: g.Lights, Class: g.Class})
	if err != nil {
		return nil, err
	}
	return groups.put(ctx, t, g.id, body)
}

// Delete removes the group from the bridge. The group is unusable afterwards.
func (g *Group) Delete(ctx context.Context, t Transport) error {
	if g.deleted {
		return ErrDeleted
	}
	if err := groups.remove(ctx, t, g.id); err != nil {
		return err
	}
	g.deleted = true
	return nil
}
