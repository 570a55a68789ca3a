package modules

import (
	"maps"
	"slices"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huectl/internal/hue"
)

// HueModule provides hue.* functions to Lua.
//
// ERROR HANDLING CONVENTION:
// All functions that can fail return two values: (result, error_string).
//   - On success: (result, nil)
//   - On error: (nil, "error message")
//
// Example Lua usage:
//
//	local lamp, err = hue.light(5)
//	if err then
//	    log.error("Failed: " .. err)
//	    return
//	end
//	lamp:on():set_bri(200):set_xy(0.45, 0.41):transition(10)
//	local _, err = lamp:push()
//
// Setters only stage changes on the local copy. push() sends them and refreshes
// the object from the bridge.
type HueModule struct {
	transport hue.Transport
}

// NewHueModule creates a new hue module
func NewHueModule(t hue.Transport) *HueModule {
	return &HueModule{transport: t}
}

// Loader is the module loader for Lua
func (m *HueModule) Loader(L *lua.LState) int {
	RegisterLightType(L)
	RegisterGroupType(L)

	mod := L.NewTable()

	L.SetField(mod, "light", L.NewFunction(m.getLight))
	L.SetField(mod, "lights", L.NewFunction(m.getLights))
	L.SetField(mod, "group", L.NewFunction(m.getGroup))
	L.SetField(mod, "groups", L.NewFunction(m.getGroups))
	L.SetField(mod, "scenes", L.NewFunction(m.getScenes))

	L.Push(mod)
	return 1
}

// getLight(id) -> (light_userdata, err)
// id can be string or number
func (m *HueModule) getLight(L *lua.LState) int {
	lightID, ok := checkID(L, 1, "light")
	if !ok {
		return 2
	}

	ctx := contextOf(L)
	light, err := hue.GetLight(ctx, m.transport, lightID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int("light", lightID).Msg("Failed to get light")
		return pushErr(L, err)
	}

	pushLight(L, light, m.transport)
	L.Push(lua.LNil)
	return 2
}

// getLights() -> (array of light_userdata ordered by ID, err)
func (m *HueModule) getLights(L *lua.LState) int {
	ctx := contextOf(L)
	lights, err := hue.ListLights(ctx, m.transport)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to get lights")
		return pushErr(L, err)
	}

	tbl := L.NewTable()
	for i, id := range slices.Sorted(maps.Keys(lights)) {
		pushLight(L, lights[id], m.transport)
		tbl.RawSetInt(i+1, L.Get(-1))
		L.Pop(1)
	}

	L.Push(tbl)
	L.Push(lua.LNil)
	return 2
}

// getGroup(id) -> (group_userdata, err)
// id can be string or number
func (m *HueModule) getGroup(L *lua.LState) int {
	groupID, ok := checkID(L, 1, "group")
	if !ok {
		return 2
	}

	ctx := contextOf(L)
	group, err := hue.GetGroup(ctx, m.transport, groupID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int("group", groupID).Msg("Failed to get group")
		return pushErr(L, err)
	}

	pushGroup(L, group, m.transport)
	L.Push(lua.LNil)
	return 2
}

// getGroups() -> (array of group_userdata ordered by ID, err)
func (m *HueModule) getGroups(L *lua.LState) int {
	ctx := contextOf(L)
	groups, err := hue.ListGroups(ctx, m.transport)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to get groups")
		return pushErr(L, err)
	}

	tbl := L.NewTable()
	for i, id := range slices.Sorted(maps.Keys(groups)) {
		pushGroup(L, groups[id], m.transport)
		tbl.RawSetInt(i+1, L.Get(-1))
		L.Pop(1)
	}

	L.Push(tbl)
	L.Push(lua.LNil)
	return 2
}

// getScenes() -> (table keyed by scene ID, err)
// Scenes are plain tables: {id, name, type, group, lights}
func (m *HueModule) getScenes(L *lua.LState) int {
	ctx := contextOf(L)
	scenes, err := hue.ListScenes(ctx, m.transport)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to get scenes")
		return pushErr(L, err)
	}

	tbl := L.NewTable()
	for id, scene := range scenes {
		L.SetField(tbl, id, MapToLuaTable(L, map[string]any{
			"id":     id,
			"name":   scene.Name,
			"type":   scene.Type,
			"group":  scene.Group,
			"lights": scene.Lights,
		}))
	}

	L.Push(tbl)
	L.Push(lua.LNil)
	return 2
}
