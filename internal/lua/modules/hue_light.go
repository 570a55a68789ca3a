package modules

import (
	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huectl/internal/hue"
)

const lightTypeName = "hue.light"

// LightUserdata wraps a hue.Light and the transport it syncs through
type LightUserdata struct {
	light     *hue.Light
	transport hue.Transport
}

// RegisterLightType registers the hue.light metatable
func RegisterLightType(L *lua.LState) {
	mt := L.NewTypeMetatable(lightTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), lightMethods))
}

var lightMethods = mergeMethods(
	stagedSetters(func(L *lua.LState) (*hue.State, *lua.LUserData) {
		light, ud := checkLight(L)
		return &light.light.State, ud
	}),
	map[string]lua.LGFunction{
		// Getters (return values)
		"id":        lightGetID,
		"name":      lightGetName,
		"type":      lightGetType,
		"is_on":     lightIsOn,
		"get_bri":   lightGetBri,
		"reachable": lightReachable,
		"state":     lightGetState,

		// Bridge writes, (self, nil) or (nil, err)
		"push":   lightPush,
		"rename": lightRename,
	},
)

// pushLight creates a new Light userdata and pushes it onto the stack
func pushLight(L *lua.LState, light *hue.Light, t hue.Transport) {
	ud := L.NewUserData()
	ud.Value = &LightUserdata{light: light, transport: t}
	L.SetMetatable(ud, L.GetTypeMetatable(lightTypeName))
	L.Push(ud)
}

// checkLight retrieves the LightUserdata from the Lua stack
func checkLight(L *lua.LState) (*LightUserdata, *lua.LUserData) {
	ud := L.CheckUserData(1)
	if v, ok := ud.Value.(*LightUserdata); ok {
		return v, ud
	}
	L.ArgError(1, "hue.light expected")
	return nil, nil
}

// light:id() -> number
func lightGetID(L *lua.LState) int {
	light, _ := checkLight(L)
	L.Push(lua.LNumber(light.light.ID()))
	return 1
}

// light:name() -> string
func lightGetName(L *lua.LState) int {
	light, _ := checkLight(L)
	L.Push(lua.LString(light.light.Name))
	return 1
}

// light:type() -> string
func lightGetType(L *lua.LState) int {
	light, _ := checkLight(L)
	L.Push(lua.LString(light.light.Type))
	return 1
}

// light:is_on() -> bool
func lightIsOn(L *lua.LState) int {
	light, _ := checkLight(L)
	L.Push(lua.LBool(light.light.State.On()))
	return 1
}

// light:get_bri() -> number
func lightGetBri(L *lua.LState) int {
	light, _ := checkLight(L)
	L.Push(lua.LNumber(light.light.State.Bri()))
	return 1
}

// light:reachable() -> bool
func lightReachable(L *lua.LState) int {
	light, _ := checkLight(L)
	L.Push(lua.LBool(light.light.State.Reachable()))
	return 1
}

// light:state() -> table of the fields the bridge reported
func lightGetState(L *lua.LState) int {
	light, _ := checkLight(L)
	L.Push(MapToLuaTable(L, light.light.State.Snapshot()))
	return 1
}

// lightPush writes the staged state and replaces it with what the bridge reports back
// light:push() -> (self, err)
func lightPush(L *lua.LState) int {
	light, ud := checkLight(L)
	ctx := contextOf(L)

	fresh, err := light.light.PushState(ctx, light.transport)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int("light", light.light.ID()).Msg("Failed to push light state")
		return pushErr(L, err)
	}

	light.light = fresh
	L.Push(ud)
	L.Push(lua.LNil)
	return 2
}

// light:rename(name) -> (self, err)
func lightRename(L *lua.LState) int {
	light, ud := checkLight(L)
	name := L.CheckString(2)
	ctx := contextOf(L)

	fresh, err := light.light.Rename(ctx, light.transport, name)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int("light", light.light.ID()).Str("name", name).Msg("Failed to rename light")
		return pushErr(L, err)
	}

	light.light = fresh
	L.Push(ud)
	L.Push(lua.LNil)
	return 2
}
