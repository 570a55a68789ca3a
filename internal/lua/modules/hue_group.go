package modules

import (
	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huectl/internal/hue"
)

const groupTypeName = "hue.group"

// GroupUserdata wraps a hue.Group and the transport it syncs through
type GroupUserdata struct {
	group     *hue.Group
	transport hue.Transport
}

// RegisterGroupType registers the hue.group metatable
func RegisterGroupType(L *lua.LState) {
	mt := L.NewTypeMetatable(groupTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), groupMethods))
}

var groupMethods = mergeMethods(
	stagedSetters(func(L *lua.LState) (*hue.State, *lua.LUserData) {
		group, ud := checkGroup(L)
		return &group.group.Action, ud
	}),
	map[string]lua.LGFunction{
		// Getters (return values)
		"id":      groupGetID,
		"name":    groupGetName,
		"type":    groupGetType,
		"class":   groupGetClass,
		"lights":  groupGetLights,
		"all_on":  groupAllOn,
		"any_on":  groupAnyOn,
		"is_on":   groupAnyOn,
		"get_bri": groupGetBri,
		"state":   groupGetState,

		// Bridge writes, (self, nil) or (nil, err)
		"push":   groupPush,
		"rename": groupRename,
	},
)

// pushGroup creates a new Group userdata and pushes it onto the stack
func pushGroup(L *lua.LState, group *hue.Group, t hue.Transport) {
	ud := L.NewUserData()
	ud.Value = &GroupUserdata{group: group, transport: t}
	L.SetMetatable(ud, L.GetTypeMetatable(groupTypeName))
	L.Push(ud)
}

// checkGroup retrieves the GroupUserdata from the Lua stack
func checkGroup(L *lua.LState) (*GroupUserdata, *lua.LUserData) {
	ud := L.CheckUserData(1)
	if v, ok := ud.Value.(*GroupUserdata); ok {
		return v, ud
	}
	L.ArgError(1, "hue.group expected")
	return nil, nil
}

// group:id() -> number
func groupGetID(L *lua.LState) int {
	group, _ := checkGroup(L)
	L.Push(lua.LNumber(group.group.ID()))
	return 1
}

// group:name() -> string
func groupGetName(L *lua.LState) int {
	group, _ := checkGroup(L)
	L.Push(lua.LString(group.group.Name))
	return 1
}

// group:type() -> string
func groupGetType(L *lua.LState) int {
	group, _ := checkGroup(L)
	L.Push(lua.LString(group.group.Type))
	return 1
}

// group:class() -> string
func groupGetClass(L *lua.LState) int {
	group, _ := checkGroup(L)
	L.Push(lua.LString(group.group.Class))
	return 1
}

// group:lights() -> array of light ID strings
func groupGetLights(L *lua.LState) int {
	group, _ := checkGroup(L)
	L.Push(GoToLuaValue(L, group.group.Lights))
	return 1
}

// group:all_on() -> bool
func groupAllOn(L *lua.LState) int {
	group, _ := checkGroup(L)
	L.Push(lua.LBool(group.group.Status.AllOn))
	return 1
}

// group:any_on() -> bool
func groupAnyOn(L *lua.LState) int {
	group, _ := checkGroup(L)
	L.Push(lua.LBool(group.group.Status.AnyOn))
	return 1
}

// group:get_bri() -> number
func groupGetBri(L *lua.LState) int {
	group, _ := checkGroup(L)
	L.Push(lua.LNumber(group.group.Action.Bri()))
	return 1
}

// group:state() -> table of the last action
func groupGetState(L *lua.LState) int {
	group, _ := checkGroup(L)
	L.Push(MapToLuaTable(L, group.group.Action.Snapshot()))
	return 1
}

// groupPush writes the staged action and replaces the group with the bridge's view
// group:push() -> (self, err)
func groupPush(L *lua.LState) int {
	group, ud := checkGroup(L)
	ctx := contextOf(L)

	fresh, err := group.group.PushAction(ctx, group.transport)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int("group", group.group.ID()).Msg("Failed to push group action")
		return pushErr(L, err)
	}

	group.group = fresh
	L.Push(ud)
	L.Push(lua.LNil)
	return 2
}

// group:rename(name) -> (self, err)
func groupRename(L *lua.LState) int {
	group, ud := checkGroup(L)
	name := L.CheckString(2)
	ctx := contextOf(L)

	previous := group.group.Name
	group.group.Name = name
	fresh, err := group.group.Update(ctx, group.transport)
	if err != nil {
		group.group.Name = previous
		zerolog.Ctx(ctx).Error().Err(err).Int("group", group.group.ID()).Str("name", name).Msg("Failed to rename group")
		return pushErr(L, err)
	}

	group.group = fresh
	L.Push(ud)
	L.Push(lua.LNil)
	return 2
}
