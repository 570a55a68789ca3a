package modules

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/huectl/internal/hue"
)

// stateAccessor returns the staged state of the userdata at stack position 1
type stateAccessor func(L *lua.LState) (*hue.State, *lua.LUserData)

// stagedSetters builds the chainable setters shared by lights and groups.
// They only change the local copy; nothing reaches the bridge until push().
// Colour channels follow hue.State gating, so set_hue on a white-only lamp is a no-op.
func stagedSetters(check stateAccessor) map[string]lua.LGFunction {
	chain := func(apply func(L *lua.LState, s *hue.State)) lua.LGFunction {
		return func(L *lua.LState) int {
			s, ud := check(L)
			apply(L, s)
			L.Push(ud)
			return 1
		}
	}

	return map[string]lua.LGFunction{
		// light:on() -> self
		"on": chain(func(L *lua.LState, s *hue.State) { s.SetOn(true) }),
		// light:off() -> self
		"off": chain(func(L *lua.LState, s *hue.State) { s.SetOn(false) }),
		// light:toggle() -> self
		"toggle": chain(func(L *lua.LState, s *hue.State) { s.SetOn(!s.On()) }),
		// light:set_bri(1-254) -> self
		"set_bri": chain(func(L *lua.LState, s *hue.State) {
			s.SetBri(uint8(clampInt(L.CheckInt(2), 1, 254)))
		}),
		// light:set_hue(0-65535) -> self
		"set_hue": chain(func(L *lua.LState, s *hue.State) {
			s.SetHue(uint16(clampInt(L.CheckInt(2), 0, 65535)))
		}),
		// light:set_sat(0-254) -> self
		"set_sat": chain(func(L *lua.LState, s *hue.State) {
			s.SetSat(uint8(clampInt(L.CheckInt(2), 0, 254)))
		}),
		// light:set_ct(153-500 mirek) -> self
		"set_ct": chain(func(L *lua.LState, s *hue.State) {
			s.SetCT(uint16(clampInt(L.CheckInt(2), 153, 500)))
		}),
		// light:set_xy(x, y) -> self
		"set_xy": chain(func(L *lua.LState, s *hue.State) {
			s.SetXY([2]float32{float32(L.CheckNumber(2)), float32(L.CheckNumber(3))})
		}),
		// light:alert("none" | "select" | "lselect") -> self
		"alert": chain(func(L *lua.LState, s *hue.State) { s.SetAlert(L.OptString(2, "select")) }),
		// light:effect("none" | "colorloop") -> self
		"effect": chain(func(L *lua.LState, s *hue.State) { s.SetEffect(L.CheckString(2)) }),
		// light:transition(steps of 100ms) -> self
		"transition": chain(func(L *lua.LState, s *hue.State) {
			s.SetTransitionTime(uint16(clampInt(L.CheckInt(2), 0, 65535)))
		}),
	}
}

// mergeMethods combines method tables; later tables win
func mergeMethods(tables ...map[string]lua.LGFunction) map[string]lua.LGFunction {
	out := make(map[string]lua.LGFunction)
	for _, t := range tables {
		for name, fn := range t {
			out[name] = fn
		}
	}
	return out
}
