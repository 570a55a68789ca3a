package hue

import (
	"encoding/json"
	"slices"
)

var (
	alertValues  = []string{"none", "select", "lselect"}
	effectValues = []string{"none", "colorloop"}
)

// State is the settable subset of a light's (or a group action's) attributes.
//
// Every field is optional: nil means "do not send", non-nil means "set explicitly".
// colormode, mode and reachable are read-only and only ever populated from the bridge.
// transitiontime is write-only: never decoded, and cleared once it has been sent.
//
// Setters never fail. An invalid alert/effect value, or a colour channel the device
// never reported (hue, sat, xy, ct), leaves the state unchanged. Devices without a
// colour capability must not be sent colour fields, so this must stay a silent no-op.
type State struct {
	on             *bool
	bri            *uint8
	hue            *uint16
	sat            *uint8
	alert          *string
	effect         *string
	xy             *[2]float32
	ct             *uint16
	colorMode      *string
	mode           *string
	reachable      *bool
	transitionTime *uint16
}

// outboundState is the wire shape sent to the bridge
type outboundState struct {
	On             *bool       `json:"on,omitempty"`
	Bri            *uint8      `json:"bri,omitempty"`
	Hue            *uint16     `json:"hue,omitempty"`
	Sat            *uint8      `json:"sat,omitempty"`
	Alert          *string     `json:"alert,omitempty"`
	Effect         *string     `json:"effect,omitempty"`
	XY             *[2]float32 `json:"xy,omitempty"`
	CT             *uint16     `json:"ct,omitempty"`
	TransitionTime *uint16     `json:"transitiontime,omitempty"`
}

// inboundState is the wire shape reported by the bridge
type inboundState struct {
	On        *bool       `json:"on"`
	Bri       *uint8      `json:"bri"`
	Hue       *uint16     `json:"hue"`
	Sat       *uint8      `json:"sat"`
	Alert     *string     `json:"alert"`
	Effect    *string     `json:"effect"`
	XY        *[2]float32 `json:"xy"`
	CT        *uint16     `json:"ct"`
	ColorMode *string     `json:"colormode"`
	Mode      *string     `json:"mode"`
	Reachable *bool       `json:"reachable"`
}

// MarshalJSON emits only the writable fields that are set
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(outboundState{
		On:             s.on,
		Bri:            s.bri,
		Hue:            s.hue,
		Sat:            s.sat,
		Alert:          s.alert,
		Effect:         s.effect,
		XY:             s.xy,
		CT:             s.ct,
		TransitionTime: s.transitionTime,
	})
}

// UnmarshalJSON replaces the state with what the bridge reported
func (s *State) UnmarshalJSON(data []byte) error {
	var in inboundState
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = State{
		on:        in.On,
		bri:       in.Bri,
		hue:       in.Hue,
		sat:       in.Sat,
		alert:     in.Alert,
		effect:    in.Effect,
		xy:        in.XY,
		ct:        in.CT,
		colorMode: in.ColorMode,
		mode:      in.Mode,
		reachable: in.Reachable,
	}
	return nil
}

// payload serializes the state for a PUT and clears the transition time
func (s *State) payload() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	s.transitionTime = nil
	return data, nil
}

// Getters (natural defaults when unset)

func (s *State) On() bool { return deref(s.on) }
func (s *State) Bri() uint8 { return deref(s.bri) }
func (s *State) Hue() uint16 { return deref(s.hue) }
func (s *State) Sat() uint8 { return deref(s.sat) }
func (s *State) Alert() string { return deref(s.alert) }
func (s *State) Effect() string { return deref(s.effect) }
func (s *State) XY() [2]float32 { return deref(s.xy) }
func (s *State) CT() uint16 { return deref(s.ct) }
func (s *State) ColorMode() string { return deref(s.colorMode) }
func (s *State) Mode() string { return deref(s.mode) }
func (s *State) Reachable() bool { return deref(s.reachable) }
func (s *State) TransitionTime() uint16 { return deref(s.transitionTime) }

// HasColor reports whether the device reported hue/saturation
func (s *State) HasColor() bool { return s.hue != nil || s.sat != nil || s.xy != nil }

// HasCT reports whether the device reported a colour temperature
func (s *State) HasCT() bool { return s.ct != nil }

// Setters (chainable)

func (s *State) SetOn(on bool) *State {
	s.on = &on
	return s
}

func (s *State) SetBri(bri uint8) *State {
	s.bri = &bri
	return s
}

// SetHue applies only if the device reported a hue
func (s *State) SetHue(hue uint16) *State {
	if s.hue != nil {
		s.hue = &hue
	}
	return s
}

// SetSat applies only if the device reported a saturation
func (s *State) SetSat(sat uint8) *State {
	if s.sat != nil {
		s.sat = &sat
	}
	return s
}

// SetXY applies only if the device reported an xy point
func (s *State) SetXY(xy [2]float32) *State {
	if s.xy != nil {
		s.xy = &xy
	}
	return s
}

// SetCT applies only if the device reported a colour temperature
func (s *State) SetCT(ct uint16) *State {
	if s.ct != nil {
		s.ct = &ct
	}
	return s
}

// SetAlert accepts none, select or lselect; anything else is ignored
func (s *State) SetAlert(alert string) *State {
	if slices.Contains(alertValues, alert) {
		s.alert = &alert
	}
	return s
}

// SetEffect accepts none or colorloop; anything else is ignored
func (s *State) SetEffect(effect string) *State {
	if slices.Contains(effectValues, effect) {
		s.effect = &effect
	}
	return s
}

// SetTransitionTime sets the transition for the next push, in 100ms steps
func (s *State) SetTransitionTime(steps uint16) *State {
	s.transitionTime = &steps
	return s
}

// Snapshot returns every set field, read-only ones included, keyed by wire name
func (s *State) Snapshot() map[string]any {
	m := make(map[string]any)
	if s.on != nil {
		m["on"] = *s.on
	}
	if s.bri != nil {
		m["bri"] = int(*s.bri)
	}
	if s.hue != nil {
		m["hue"] = int(*s.hue)
	}
	if s.sat != nil {
		m["sat"] = int(*s.sat)
	}
	if s.alert != nil {
		m["alert"] = *s.alert
	}
	if s.effect != nil {
		m["effect"] = *s.effect
	}
	if s.xy != nil {
		m["xy"] = []any{float64(s.xy[0]), float64(s.xy[1])}
	}
	if s.ct != nil {
		m["ct"] = int(*s.ct)
	}
	if s.colorMode != nil {
		m["colormode"] = *s.colorMode
	}
	if s.mode != nil {
		m["mode"] = *s.mode
	}
	if s.reachable != nil {
		m["reachable"] = *s.reachable
	}
	if s.transitionTime != nil {
		m["transitiontime"] = int(*s.transitionTime)
	}
	return m
}

// StateBuilder assembles a State from an all-unset default.
// Unlike the setters it populates colour channels directly; alert and effect are still validated.
type StateBuilder struct {
	state State
}

// NewStateBuilder starts from an empty State
func NewStateBuilder() *StateBuilder {
	return &StateBuilder{}
}

func (b *StateBuilder) On(on bool) *StateBuilder {
	b.state.on = &on
	return b
}

func (b *StateBuilder) Bri(bri uint8) *StateBuilder {
	b.state.bri = &bri
	return b
}

func (b *StateBuilder) Hue(hue uint16) *StateBuilder {
	b.state.hue = &hue
	return b
}

func (b *StateBuilder) Sat(sat uint8) *StateBuilder {
	b.state.sat = &sat
	return b
}

func (b *StateBuilder) XY(xy [2]float32) *StateBuilder {
	b.state.xy = &xy
	return b
}

func (b *StateBuilder) CT(ct uint16) *StateBuilder {
	b.state.ct = &ct
	return b
}

func (b *StateBuilder) Alert(alert string) *StateBuilder {
	b.state.SetAlert(alert)
	return b
}

func (b *StateBuilder) Effect(effect string) *StateBuilder {
	b.state.SetEffect(effect)
	return b
}

func (b *StateBuilder) ColorMode(mode string) *StateBuilder {
	b.state.colorMode = &mode
	return b
}

func (b *StateBuilder) Mode(mode string) *StateBuilder {
	b.state.mode = &mode
	return b
}

func (b *StateBuilder) Reachable(reachable bool) *StateBuilder {
	b.state.reachable = &reachable
	return b
}

func (b *StateBuilder) TransitionTime(steps uint16) *StateBuilder {
	b.state.transitionTime = &steps
	return b
}

// Build returns a copy of the assembled State
func (b *StateBuilder) Build() State {
	return b.state
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
