package grid

import (
	"encoding/json"
	"strings"
)

// Cell represents the occupancy state of one grid position.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellOccupied
	CellSquare
	CellVerticalRect
	CellHorizontalRect
	CellBigSquare
)

// Kind tags a widget variant. The string value is the wire-level "type" field.
type Kind string

const (
	KindButton         Kind = "button"
	KindSlider         Kind = "slider"
	KindCircularSlider Kind = "circular_slider"
	KindActions        Kind = "actions"
	KindButtonsSlider  Kind = "buttons_slider"
	KindSwitch         Kind = "switch"
)

// Widget is one interactive element of a player's grid.
//
// Min, Max and Value are meaningful for slider-like kinds only; Toggled for
// switches; Actions for action menus. Extra carries arbitrary additional
// key-value pairs that are merged into the serialized form (core keys win on
// conflict).
type Widget struct {
	Kind    Kind
	Name    string
	X, Y    int
	W, H    int
	Min     int
	Max     int
	Value   int
	Toggled bool
	Actions []string
	Extra   map[string]any
}

// CommandName returns the widget's unique name. It allows a Widget to stand
// in wherever an instruction target is expected.
func (w *Widget) CommandName() string {
	return w.Name
}

// SliderLike reports whether the widget carries an integer value in [Min, Max].
func (w *Widget) SliderLike() bool {
	switch w.Kind {
	case KindSlider, KindCircularSlider, KindButtonsSlider:
		return true
	}
	return false
}

// HasAction reports whether action is one of the widget's actions,
// compared case-insensitively.
func (w *Widget) HasAction(action string) bool {
	for _, a := range w.Actions {
		if strings.EqualFold(a, action) {
			return true
		}
	}
	return false
}

// ValidValue reports whether v is an acceptable manipulation value for this
// widget: nil for buttons, an in-range int for slider-likes, a known action
// string for action menus, a bool for switches.
func (w *Widget) ValidValue(v any) bool {
	switch w.Kind {
	case KindButton:
		return v == nil
	case KindSlider, KindCircularSlider, KindButtonsSlider:
		i, ok := v.(int)
		return ok && i >= w.Min && i <= w.Max
	case KindActions:
		s, ok := v.(string)
		return ok && w.HasAction(s)
	case KindSwitch:
		_, ok := v.(bool)
		return ok
	}
	return false
}

// ApplyValue records the observed manipulation on the widget. The value must
// have been checked with ValidValue first; values of the wrong type are
// ignored.
func (w *Widget) ApplyValue(v any) {
	switch w.Kind {
	case KindSlider, KindCircularSlider, KindButtonsSlider:
		if i, ok := v.(int); ok {
			w.Value = i
		}
	case KindSwitch:
		if b, ok := v.(bool); ok {
			w.Toggled = b
		}
	}
}

// MarshalJSON serializes the widget as a flat object: position, size, name
// and type, plus kind-specific fields, with Extra merged in underneath the
// core keys.
func (w *Widget) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 8+len(w.Extra))
	for k, v := range w.Extra {
		out[k] = v
	}
	out["x"] = w.X
	out["y"] = w.Y
	out["w"] = w.W
	out["h"] = w.H
	out["name"] = w.Name
	out["type"] = string(w.Kind)

	switch w.Kind {
	case KindSlider, KindCircularSlider, KindButtonsSlider:
		out["min"] = w.Min
		out["max"] = w.Max
	case KindActions:
		out["actions"] = w.Actions
	case KindSwitch:
		out["toggled"] = w.Toggled
	}
	return json.Marshal(out)
}
