package maple

import (
	"strconv"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// JoystickBinding resolves one Controller button/axis to a physical SDL
// joystick input, parsed from a config key of the form
// "dc.ctrl.p<port>_<unit>.<button> js<index>.button<n>" or
// "...axis<n>", matching the binding grammar SPEC_FULL.md's config-store
// expansion names. Only the joystick/event subsystem is touched here --
// never go-sdl2's renderer or window, which stay out of this core's
// scope.
type JoystickBinding struct {
	JoystickIndex int
	IsAxis        bool
	Index         int
}

// parseBinding parses a binding value like "js0.button3" or "js1.axis0".
func parseBinding(v string) (JoystickBinding, bool) {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "js") {
		return JoystickBinding{}, false
	}
	dot := strings.IndexByte(v, '.')
	if dot < 0 {
		return JoystickBinding{}, false
	}
	jsIdx, err := strconv.Atoi(v[2:dot])
	if err != nil {
		return JoystickBinding{}, false
	}
	rest := v[dot+1:]
	switch {
	case strings.HasPrefix(rest, "button"):
		n, err := strconv.Atoi(strings.TrimPrefix(rest, "button"))
		if err != nil {
			return JoystickBinding{}, false
		}
		return JoystickBinding{JoystickIndex: jsIdx, Index: n}, true
	case strings.HasPrefix(rest, "axis"):
		n, err := strconv.Atoi(strings.TrimPrefix(rest, "axis"))
		if err != nil {
			return JoystickBinding{}, false
		}
		return JoystickBinding{JoystickIndex: jsIdx, IsAxis: true, Index: n}, true
	}
	return JoystickBinding{}, false
}

// buttonBit maps a Dreamcast controller button name to its bit position
// in Controller.Buttons (active-low, matching real hardware).
var buttonBit = map[string]uint16{
	"a": 1 << 2, "b": 1 << 1, "x": 1 << 10, "y": 1 << 9,
	"start": 1 << 3, "up": 1 << 4, "down": 1 << 5, "left": 1 << 6, "right": 1 << 7,
}

// JoystickSource polls SDL joysticks and drives one Controller's live
// state from config-file bindings, per the "dc.ctrl.p<port>_<unit>.*"
// key space.
type JoystickSource struct {
	ctrl     *Controller
	bindings map[string]JoystickBinding // button/axis name -> binding
	sticks   map[int]*sdl.Joystick
}

// NewJoystickSource opens every SDL joystick referenced by section
// (as returned by config.Store.Section("dc.ctrl.p0_0")) and returns a
// source driving ctrl.
func NewJoystickSource(ctrl *Controller, section map[string]string) (*JoystickSource, error) {
	if err := sdl.InitSubSystem(sdl.INIT_JOYSTICK); err != nil {
		return nil, err
	}
	js := &JoystickSource{ctrl: ctrl, bindings: make(map[string]JoystickBinding), sticks: make(map[int]*sdl.Joystick)}
	for name, v := range section {
		b, ok := parseBinding(v)
		if !ok {
			continue
		}
		js.bindings[name] = b
		if _, opened := js.sticks[b.JoystickIndex]; !opened {
			if b.JoystickIndex < sdl.NumJoysticks() {
				js.sticks[b.JoystickIndex] = sdl.JoystickOpen(b.JoystickIndex)
			}
		}
	}
	return js, nil
}

// Poll re-reads every bound joystick input and updates the Controller's
// live button/axis state. Call once per frame.
func (j *JoystickSource) Poll() {
	sdl.JoystickUpdate()
	for name, b := range j.bindings {
		stick, ok := j.sticks[b.JoystickIndex]
		if !ok || stick == nil {
			continue
		}
		if b.IsAxis {
			v := stick.Axis(int(b.Index))
			switch name {
			case "stickx":
				j.ctrl.StickX = uint8((int32(v) + 32768) >> 8)
			case "sticky":
				j.ctrl.StickY = uint8((int32(v) + 32768) >> 8)
			case "ltrigger":
				j.ctrl.LTrigger = uint8((int32(v) + 32768) >> 8)
			case "rtrigger":
				j.ctrl.RTrigger = uint8((int32(v) + 32768) >> 8)
			}
			continue
		}
		bit, known := buttonBit[name]
		if !known {
			continue
		}
		if stick.Button(uint8(b.Index)) != 0 {
			j.ctrl.Buttons &^= bit // active-low: pressed clears the bit
		} else {
			j.ctrl.Buttons |= bit
		}
	}
}

// Close releases every joystick this source opened.
func (j *JoystickSource) Close() {
	for _, s := range j.sticks {
		if s != nil {
			s.Close()
		}
	}
}
