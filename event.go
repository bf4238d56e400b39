package linuxfb

import "time"

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
	ButtonBack
	ButtonForward
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonMiddle:
		return "middle"
	case ButtonBack:
		return "back"
	case ButtonForward:
		return "forward"
	default:
		return "unknown"
	}
}

// TouchPhase is the stage of a single contact's lifetime.
type TouchPhase int

const (
	TouchDown TouchPhase = iota
	TouchMove
	TouchUp
)

func (p TouchPhase) String() string {
	switch p {
	case TouchDown:
		return "down"
	case TouchMove:
		return "move"
	case TouchUp:
		return "up"
	default:
		return "unknown"
	}
}

// KeySym is an XKB keysym value.
type KeySym uint32

// Capability describes the kinds of input a device can produce.
type Capability uint8

const (
	CapPointer Capability = 1 << iota
	CapTouch
	CapKey
)

// Has reports whether c includes all of want.
func (c Capability) Has(want Capability) bool { return c&want == want }

func (c Capability) String() string {
	var s []byte
	if c.Has(CapTouch) {
		s = append(s, 't')
	}
	if c.Has(CapPointer) {
		s = append(s, 'p')
	}
	if c.Has(CapKey) {
		s = append(s, 'k')
	}
	if len(s) == 0 {
		return "none"
	}
	return string(s)
}

// DeviceID identifies an input device independently of its node path,
// which may be renumbered across hot-plug cycles.
type DeviceID string

// DeviceInfo describes an attached input device.
type DeviceInfo struct {
	ID   DeviceID
	Path string
	Name string
	Caps Capability
}

// Event is a normalized input or lifecycle event. The concrete set of
// implementations is fixed: PointerAbsolute, PointerScroll,
// ButtonChange, TouchChange, KeyChange, DeviceAdded, and
// DeviceRemoved.
type Event interface {
	// When is the monotonic time the event was decoded.
	When() time.Time

	event()
}

// PointerAbsolute is the pointer position after applying accumulated
// relative motion, clamped to the surface.
type PointerAbsolute struct {
	Time time.Time
	X, Y int32
}

// PointerScroll is accumulated wheel motion. Positive Y scrolls up,
// positive X scrolls right.
type PointerScroll struct {
	Time   time.Time
	DX, DY int32
}

// ButtonChange is a pointer button press or release.
type ButtonChange struct {
	Time    time.Time
	Button  Button
	Pressed bool
}

// TouchChange is a single contact transition in surface coordinates.
type TouchChange struct {
	Time  time.Time
	Slot  int32
	X, Y  int32
	Phase TouchPhase
}

// KeyChange is a key press, release, or autorepeat. Code is the raw
// evdev key code; Sym and Text are resolved against the active layout
// so that consumers may apply their own remapping from either.
type KeyChange struct {
	Time    time.Time
	Code    uint16
	Sym     KeySym
	Text    string
	Pressed bool
	Repeat  bool
}

// DeviceAdded reports a newly attached input device.
type DeviceAdded struct {
	Time   time.Time
	Device DeviceInfo
}

// DeviceRemoved reports device detach. All events the device produced
// before removal have already been delivered when this appears.
type DeviceRemoved struct {
	Time time.Time
	ID   DeviceID
}

func (e PointerAbsolute) When() time.Time { return e.Time }
func (e PointerScroll) When() time.Time   { return e.Time }
func (e ButtonChange) When() time.Time    { return e.Time }
func (e TouchChange) When() time.Time     { return e.Time }
func (e KeyChange) When() time.Time       { return e.Time }
func (e DeviceAdded) When() time.Time     { return e.Time }
func (e DeviceRemoved) When() time.Time   { return e.Time }

func (PointerAbsolute) event() {}
func (PointerScroll) event()   {}
func (ButtonChange) event()    {}
func (TouchChange) event()     {}
func (KeyChange) event()       {}
func (DeviceAdded) event()     {}
func (DeviceRemoved) event()   {}
