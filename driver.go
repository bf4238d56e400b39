package linuxfb

import (
	"fmt"
	"time"

	"deedles.dev/linuxfb/internal/evdev"
	"deedles.dev/linuxfb/internal/keymap"
)

// A driver is a per-device state machine translating one device's raw
// protocol into normalized events. The set of implementations is
// closed: touchDriver, pointerDriver, and keyboardDriver.
type driver interface {
	describe() DeviceInfo
	handle(ev evdev.InputEvent, now time.Time, emit func(Event))
}

// newDriver picks the driver kind for a classified device. A device
// advertising several capabilities gets exactly one driver; touch
// wins over pointer wins over keyboard.
func newDriver(d *evdev.Device, info DeviceInfo, width, height uint32, km *keymap.Map) (driver, error) {
	switch {
	case info.Caps.Has(CapTouch):
		return newTouchDriver(d, info, width, height)
	case info.Caps.Has(CapPointer):
		return newPointerDriver(info, width, height), nil
	case info.Caps.Has(CapKey):
		return &keyboardDriver{dev: info, km: km}, nil
	default:
		return nil, fmt.Errorf("device %q has no usable capability", info.Name)
	}
}
