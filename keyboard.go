package linuxfb

import (
	"time"

	"deedles.dev/linuxfb/internal/evdev"
	"deedles.dev/linuxfb/internal/keymap"
)

// keyResolver is the part of the keymap a keyboard consults.
type keyResolver interface {
	Resolve(code uint16, pressed bool) keymap.Key
}

// keyboardDriver resolves raw key codes against the active layout.
// The keymap is resolved once at attach time and shared by every
// keyboard; layout hot-swap is not supported.
type keyboardDriver struct {
	dev DeviceInfo
	km  keyResolver
}

func (k *keyboardDriver) describe() DeviceInfo { return k.dev }

func (k *keyboardDriver) handle(ev evdev.InputEvent, now time.Time, emit func(Event)) {
	if ev.Type != evdev.EvKey || evdev.IsButton(ev.Code) {
		return
	}

	pressed := ev.Value != evdev.ValueRelease
	key := k.km.Resolve(ev.Code, pressed)

	emit(KeyChange{
		Time:    now,
		Code:    ev.Code,
		Sym:     KeySym(key.Sym),
		Text:    key.Text,
		Pressed: pressed,
		Repeat:  ev.Value == evdev.ValueRepeat,
	})
}
