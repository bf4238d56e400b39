package linuxfb

import (
	"fmt"
	"time"

	"deedles.dev/linuxfb/internal/evdev"
)

const maxTouchSlots = 10

type touchSlot struct {
	x, y    int32 // raw device coordinates
	present bool  // contact currently reported by the device
	down    bool  // TouchDown delivered, TouchUp still owed
	dirty   bool  // coordinates changed since the last sync
}

// touchDriver tracks concurrent contacts and scales their raw
// coordinates into surface pixels. It speaks three dialects: slot-based
// multitouch, slotless multitouch where contacts are matched to slots
// by their report order within a frame, and single-touch devices that
// report one absolute position gated by a touch button.
type touchDriver struct {
	dev           DeviceInfo
	width, height int32
	xAbs, yAbs    evdev.AbsInfo

	mt     bool // device reports multitouch axes
	protoA bool // multitouch without slot assignment

	slots [maxTouchSlots]touchSlot
	cur   int32 // active slot, or report index within a protocol A frame

	// pending contact coordinates for protocol A, flushed at each
	// contact separator
	px, py   int32
	pendingA bool
}

func newTouchDriver(d *evdev.Device, info DeviceInfo, width, height uint32) (*touchDriver, error) {
	t := touchDriver{
		dev:    info,
		width:  int32(width),
		height: int32(height),
		mt:     d.HasEventCode(evdev.EvAbs, evdev.AbsMTPositionX),
	}

	xc, yc := uint16(evdev.AbsX), uint16(evdev.AbsY)
	if t.mt {
		xc, yc = evdev.AbsMTPositionX, evdev.AbsMTPositionY
		t.protoA = !d.HasEventCode(evdev.EvAbs, evdev.AbsMTSlot)
	}

	var err error
	t.xAbs, err = d.AbsInfo(xc)
	if err != nil {
		return nil, fmt.Errorf("%w: query x axis range of %q: %w", ErrUnsupportedDevice, info.Name, err)
	}
	t.yAbs, err = d.AbsInfo(yc)
	if err != nil {
		return nil, fmt.Errorf("%w: query y axis range of %q: %w", ErrUnsupportedDevice, info.Name, err)
	}

	return &t, nil
}

func (t *touchDriver) describe() DeviceInfo { return t.dev }

func (t *touchDriver) handle(ev evdev.InputEvent, now time.Time, emit func(Event)) {
	switch ev.Type {
	case evdev.EvAbs:
		t.handleAbs(ev)

	case evdev.EvKey:
		// Single-touch devices gate contact on the touch button.
		if !t.mt && (ev.Code == evdev.BtnTouch || ev.Code == evdev.BtnToolFinger) {
			t.slots[0].present = ev.Value != evdev.ValueRelease
		}

	case evdev.EvSyn:
		switch ev.Code {
		case evdev.SynMTReport:
			t.endContactA()
		case evdev.SynReport:
			t.sync(now, emit)
		}
	}
}

func (t *touchDriver) handleAbs(ev evdev.InputEvent) {
	switch ev.Code {
	case evdev.AbsMTSlot:
		if ev.Value >= 0 && ev.Value < maxTouchSlots {
			t.cur = ev.Value
		}

	case evdev.AbsMTTrackingID:
		if t.protoA {
			return
		}
		t.slots[t.cur].present = ev.Value >= 0

	case evdev.AbsMTPositionX:
		if t.protoA {
			t.px, t.pendingA = ev.Value, true
			return
		}
		s := &t.slots[t.cur]
		s.x, s.dirty = ev.Value, true

	case evdev.AbsMTPositionY:
		if t.protoA {
			t.py, t.pendingA = ev.Value, true
			return
		}
		s := &t.slots[t.cur]
		s.y, s.dirty = ev.Value, true

	case evdev.AbsX:
		if !t.mt {
			s := &t.slots[0]
			s.x, s.dirty = ev.Value, true
		}

	case evdev.AbsY:
		if !t.mt {
			s := &t.slots[0]
			s.y, s.dirty = ev.Value, true
		}
	}
}

// endContactA closes one contact within a slotless multitouch frame.
// Contacts are assigned slots in report order, which is the best
// identity the dialect offers.
func (t *touchDriver) endContactA() {
	if int(t.cur) >= maxTouchSlots {
		return
	}
	if t.pendingA {
		s := &t.slots[t.cur]
		s.x, s.y = t.px, t.py
		s.present, s.dirty = true, true
		t.pendingA = false
	}
	t.cur++
}

// sync sweeps the slot table at a frame boundary and emits one
// transition per changed contact. A lift for a contact that never went
// down is a protocol artifact and produces nothing.
func (t *touchDriver) sync(now time.Time, emit func(Event)) {
	for i := range t.slots {
		s := &t.slots[i]
		x := scaleAxis(s.x, t.xAbs, t.width)
		y := scaleAxis(s.y, t.yAbs, t.height)

		switch {
		case s.present && !s.down:
			s.down = true
			emit(TouchChange{Time: now, Slot: int32(i), X: x, Y: y, Phase: TouchDown})
		case s.present && s.dirty:
			emit(TouchChange{Time: now, Slot: int32(i), X: x, Y: y, Phase: TouchMove})
		case !s.present && s.down:
			s.down = false
			emit(TouchChange{Time: now, Slot: int32(i), X: x, Y: y, Phase: TouchUp})
		}
		s.dirty = false

		if t.protoA {
			// Presence is per-frame in this dialect; a contact missing
			// from the next frame has lifted.
			s.present = false
		}
	}

	if t.protoA {
		t.cur = 0
		t.pendingA = false
	}
}

// scaleAxis maps a raw axis value into [0, size) using the device's
// reported range.
func scaleAxis(v int32, info evdev.AbsInfo, size int32) int32 {
	if info.Maximum <= info.Minimum {
		return clamp(v, 0, size-1)
	}
	v = clamp(v, info.Minimum, info.Maximum)
	span := int64(info.Maximum) - int64(info.Minimum)
	return int32(int64(v-info.Minimum) * int64(size-1) / span)
}
