package linuxfb

import (
	"time"

	"deedles.dev/linuxfb/internal/evdev"
)

// pointerDriver tracks a relative-motion device. Motion deltas
// accumulate between sync markers and flush as a single clamped
// absolute position per sync; button transitions are emitted
// immediately, not batched with motion.
type pointerDriver struct {
	dev           DeviceInfo
	width, height int32

	x, y     int32
	dx, dy   int32
	sx, sy   int32
	moved    bool
	scrolled bool
}

func newPointerDriver(info DeviceInfo, width, height uint32) *pointerDriver {
	return &pointerDriver{
		dev:    info,
		width:  int32(width),
		height: int32(height),
		x:      int32(width) / 2,
		y:      int32(height) / 2,
	}
}

func (p *pointerDriver) describe() DeviceInfo { return p.dev }

func (p *pointerDriver) handle(ev evdev.InputEvent, now time.Time, emit func(Event)) {
	switch ev.Type {
	case evdev.EvRel:
		switch ev.Code {
		case evdev.RelX:
			p.dx += ev.Value
			p.moved = true
		case evdev.RelY:
			p.dy += ev.Value
			p.moved = true
		case evdev.RelWheel:
			p.sy += ev.Value
			p.scrolled = true
		case evdev.RelHWheel:
			p.sx += ev.Value
			p.scrolled = true
		}

	case evdev.EvKey:
		btn, ok := pointerButton(ev.Code)
		if !ok {
			return
		}
		emit(ButtonChange{Time: now, Button: btn, Pressed: ev.Value != evdev.ValueRelease})

	case evdev.EvSyn:
		if ev.Code != evdev.SynReport {
			return
		}
		if p.moved {
			p.x = clamp(p.x+p.dx, 0, p.width-1)
			p.y = clamp(p.y+p.dy, 0, p.height-1)
			p.dx, p.dy = 0, 0
			p.moved = false
			emit(PointerAbsolute{Time: now, X: p.x, Y: p.y})
		}
		if p.scrolled {
			sx, sy := p.sx, p.sy
			p.sx, p.sy = 0, 0
			p.scrolled = false
			emit(PointerScroll{Time: now, DX: sx, DY: sy})
		}
	}
}

func pointerButton(code uint16) (Button, bool) {
	switch code {
	case evdev.BtnLeft:
		return ButtonLeft, true
	case evdev.BtnRight:
		return ButtonRight, true
	case evdev.BtnMiddle:
		return ButtonMiddle, true
	case evdev.BtnSide:
		return ButtonBack, true
	case evdev.BtnExtra:
		return ButtonForward, true
	default:
		return 0, false
	}
}

func clamp(v, lo, hi int32) int32 {
	return min(max(v, lo), hi)
}
