package linuxfb

import (
	"testing"

	"deedles.dev/linuxfb/internal/evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTouch(mt, protoA bool) *touchDriver {
	return &touchDriver{
		dev:    DeviceInfo{Name: "touch"},
		width:  800,
		height: 480,
		xAbs:   evdev.AbsInfo{Minimum: 0, Maximum: 4095},
		yAbs:   evdev.AbsInfo{Minimum: 0, Maximum: 4095},
		mt:     mt,
		protoA: protoA,
	}
}

func abs(code uint16, v int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EvAbs, Code: code, Value: v}
}

func TestTouchSlotLifecycle(t *testing.T) {
	d := testTouch(true, false)

	out := feed(d,
		abs(evdev.AbsMTSlot, 3),
		abs(evdev.AbsMTTrackingID, 42),
		abs(evdev.AbsMTPositionX, 2048),
		abs(evdev.AbsMTPositionY, 1024),
		syn(),

		abs(evdev.AbsMTPositionX, 2148),
		syn(),
		abs(evdev.AbsMTPositionY, 1124),
		syn(),

		abs(evdev.AbsMTTrackingID, -1),
		syn(),
	)

	var downs, moves, ups int
	var phases []TouchPhase
	for _, ev := range out {
		tc, ok := ev.(TouchChange)
		require.True(t, ok)
		require.Equal(t, int32(3), tc.Slot)
		phases = append(phases, tc.Phase)
		switch tc.Phase {
		case TouchDown:
			downs++
		case TouchMove:
			moves++
		case TouchUp:
			ups++
		}
	}

	assert.Equal(t, 1, downs, "exactly one down per contact")
	assert.Equal(t, 2, moves)
	assert.Equal(t, 1, ups, "exactly one up per contact")
	assert.Equal(t, TouchDown, phases[0])
	assert.Equal(t, TouchUp, phases[len(phases)-1])
}

func TestTouchOrphanLiftIgnored(t *testing.T) {
	d := testTouch(true, false)

	out := feed(d,
		abs(evdev.AbsMTSlot, 2),
		abs(evdev.AbsMTTrackingID, -1),
		syn(),
	)
	assert.Empty(t, out, "a lift with no prior down is a protocol artifact")
}

func TestTouchScalesToSurface(t *testing.T) {
	d := testTouch(true, false)

	out := feed(d,
		abs(evdev.AbsMTSlot, 0),
		abs(evdev.AbsMTTrackingID, 7),
		abs(evdev.AbsMTPositionX, 4095),
		abs(evdev.AbsMTPositionY, 0),
		syn(),
	)
	require.Len(t, out, 1)
	tc := out[0].(TouchChange)
	assert.Equal(t, int32(799), tc.X)
	assert.Equal(t, int32(0), tc.Y)
}

func TestTouchConcurrentSlots(t *testing.T) {
	d := testTouch(true, false)

	out := feed(d,
		abs(evdev.AbsMTSlot, 0),
		abs(evdev.AbsMTTrackingID, 1),
		abs(evdev.AbsMTPositionX, 100),
		abs(evdev.AbsMTPositionY, 100),
		abs(evdev.AbsMTSlot, 1),
		abs(evdev.AbsMTTrackingID, 2),
		abs(evdev.AbsMTPositionX, 3000),
		abs(evdev.AbsMTPositionY, 3000),
		syn(),

		abs(evdev.AbsMTSlot, 0),
		abs(evdev.AbsMTTrackingID, -1),
		syn(),
	)

	require.Len(t, out, 3)
	assert.Equal(t, TouchDown, out[0].(TouchChange).Phase)
	assert.Equal(t, int32(0), out[0].(TouchChange).Slot)
	assert.Equal(t, TouchDown, out[1].(TouchChange).Phase)
	assert.Equal(t, int32(1), out[1].(TouchChange).Slot, "both contacts go down in slot order")

	up := out[2].(TouchChange)
	assert.Equal(t, TouchUp, up.Phase)
	assert.Equal(t, int32(0), up.Slot, "lifting one contact must not disturb the other")
}

func TestTouchSlotlessFrames(t *testing.T) {
	d := testTouch(true, true)

	mtReport := evdev.InputEvent{Type: evdev.EvSyn, Code: evdev.SynMTReport}

	out := feed(d,
		abs(evdev.AbsMTPositionX, 2048),
		abs(evdev.AbsMTPositionY, 2048),
		mtReport,
		syn(),

		abs(evdev.AbsMTPositionX, 2100),
		abs(evdev.AbsMTPositionY, 2100),
		mtReport,
		syn(),

		// Empty frame: the contact lifted.
		syn(),
	)

	require.Len(t, out, 3)
	assert.Equal(t, TouchDown, out[0].(TouchChange).Phase)
	assert.Equal(t, TouchMove, out[1].(TouchChange).Phase)
	assert.Equal(t, TouchUp, out[2].(TouchChange).Phase)
	for _, ev := range out {
		assert.Equal(t, int32(0), ev.(TouchChange).Slot)
	}
}

func TestTouchSingleTouchDevice(t *testing.T) {
	d := testTouch(false, false)

	out := feed(d,
		evdev.InputEvent{Type: evdev.EvKey, Code: evdev.BtnTouch, Value: evdev.ValuePress},
		abs(evdev.AbsX, 1000),
		abs(evdev.AbsY, 2000),
		syn(),

		abs(evdev.AbsX, 1100),
		syn(),

		evdev.InputEvent{Type: evdev.EvKey, Code: evdev.BtnTouch, Value: evdev.ValueRelease},
		syn(),
	)

	require.Len(t, out, 3)
	assert.Equal(t, TouchDown, out[0].(TouchChange).Phase)
	assert.Equal(t, TouchMove, out[1].(TouchChange).Phase)
	assert.Equal(t, TouchUp, out[2].(TouchChange).Phase)
}

func TestScaleAxis(t *testing.T) {
	info := evdev.AbsInfo{Minimum: -100, Maximum: 100}

	assert.Equal(t, int32(0), scaleAxis(-100, info, 800))
	assert.Equal(t, int32(799), scaleAxis(100, info, 800))
	assert.Equal(t, int32(799), scaleAxis(1000, info, 800), "out of range input clamps")

	// A degenerate range falls back to clamping the raw value.
	assert.Equal(t, int32(50), scaleAxis(50, evdev.AbsInfo{}, 800))
	assert.Equal(t, int32(799), scaleAxis(5000, evdev.AbsInfo{}, 800))
}
