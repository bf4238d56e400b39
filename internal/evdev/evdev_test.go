package evdev

import (
	"testing"
	"unsafe"
)

// Expected values are from <linux/input.h> on a 64-bit system.
func TestIoctlNumbers(t *testing.T) {
	tests := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"EVIOCGVERSION", eviocgversion, 0x80044501},
		{"EVIOCGID", eviocgid, 0x80084502},
		{"EVIOCGNAME(256)", eviocgname(256), 0x81004506},
		{"EVIOCGUNIQ(64)", eviocguniq(64), 0x80404508},
		{"EVIOCGBIT(0, 4)", eviocgbit(0, 4), 0x80044520},
		{"EVIOCGBIT(EV_ABS, 8)", eviocgbit(uintptr(EvAbs), 8), 0x80084523},
		{"EVIOCGABS(ABS_MT_POSITION_X)", eviocgabs(uintptr(AbsMTPositionX)), 0x80184575},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%v = %#x, want %#x", tt.name, tt.got, tt.want)
		}
	}
}

func TestEventSize(t *testing.T) {
	if EventSize != 24 {
		t.Errorf("EventSize = %v, want 24", EventSize)
	}
	if unsafe.Sizeof(AbsInfo{}) != 24 {
		t.Errorf("sizeof AbsInfo = %v, want 24", unsafe.Sizeof(AbsInfo{}))
	}
}

func TestIsBitSet(t *testing.T) {
	bits := []byte{0b0000_0010, 0b1000_0000}
	if !isBitSet(bits, 1) {
		t.Error("bit 1 should be set")
	}
	if !isBitSet(bits, 15) {
		t.Error("bit 15 should be set")
	}
	if isBitSet(bits, 0) {
		t.Error("bit 0 should not be set")
	}
	if isBitSet(bits, 300) {
		t.Error("out of range bit should not be set")
	}
}

func TestFromNTString(t *testing.T) {
	if got := fromNTString([]byte("Goodix\x00garbage")); got != "Goodix" {
		t.Errorf("fromNTString = %q, want %q", got, "Goodix")
	}
	if got := fromNTString([]byte("abc")); got != "abc" {
		t.Errorf("fromNTString = %q, want %q", got, "abc")
	}
}

func TestInputEventIs(t *testing.T) {
	ev := InputEvent{Type: EvKey, Code: BtnTouch, Value: 1}
	if !ev.Is(EvKey, BtnTouch) {
		t.Error("Is(EvKey, BtnTouch) = false")
	}
	if ev.Is(EvKey, BtnLeft) {
		t.Error("Is(EvKey, BtnLeft) = true")
	}
	if ev.Is(EvAbs, BtnTouch) {
		t.Error("Is(EvAbs, BtnTouch) = true")
	}
}
