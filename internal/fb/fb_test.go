package fb

import (
	"strings"
	"testing"
	"unsafe"
)

// The struct layouts must match <linux/fb.h> exactly or every ioctl
// will corrupt memory.
func TestScreeninfoSizes(t *testing.T) {
	if got := unsafe.Sizeof(VarScreeninfo{}); got != 160 {
		t.Errorf("sizeof fb_var_screeninfo = %v, want 160", got)
	}
	if got := unsafe.Sizeof(Bitfield{}); got != 12 {
		t.Errorf("sizeof fb_bitfield = %v, want 12", got)
	}
}

func TestCheckPan(t *testing.T) {
	vinfo := VarScreeninfo{
		XRes: 800, YRes: 480,
		XResVirtual: 800, YResVirtual: 960,
	}

	if err := checkPan(0, 0, &vinfo); err != nil {
		t.Errorf("pan to origin: %v", err)
	}
	if err := checkPan(0, 480, &vinfo); err != nil {
		t.Errorf("pan to second half: %v", err)
	}
	if err := checkPan(0, 481, &vinfo); err == nil {
		t.Error("pan past virtual height should fail")
	}
	if err := checkPan(1, 0, &vinfo); err == nil {
		t.Error("pan past virtual width should fail")
	}
}

func TestMappingChanged(t *testing.T) {
	base := VarScreeninfo{
		XRes: 800, YRes: 480,
		XResVirtual: 800, YResVirtual: 960,
		BitsPerPixel: 32,
	}

	kept := base
	if mappingChanged(&base, &kept) {
		t.Error("a put the driver ignored must keep the mapping")
	}

	panned := base
	panned.YOffset = 480
	if mappingChanged(&base, &panned) {
		t.Error("panning offsets must not invalidate the mapping")
	}

	depth := base
	depth.BitsPerPixel = 16
	if !mappingChanged(&base, &depth) {
		t.Error("a depth change must invalidate the mapping")
	}

	virt := base
	virt.YResVirtual = 480
	if !mappingChanged(&base, &virt) {
		t.Error("a virtual size change must invalidate the mapping")
	}
}

func TestFlipStateAlternates(t *testing.T) {
	s := flipState{drawFirst: false, height: 480}

	first := s.advance()
	second := s.advance()
	if first == second {
		t.Fatalf("consecutive flips panned to the same offset %v", first)
	}

	// Two more flips must return to the same pair of offsets.
	if got := s.advance(); got != first {
		t.Errorf("third flip panned to %v, want %v", got, first)
	}
	if got := s.advance(); got != second {
		t.Errorf("fourth flip panned to %v, want %v", got, second)
	}
}

func TestFlipStateBackNeverVisible(t *testing.T) {
	const page = 800 * 480 * 4
	s := flipState{drawFirst: true, height: 480}

	for i := 0; i < 8; i++ {
		start, end := s.back(page)
		visible := s.advance()

		// The half just drawn is the one that becomes visible.
		switch visible {
		case 0:
			if start != 0 || end != page {
				t.Fatalf("panned to first half but drew [%v, %v)", start, end)
			}
		case 480:
			if start != page || end != 2*page {
				t.Fatalf("panned to second half but drew [%v, %v)", start, end)
			}
		default:
			t.Fatalf("unexpected pan offset %v", visible)
		}
	}
}

func TestParseProcDevices(t *testing.T) {
	const input = `Character devices:
  1 mem
  4 tty
 29 fb
249 rtc

Block devices:
  7 loop
  9 md
`
	devices, err := parseProcDevices(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	want := []procDevice{
		{charDevice, 1, "mem"},
		{charDevice, 4, "tty"},
		{charDevice, 29, "fb"},
		{charDevice, 249, "rtc"},
		{blockDevice, 7, "loop"},
		{blockDevice, 9, "md"},
	}
	if len(devices) != len(want) {
		t.Fatalf("got %v devices, want %v", len(devices), len(want))
	}
	for i, d := range devices {
		if d != want[i] {
			t.Errorf("device %v = %+v, want %+v", i, d, want[i])
		}
	}
}
