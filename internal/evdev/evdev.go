// Package evdev provides direct access to Linux evdev input devices.
//
// Devices are opened nonblocking so that a single poll(2) loop can
// multiplex any number of them; Read never blocks.
package evdev

import (
	"fmt"
	"io/fs"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Device is an open evdev device node.
type Device struct {
	fd   int
	path string

	Name string
	ID   InputID
	Uniq string

	bits                                                                 []byte
	bitsREL, bitsABS, bitsLED, bitsKEY, bitsSW, bitsMSC, bitsFF, bitsSND []byte
}

// Open opens the device node at path read-only and nonblocking and
// queries its identity and capability bitmaps.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}

	d := Device{fd: fd, path: path}
	if err := d.init(); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return &d, nil
}

func (d *Device) init() error {
	var name [256]byte
	err := ioctl(uintptr(d.fd), eviocgname(uintptr(len(name))), &name[0])
	if err != nil {
		return fmt.Errorf("get device name: %w", err)
	}
	d.Name = fromNTString(name[:])

	err = ioctl(uintptr(d.fd), eviocgid, &d.ID)
	if err != nil {
		return fmt.Errorf("get device id: %w", err)
	}

	// EVIOCGUNIQ fails on devices with no unique identifier. That is
	// not an error; the identity falls back to the id and name.
	var uniq [64]byte
	if err := ioctl(uintptr(d.fd), eviocguniq(uintptr(len(uniq))), &uniq[0]); err == nil {
		d.Uniq = fromNTString(uniq[:])
	}

	var bits [(evCount + 7) / 8]byte
	err = ioctl(uintptr(d.fd), eviocgbit(0, uintptr(len(bits))), &bits[0])
	if err != nil {
		return fmt.Errorf("get device capabilities: %w", err)
	}
	d.bits = bits[:]

	for _, q := range []struct {
		ev    uint16
		count int
		dst   *[]byte
	}{
		{EvRel, relCount, &d.bitsREL},
		{EvAbs, absCount, &d.bitsABS},
		{EvLed, ledCount, &d.bitsLED},
		{EvKey, keyCount, &d.bitsKEY},
		{EvSw, swCount, &d.bitsSW},
		{EvMsc, mscCount, &d.bitsMSC},
		{EvFf, ffCount, &d.bitsFF},
		{EvSnd, sndCount, &d.bitsSND},
	} {
		if !d.HasEventType(q.ev) {
			continue
		}
		buf := make([]byte, (q.count+7)/8)
		err := ioctl(uintptr(d.fd), eviocgbit(uintptr(q.ev), uintptr(len(buf))), &buf[0])
		if err != nil {
			return fmt.Errorf("get type %#x bits: %w", q.ev, err)
		}
		*q.dst = buf
	}

	return nil
}

// Fd returns the raw descriptor, for registration with poll(2).
func (d *Device) Fd() int {
	return d.fd
}

// Path returns the device node path the device was opened from.
func (d *Device) Path() string {
	return d.path
}

func (d *Device) Close() error {
	return unix.Close(d.fd)
}

func (d *Device) typeCodes(t uint16) []byte {
	switch t {
	case EvKey:
		return d.bitsKEY
	case EvRel:
		return d.bitsREL
	case EvAbs:
		return d.bitsABS
	case EvMsc:
		return d.bitsMSC
	case EvSw:
		return d.bitsSW
	case EvLed:
		return d.bitsLED
	case EvSnd:
		return d.bitsSND
	case EvFf:
		return d.bitsFF
	default:
		return nil
	}
}

func (d *Device) HasEventType(t uint16) bool {
	return isBitSet(d.bits, t)
}

func (d *Device) HasEventCode(t, code uint16) bool {
	return d.HasEventType(t) && isBitSet(d.typeCodes(t), code)
}

// AbsInfo queries the range of an absolute axis.
func (d *Device) AbsInfo(code uint16) (AbsInfo, error) {
	var info AbsInfo
	err := ioctl(uintptr(d.fd), eviocgabs(uintptr(code)), &info)
	if err != nil {
		return AbsInfo{}, fmt.Errorf("get absinfo for %#x: %w", code, err)
	}
	return info, nil
}

// rawEvent is struct input_event for 64-bit kernels: a 16-byte timeval
// followed by type, code and value.
type rawEvent struct {
	Sec  int64
	Usec int64
	InputEvent
}

// EventSize is the wire size of a single struct input_event.
const EventSize = int(unsafe.Sizeof(rawEvent{}))

// Read fills events with as many input events as a single read(2)
// returns. It never blocks: when no events are pending it returns
// (0, nil). A non-nil error means the device is gone or misbehaving
// and should be detached.
func (d *Device) Read(events []InputEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	buf := make([]byte, len(events)*EventSize)
	n, err := unix.Read(d.fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EINTR {
			return 0, nil
		}
		return 0, fmt.Errorf("read %v: %w", d.path, err)
	}
	if n%EventSize != 0 {
		return 0, fmt.Errorf("read %v: short event (%v bytes)", d.path, n)
	}

	num := n / EventSize
	for i := 0; i < num; i++ {
		raw := (*rawEvent)(unsafe.Pointer(&buf[i*EventSize]))
		events[i] = raw.InputEvent
	}
	return num, nil
}

type InputEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

func (ev InputEvent) Is(t, code uint16) bool {
	return (ev.Type == t) && (ev.Code == code)
}

type InputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// AbsInfo is struct input_absinfo.
type AbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

func ioctl[T any](fd, name uintptr, data *T) error {
	_, _, err := unix.Syscall(unix.SYS_IOCTL, fd, name, uintptr(unsafe.Pointer(data)))
	if err != 0 {
		return err
	}
	return nil
}

func isBitSet(bits []byte, bit uint16) bool {
	if int(bit/8) >= len(bits) {
		return false
	}
	return bits[bit/8]&(1<<(bit%8)) != 0
}

func fromNTString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
