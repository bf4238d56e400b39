// Package fb implements access to Linux framebuffer devices via ioctls
// and mmap: geometry queries and reconfiguration, display panning,
// blanking, and a pan-based double buffer.
package fb

import (
	"fmt"
	"io/fs"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Device is an open framebuffer device node.
//
// At most one Surface may be mapped per Device at a time; Map unmaps
// any previous mapping, and geometry changes invalidate it.
type Device struct {
	fd    int
	path  string
	finfo FixScreeninfo
	vinfo VarScreeninfo

	mapped *Surface
}

// Open opens the framebuffer device at path and reads its fixed and
// variable screen information.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}

	d := Device{fd: fd, path: path}
	if err := ioctl(fd, fbioGetFScreeninfo, unsafe.Pointer(&d.finfo)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("FBIOGET_FSCREENINFO %v: %w", path, err)
	}
	if err := ioctl(fd, fbioGetVScreeninfo, unsafe.Pointer(&d.vinfo)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("FBIOGET_VSCREENINFO %v: %w", path, err)
	}
	return &d, nil
}

// ID returns the driver-reported identifier string.
func (d *Device) ID() string {
	b := d.finfo.ID[:]
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// Path returns the device node path the device was opened from.
func (d *Device) Path() string { return d.path }

// Size returns the visible resolution in pixels.
func (d *Device) Size() (w, h uint32) {
	return d.vinfo.XRes, d.vinfo.YRes
}

// VirtualSize returns the writable resolution in pixels.
func (d *Device) VirtualSize() (w, h uint32) {
	return d.vinfo.XResVirtual, d.vinfo.YResVirtual
}

// PhysicalSize returns the display dimensions in millimeters, as
// reported by the driver. Many drivers report zero.
func (d *Device) PhysicalSize() (w, h uint32) {
	return d.vinfo.Width, d.vinfo.Height
}

// Offset returns the current panning offset.
func (d *Device) Offset() (x, y uint32) {
	return d.vinfo.XOffset, d.vinfo.YOffset
}

func (d *Device) BitsPerPixel() uint32  { return d.vinfo.BitsPerPixel }
func (d *Device) BytesPerPixel() uint32 { return d.vinfo.BytesPerPixel() }
func (d *Device) LineLength() uint32    { return d.finfo.LineLen }

// Screeninfo returns a copy of the current variable screen info.
func (d *Device) Screeninfo() VarScreeninfo { return d.vinfo }

// putVScreeninfo writes vinfo to the driver and rereads the accepted
// values. Drivers are free to adjust or reject requests, so callers
// must recheck the geometry. The mapping is invalidated only when the
// accepted values change its layout; a put the driver quietly ignored
// leaves it usable.
func (d *Device) putVScreeninfo(vinfo VarScreeninfo) error {
	prev := d.vinfo
	vinfo.Activate = fbActivateNow
	if err := ioctl(d.fd, fbioPutVScreeninfo, unsafe.Pointer(&vinfo)); err != nil {
		return fmt.Errorf("FBIOPUT_VSCREENINFO %v: %w", d.path, err)
	}
	if err := ioctl(d.fd, fbioGetVScreeninfo, unsafe.Pointer(&d.vinfo)); err != nil {
		d.invalidate()
		return fmt.Errorf("FBIOGET_VSCREENINFO %v: %w", d.path, err)
	}
	if mappingChanged(&prev, &d.vinfo) {
		d.invalidate()
	}
	return nil
}

// mappingChanged reports whether the accepted geometry altered the
// memory layout a mapping depends on. Panning offsets do not; they
// move the visible window, not the mapped bytes.
func mappingChanged(prev, cur *VarScreeninfo) bool {
	return prev.XResVirtual != cur.XResVirtual ||
		prev.YResVirtual != cur.YResVirtual ||
		prev.BitsPerPixel != cur.BitsPerPixel
}

// SetVirtualSize requests a new virtual resolution. A virtual height
// of twice the visible height is the basis for pan-based double
// buffering. The request fails if the driver rejects it or quietly
// clamps it to something smaller than asked.
func (d *Device) SetVirtualSize(w, h uint32) error {
	vinfo := d.vinfo
	vinfo.XResVirtual = w
	vinfo.YResVirtual = h
	if err := d.putVScreeninfo(vinfo); err != nil {
		return err
	}
	if d.vinfo.XResVirtual < w || d.vinfo.YResVirtual < h {
		return fmt.Errorf("set virtual size %vx%v %v: driver clamped to %vx%v: %w",
			w, h, d.path, d.vinfo.XResVirtual, d.vinfo.YResVirtual, unix.EINVAL)
	}
	return nil
}

// SetBitsPerPixel requests a new pixel depth. Whether this changes the
// color mode depends on the driver.
func (d *Device) SetBitsPerPixel(bpp uint32) error {
	vinfo := d.vinfo
	vinfo.BitsPerPixel = bpp
	if err := d.putVScreeninfo(vinfo); err != nil {
		return err
	}
	if d.vinfo.BitsPerPixel != bpp {
		return fmt.Errorf("set %v bpp %v: driver kept %v: %w",
			bpp, d.path, d.vinfo.BitsPerPixel, unix.EINVAL)
	}
	return nil
}

// PanTo shifts the visible window to (x, y) within the virtual
// surface. The offset plus the visible size must fit in the virtual
// size.
func (d *Device) PanTo(x, y uint32) error {
	if err := checkPan(x, y, &d.vinfo); err != nil {
		return err
	}
	vinfo := d.vinfo
	vinfo.XOffset = x
	vinfo.YOffset = y
	if err := ioctl(d.fd, fbioPanDisplay, unsafe.Pointer(&vinfo)); err != nil {
		return fmt.Errorf("FBIOPAN_DISPLAY %v: %w", d.path, err)
	}
	d.vinfo.XOffset = x
	d.vinfo.YOffset = y
	return nil
}

func checkPan(x, y uint32, vinfo *VarScreeninfo) error {
	if x+vinfo.XRes > vinfo.XResVirtual || y+vinfo.YRes > vinfo.YResVirtual {
		return fmt.Errorf("pan to (%v, %v): visible %vx%v exceeds virtual %vx%v: %w",
			x, y, vinfo.XRes, vinfo.YRes, vinfo.XResVirtual, vinfo.YResVirtual, unix.EINVAL)
	}
	return nil
}

// Blank sets the display blanking level.
//
// Some drivers return EBUSY when the requested level is already
// active, so failures here are often ignorable.
func (d *Device) Blank(level BlankLevel) error {
	if err := ioctlInt(d.fd, fbioBlank, uintptr(level)); err != nil {
		return fmt.Errorf("FBIOBLANK %v: %w", d.path, err)
	}
	return nil
}

// WaitForVSync blocks until the start of the next vertical blanking
// interval. Returns ENOTTY or EINVAL on drivers without vsync support.
func (d *Device) WaitForVSync() error {
	var dummy uint32
	if err := ioctl(d.fd, fbioWaitForVSync, unsafe.Pointer(&dummy)); err != nil {
		return fmt.Errorf("FBIO_WAITFORVSYNC %v: %w", d.path, err)
	}
	return nil
}

// Map maps the device memory for the current geometry. The returned
// surface covers virtual_width * virtual_height * bytes_per_pixel
// bytes. Any previous mapping is unmapped first.
func (d *Device) Map() (*Surface, error) {
	d.invalidate()

	w, h := d.VirtualSize()
	size := int(w * h * d.BytesPerPixel())
	data, err := unix.Mmap(d.fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %v (%v bytes): %w", d.path, size, err)
	}

	s := Surface{data: data, vinfo: d.vinfo, lineLen: d.finfo.LineLen}
	d.mapped = &s
	return &s, nil
}

func (d *Device) invalidate() {
	if d.mapped != nil {
		d.mapped.unmap()
		d.mapped = nil
	}
}

// Close unmaps any surface and closes the device. The device is
// unusable afterwards.
func (d *Device) Close() error {
	d.invalidate()
	return unix.Close(d.fd)
}

func ioctl(fd int, name uintptr, data unsafe.Pointer) error {
	_, _, err := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), name, uintptr(data))
	if err != 0 {
		return err
	}
	return nil
}

func ioctlInt(fd int, name, arg uintptr) error {
	_, _, err := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), name, arg)
	if err != 0 {
		return err
	}
	return nil
}
