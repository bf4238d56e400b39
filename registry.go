package linuxfb

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unsafe"

	"deedles.dev/linuxfb/internal/evdev"
	"golang.org/x/sys/unix"
)

// deviceFilter is the registry's name-based attachment policy. A
// non-empty allow list admits only exact-name matches; otherwise a
// non-empty deny list excludes exact-name matches; otherwise every
// device with a recognized capability is admitted.
type deviceFilter struct {
	allow []string
	deny  []string
}

func (f deviceFilter) permits(name string) bool {
	if len(f.allow) > 0 {
		return slices.Contains(f.allow, name)
	}
	return !slices.Contains(f.deny, name)
}

// classifyDevice inspects the capability bitmaps and reports which
// driver kinds could handle the device.
func classifyDevice(d *evdev.Device) Capability {
	var caps Capability

	if d.HasEventType(evdev.EvAbs) {
		switch {
		case d.HasEventCode(evdev.EvAbs, evdev.AbsMTPositionX):
			caps |= CapTouch
		case d.HasEventCode(evdev.EvAbs, evdev.AbsX) && d.HasEventCode(evdev.EvKey, evdev.BtnTouch):
			caps |= CapTouch
		}
	}
	if d.HasEventType(evdev.EvRel) && d.HasEventCode(evdev.EvRel, evdev.RelX) && d.HasEventCode(evdev.EvRel, evdev.RelY) {
		caps |= CapPointer
	}
	if d.HasEventType(evdev.EvKey) && (d.HasEventCode(evdev.EvKey, evdev.KeyA) || d.HasEventCode(evdev.EvKey, evdev.KeyEnter)) {
		caps |= CapKey
	}

	return caps
}

// deviceIdentity derives a stable identity from device-reported
// properties rather than the node path, which is renumbered across
// hot-plug cycles.
func deviceIdentity(d *evdev.Device) DeviceID {
	tail := d.Uniq
	if tail == "" {
		tail = d.Name
	}
	return DeviceID(fmt.Sprintf(
		"%04x:%04x:%04x:%04x/%s",
		d.ID.BusType, d.ID.Vendor, d.ID.Product, d.ID.Version, tail,
	))
}

// scanInputDir lists the event device nodes under dir, sorted so that
// enumeration order is stable.
func scanInputDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", dir, err)
	}

	var paths []string
	for _, ent := range entries {
		if isEventNode(ent.Name()) {
			paths = append(paths, filepath.Join(dir, ent.Name()))
		}
	}
	slices.Sort(paths)
	return paths, nil
}

func isEventNode(name string) bool {
	rest, ok := strings.CutPrefix(name, "event")
	return ok && rest != ""
}

// devWatcher delivers hot-plug notifications for an input device
// directory via inotify.
type devWatcher struct {
	fd  int
	dir string
	buf [4096]byte
}

// watchInputDir subscribes to node add and remove events under dir.
// IN_ATTRIB is included because device managers typically adjust node
// permissions after creation, so an open that fails at IN_CREATE can
// succeed on the follow-up attribute change.
func watchInputDir(dir string) (*devWatcher, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("inotify init: %w", err)
	}

	_, err = unix.InotifyAddWatch(fd, dir, unix.IN_CREATE|unix.IN_ATTRIB|unix.IN_DELETE)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("watch %q: %w", dir, err)
	}

	return &devWatcher{fd: fd, dir: dir}, nil
}

func (w *devWatcher) Fd() int { return w.fd }

// Read drains pending notifications and returns the node paths that
// appeared and disappeared. Both lists may be empty even on a
// successful read.
func (w *devWatcher) Read() (added, removed []string, err error) {
	for {
		n, err := unix.Read(w.fd, w.buf[:])
		if err == unix.EAGAIN || err == unix.EINTR {
			return added, removed, nil
		}
		if err != nil {
			return added, removed, fmt.Errorf("read inotify: %w", err)
		}

		for off := 0; off+unix.SizeofInotifyEvent <= n; {
			ev := (*unix.InotifyEvent)(unsafe.Pointer(&w.buf[off]))
			name := w.buf[off+unix.SizeofInotifyEvent : off+unix.SizeofInotifyEvent+int(ev.Len)]
			off += unix.SizeofInotifyEvent + int(ev.Len)

			node := string(bytes.TrimRight(name, "\x00"))
			if !isEventNode(node) {
				continue
			}

			path := filepath.Join(w.dir, node)
			switch {
			case ev.Mask&unix.IN_DELETE != 0:
				removed = append(removed, path)
			case ev.Mask&(unix.IN_CREATE|unix.IN_ATTRIB) != 0:
				added = append(added, path)
			}
		}
	}
}

func (w *devWatcher) Close() error {
	return unix.Close(w.fd)
}
