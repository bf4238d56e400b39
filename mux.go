package linuxfb

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"deedles.dev/linuxfb/internal/evdev"
	"deedles.dev/linuxfb/internal/keymap"
	"golang.org/x/sys/unix"
)

// inputDevice is the part of an evdev device the mux drives.
type inputDevice interface {
	Fd() int
	Read(events []evdev.InputEvent) (int, error)
	Close() error
}

// attached couples an open device node with its driver.
type attached struct {
	dev inputDevice
	drv driver
	id  DeviceID
}

// mux merges every attached driver's event production plus hot-plug
// notifications into one ordered stream. A single goroutine runs the
// readiness loop and is the only writer to out; arrival order at the
// loop defines cross-device ordering.
type mux struct {
	log           *slog.Logger
	filter        deviceFilter
	dir           string
	discover      bool
	width, height uint32
	km            *keymap.Map

	out     chan Event
	wakeFd  int
	watcher *devWatcher

	devices map[DeviceID]*attached
	byPath  map[string]*attached
}

func newMux(o *options, logger *slog.Logger, width, height uint32, km *keymap.Map) (*mux, error) {
	wake, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, fmt.Errorf("eventfd: %w", err)
	}

	m := mux{
		log:      logger,
		filter:   deviceFilter{allow: o.allow, deny: o.deny},
		dir:      o.inputDir,
		discover: o.autodiscover,
		width:    width,
		height:   height,
		km:       km,
		out:      make(chan Event, o.eventBuffer),
		wakeFd:   wake,
		devices:  make(map[DeviceID]*attached),
		byPath:   make(map[string]*attached),
	}

	if m.discover {
		w, err := watchInputDir(m.dir)
		if err != nil {
			logger.Warn("hot-plug monitoring disabled", slogErr(err))
		} else {
			m.watcher = w
		}
	}

	return &m, nil
}

// Events is the multiplexed stream. It is closed after Run returns.
func (m *mux) Events() <-chan Event { return m.out }

// wake unblocks the readiness loop. Safe to call from any goroutine.
func (m *mux) wake() {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], 1)
	unix.Write(m.wakeFd, buf[:])
}

// Run drives the readiness loop until ctx is canceled. It blocks with
// no polling interval; wake must be called after cancellation to
// unblock it.
func (m *mux) Run(ctx context.Context) error {
	defer close(m.out)
	defer m.closeAll()

	if m.discover {
		m.rescan(ctx)
	}

	var fds []unix.PollFd
	var order []*attached
	for {
		fds, order = fds[:0], order[:0]
		fds = append(fds, unix.PollFd{Fd: int32(m.wakeFd), Events: unix.POLLIN})
		if m.watcher != nil {
			fds = append(fds, unix.PollFd{Fd: int32(m.watcher.Fd()), Events: unix.POLLIN})
		}
		for _, a := range m.devices {
			fds = append(fds, unix.PollFd{Fd: int32(a.dev.Fd()), Events: unix.POLLIN})
			order = append(order, a)
		}

		_, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("poll: %w", err)
		}

		if fds[0].Revents != 0 {
			m.drainWake()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		next := 1
		if m.watcher != nil {
			if fds[1].Revents != 0 {
				m.handleHotplug(ctx)
			}
			next = 2
		}

		for i, a := range order {
			if fds[next+i].Revents == 0 {
				continue
			}
			m.serviceCurrent(ctx, a)
		}
	}
}

func (m *mux) drainWake() {
	var buf [8]byte
	unix.Read(m.wakeFd, buf[:])
}

// emit delivers one event to the consumer, giving up if ctx is
// canceled first.
func (m *mux) emit(ctx context.Context, ev Event) {
	select {
	case <-ctx.Done():
	case m.out <- ev:
	}
}

// serviceCurrent services an entry from the poll round's snapshot.
// Hot-plug handling earlier in the round may have detached it already,
// and its fd number may since have been reused by a newly attached
// device, so a stale entry must not be touched again.
func (m *mux) serviceCurrent(ctx context.Context, a *attached) {
	if m.devices[a.id] != a {
		return
	}
	m.service(ctx, a)
}

// service reads everything the device has pending and runs it through
// the driver. A read error means the device is gone; the driver is
// detached, after its decoded events have already been delivered, and
// the loop keeps running.
func (m *mux) service(ctx context.Context, a *attached) {
	var buf [64]evdev.InputEvent
	for {
		n, err := a.dev.Read(buf[:])
		now := time.Now()
		for _, ev := range buf[:n] {
			if ev.Is(evdev.EvSyn, evdev.SynDropped) {
				m.log.Debug("event overrun", "name", a.drv.describe().Name)
				continue
			}
			a.drv.handle(ev, now, func(e Event) { m.emit(ctx, e) })
		}
		if err != nil {
			m.log.Warn(
				"detaching device",
				"name", a.drv.describe().Name,
				slogErr(fmt.Errorf("%w: %w", ErrDeviceIO, err)),
			)
			m.detach(ctx, a)
			return
		}
		if n < len(buf) {
			return
		}
	}
}

// handleHotplug reacts to node add and remove notifications. Removal
// drains the device first so that in-flight events are delivered ahead
// of the DeviceRemoved marker.
func (m *mux) handleHotplug(ctx context.Context) {
	added, removed, err := m.watcher.Read()
	if err != nil {
		m.log.Warn("hot-plug notification", slogErr(err))
	}

	for _, path := range removed {
		a, ok := m.byPath[path]
		if !ok {
			continue
		}
		m.service(ctx, a)
		if _, ok := m.byPath[path]; ok {
			m.detach(ctx, a)
		}
	}
	for _, path := range added {
		m.attach(ctx, path)
	}
}

// rescan enumerates the input directory and attaches everything the
// filter admits.
func (m *mux) rescan(ctx context.Context) {
	paths, err := scanInputDir(m.dir)
	if err != nil {
		m.log.Warn("enumerate input devices", slogErr(err))
		return
	}
	for _, path := range paths {
		m.attach(ctx, path)
	}
}

func (m *mux) attach(ctx context.Context, path string) {
	if _, ok := m.byPath[path]; ok {
		return
	}

	dev, err := evdev.Open(path)
	if err != nil {
		// Commonly a permission race against the device manager; the
		// follow-up attribute notification retries.
		m.log.Debug("skipping device", "path", path, slogErr(openError(err)))
		return
	}

	caps := classifyDevice(dev)
	if caps == 0 || !m.filter.permits(dev.Name) {
		m.log.Debug("ignoring device", "path", path, "name", dev.Name, "caps", caps)
		dev.Close()
		return
	}

	id := deviceIdentity(dev)
	if _, ok := m.devices[id]; ok {
		dev.Close()
		return
	}

	info := DeviceInfo{ID: id, Path: path, Name: dev.Name, Caps: caps}
	drv, err := newDriver(dev, info, m.width, m.height, m.km)
	if err != nil {
		m.log.Warn("ignoring device", "path", path, "name", dev.Name, slogErr(err))
		dev.Close()
		return
	}

	a := attached{dev: dev, drv: drv, id: id}
	m.devices[id] = &a
	m.byPath[path] = &a

	m.log.Info(
		"attached device",
		"path", path,
		"name", dev.Name,
		"caps", caps,
		"bus", dev.ID.BusType,
		"vendor", dev.ID.Vendor,
		"product", dev.ID.Product,
	)
	m.emit(ctx, DeviceAdded{Time: time.Now(), Device: info})
}

func (m *mux) detach(ctx context.Context, a *attached) {
	delete(m.devices, a.id)
	delete(m.byPath, a.drv.describe().Path)
	a.dev.Close()
	m.emit(ctx, DeviceRemoved{Time: time.Now(), ID: a.id})
}

func (m *mux) closeAll() {
	for _, a := range m.devices {
		a.dev.Close()
	}
	clear(m.devices)
	clear(m.byPath)
	if m.watcher != nil {
		m.watcher.Close()
	}
	unix.Close(m.wakeFd)
}
