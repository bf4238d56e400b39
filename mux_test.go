package linuxfb

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"deedles.dev/linuxfb/internal/evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type fakeInputDevice struct {
	fd      int
	pending []evdev.InputEvent
	err     error // returned once pending is drained
	reads   int
	closed  int
}

func (d *fakeInputDevice) Fd() int { return d.fd }

func (d *fakeInputDevice) Read(events []evdev.InputEvent) (int, error) {
	d.reads++
	n := copy(events, d.pending)
	d.pending = d.pending[n:]
	if len(d.pending) == 0 {
		return n, d.err
	}
	return n, nil
}

func (d *fakeInputDevice) Close() error {
	d.closed++
	return nil
}

func testMux() *mux {
	return &mux{
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		out:     make(chan Event, 32),
		devices: make(map[DeviceID]*attached),
		byPath:  make(map[string]*attached),
	}
}

func attachFake(m *mux, info DeviceInfo, dev *fakeInputDevice) *attached {
	a := &attached{
		dev: dev,
		drv: &keyboardDriver{dev: info, km: staticResolver{evdev.KeyA: {Sym: 'a', Text: "a"}}},
		id:  info.ID,
	}
	m.devices[info.ID] = a
	m.byPath[info.Path] = a
	return a
}

func collected(m *mux) []Event {
	var out []Event
	for {
		select {
		case ev := <-m.out:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func TestMuxDeliversEventsBeforeRemoval(t *testing.T) {
	m := testMux()
	dev := &fakeInputDevice{
		fd: 10,
		pending: []evdev.InputEvent{
			{Type: evdev.EvKey, Code: evdev.KeyA, Value: evdev.ValuePress},
			{Type: evdev.EvSyn, Code: evdev.SynReport},
		},
		err: unix.ENODEV,
	}
	info := DeviceInfo{ID: "kbd-1", Path: "/dev/input/event5", Name: "kbd", Caps: CapKey}
	a := attachFake(m, info, dev)

	m.service(context.Background(), a)

	out := collected(m)
	require.Len(t, out, 2)

	key, ok := out[0].(KeyChange)
	require.True(t, ok, "in-flight events come first")
	assert.Equal(t, uint16(evdev.KeyA), key.Code)

	rem, ok := out[1].(DeviceRemoved)
	require.True(t, ok, "removal marker comes last")
	assert.Equal(t, DeviceID("kbd-1"), rem.ID)

	assert.Equal(t, 1, dev.closed)
	assert.Empty(t, m.devices)
	assert.Empty(t, m.byPath)
}

func TestMuxServicesCurrentEntry(t *testing.T) {
	m := testMux()
	dev := &fakeInputDevice{
		fd: 11,
		pending: []evdev.InputEvent{
			{Type: evdev.EvKey, Code: evdev.KeyA, Value: evdev.ValuePress},
		},
	}
	a := attachFake(m, DeviceInfo{ID: "kbd-2", Path: "/dev/input/event6", Name: "kbd"}, dev)

	m.serviceCurrent(context.Background(), a)

	out := collected(m)
	require.Len(t, out, 1)
	assert.IsType(t, KeyChange{}, out[0])
	assert.Equal(t, 1, dev.reads)
}

// A device can be detached by hot-plug handling and its fd number
// reused within the same poll round; the round's stale snapshot entry
// must then be skipped entirely.
func TestMuxSkipsStaleSnapshotEntry(t *testing.T) {
	m := testMux()
	ctx := context.Background()

	dead := &fakeInputDevice{fd: 7, err: unix.ENODEV}
	a := attachFake(m, DeviceInfo{ID: "dead", Path: "/dev/input/event7", Name: "old"}, dead)

	m.detach(ctx, a)
	require.Equal(t, 1, dead.closed)
	out := collected(m)
	require.Len(t, out, 1)
	assert.IsType(t, DeviceRemoved{}, out[0])

	fresh := &fakeInputDevice{fd: 7}
	attachFake(m, DeviceInfo{ID: "fresh", Path: "/dev/input/event8", Name: "new"}, fresh)

	m.serviceCurrent(ctx, a)

	assert.Equal(t, 1, dead.closed, "stale entry must not be closed again")
	assert.Zero(t, dead.reads)
	assert.Empty(t, collected(m), "no duplicate removal event")
	assert.Contains(t, m.devices, DeviceID("fresh"))
	assert.Zero(t, fresh.closed)
}
