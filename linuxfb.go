// Package linuxfb is a display and input backend for embedded Linux
// systems without a windowing server. It exposes the framebuffer as a
// drawable surface, holds the console in graphics mode for the life of
// the backend, and merges every usable input device into one ordered
// event stream.
package linuxfb

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"deedles.dev/linuxfb/internal/fb"
	"deedles.dev/linuxfb/internal/keymap"
	"deedles.dev/linuxfb/internal/vt"
	"golang.org/x/sync/errgroup"
)

// Geometry is a snapshot of the display configuration.
type Geometry struct {
	Width, Height     int // visible resolution in pixels
	WidthMM, HeightMM int // physical size, zero if unreported
	BitsPerPixel      int
	LineLength        int // bytes per visible row
	DoubleBuffered    bool
	VSync             bool // whether Flip blocks until vertical sync
}

// Backend owns the framebuffer surface, the console mode, and the
// input subsystem as one unit.
type Backend struct {
	opts options

	fbdev *fb.Device
	flip  *fb.FlipBuffer
	surf  *fb.Surface
	con   *vt.Controller
	mux   *mux

	cancel    context.CancelFunc
	group     *errgroup.Group
	closeOnce sync.Once
	closeErr  error
}

// Open acquires the framebuffer, the console, and the input subsystem.
// Acquisition failures are aggregated: every resource is attempted and
// all failures are reported together, with nothing left acquired. The
// backend refuses to start degraded.
//
// The logger carried by ctx, if any, is used for diagnostics for the
// backend's whole lifetime.
func Open(ctx context.Context, opts ...Option) (*Backend, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.fbPath == "" {
		return nil, fmt.Errorf("%w: empty framebuffer path", ErrConfig)
	}
	if len(o.ttys) == 0 {
		return nil, fmt.Errorf("%w: no console device configured", ErrConfig)
	}

	logger := Logger(ctx)
	b := Backend{opts: o}

	var errs []error

	fbdev, err := fb.Open(o.fbPath)
	if err != nil {
		errs = append(errs, fmt.Errorf("framebuffer: %w", openError(err)))
	} else {
		b.fbdev = fbdev
	}

	con, err := vt.Acquire(o.ttys...)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrTTYUnavailable, err))
	} else {
		b.con = con
	}

	km, err := keymap.New(o.keymap)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidLayoutSpec, err))
	}

	if b.fbdev != nil {
		if err := b.setupSurface(ctx, o.doubleBuffer); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		b.teardown(ctx)
		return nil, errors.Join(errs...)
	}

	w, h := b.fbdev.Size()
	m, err := newMux(&o, logger, w, h, km)
	if err != nil {
		b.teardown(ctx)
		return nil, err
	}
	b.mux = m

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)
	b.cancel = cancel
	b.group = group

	group.Go(func() error { return m.Run(ctx) })
	group.Go(func() error {
		<-ctx.Done()
		m.wake()
		return nil
	})

	logger.Info(
		"backend ready",
		"framebuffer", b.fbdev.Path(),
		"driver", b.fbdev.ID(),
		"tty", b.con.Path(),
		"width", w,
		"height", h,
		"bpp", b.fbdev.BitsPerPixel(),
		"double-buffered", b.flip != nil,
	)
	return &b, nil
}

// setupSurface maps the framebuffer, preferring a flip buffer when
// asked for one. A driver that cannot grow the virtual size degrades
// to a single mapped buffer; a failed mapping is fatal.
func (b *Backend) setupSurface(ctx context.Context, double bool) error {
	if double {
		flip, err := fb.NewFlipBuffer(b.fbdev)
		if err == nil {
			b.flip = flip
			b.surf = flip.Surface()
			return nil
		}
		gerr := geometryError(err)
		if !errors.Is(gerr, ErrUnsupportedByDriver) {
			return fmt.Errorf("%w: %w", ErrMappingFailed, err)
		}
		Logger(ctx).Warn("double buffering unavailable", slogErr(gerr))
	}

	surf, err := b.fbdev.Map()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMappingFailed, err)
	}
	b.surf = surf
	return nil
}

// Events is the multiplexed input and lifecycle stream. The channel is
// closed once the backend shuts down. Events within one device keep
// that device's production order; across devices the order is arrival
// order at the backend's polling loop.
func (b *Backend) Events() <-chan Event {
	return b.mux.Events()
}

// Geometry reports the current display configuration.
func (b *Backend) Geometry() Geometry {
	vinfo := b.fbdev.Screeninfo()
	return Geometry{
		Width:          int(vinfo.XRes),
		Height:         int(vinfo.YRes),
		WidthMM:        int(vinfo.Width),
		HeightMM:       int(vinfo.Height),
		BitsPerPixel:   int(vinfo.BitsPerPixel),
		LineLength:     int(b.fbdev.LineLength()),
		DoubleBuffered: b.flip != nil,
		VSync:          b.flip != nil && b.flip.SupportsVSync(),
	}
}

// Frame returns the byte region to draw the next frame into: the back
// half of a flip buffer, or the whole mapped surface when single
// buffered. The slice is invalidated by Flip, SetBitsPerPixel, and
// Close; callers must not retain it across any of those.
func (b *Backend) Frame() []byte {
	if b.flip != nil {
		return b.flip.Back()
	}
	return b.surf.Bytes()
}

// Flip presents the frame drawn since the previous Flip. With a flip
// buffer it pans to the just-drawn half, blocking until vertical sync
// when the driver supports that; single buffered it is a no-op because
// drawing already targets visible memory.
func (b *Backend) Flip() error {
	if b.flip == nil {
		return nil
	}
	return b.flip.Flip()
}

// Blank powers the display down or back up without touching geometry.
func (b *Backend) Blank(off bool) error {
	level := fb.BlankUnblank
	if off {
		level = fb.BlankPowerdown
	}
	return b.fbdev.Blank(level)
}

// SetBitsPerPixel asks the driver to switch pixel depth and rebuilds
// the mapping. ErrUnsupportedByDriver reports a driver that cannot; the
// backend keeps running with the previous depth in that case, remapping
// first if the failed request cost it the old mapping.
func (b *Backend) SetBitsPerPixel(ctx context.Context, bpp int) error {
	err := geometryError(b.fbdev.SetBitsPerPixel(uint32(bpp)))
	if err == nil || b.surf == nil || b.surf.Bytes() == nil {
		b.flip = nil
		if serr := b.setupSurface(ctx, b.opts.doubleBuffer); serr != nil {
			return errors.Join(err, serr)
		}
	}
	return err
}

// Close shuts the backend down: the polling loop stops and drivers
// detach, then the console mode is restored, then the surface is
// unmapped and the framebuffer closed. Console restoration is
// attempted unconditionally, even when other teardown steps fail.
func (b *Backend) Close() error {
	b.closeOnce.Do(func() {
		var errs []error
		if b.cancel != nil {
			b.cancel()
			err := b.group.Wait()
			if err != nil && !errors.Is(err, context.Canceled) {
				errs = append(errs, err)
			}
		}
		errs = append(errs, b.teardown(context.Background()))
		b.closeErr = errors.Join(errs...)
	})
	return b.closeErr
}

// teardown releases whatever was acquired. Safe on a partially
// constructed backend.
func (b *Backend) teardown(ctx context.Context) error {
	if b.con != nil {
		// Never escalated; at this point there is no caller left to
		// handle it.
		if err := b.con.Release(); err != nil {
			Logger(ctx).Warn("restore console mode", slogErr(err))
		}
		b.con = nil
	}

	var errs []error
	if b.fbdev != nil {
		if err := b.fbdev.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close framebuffer: %w", err))
		}
		b.fbdev = nil
		b.flip = nil
		b.surf = nil
	}
	return errors.Join(errs...)
}
