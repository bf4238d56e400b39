package fb

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// flipState tracks which half of a double-height virtual surface is
// being drawn into. Exactly one half is visible at a time; advancing
// the state yields the panning offset that makes the just-drawn half
// visible.
type flipState struct {
	drawFirst bool
	height    uint32
}

// back returns the byte range of the current back half.
func (s *flipState) back(page int) (start, end int) {
	if s.drawFirst {
		return 0, page
	}
	return page, 2 * page
}

// advance swaps the halves and returns the y offset to pan to so that
// the half just drawn becomes visible.
func (s *flipState) advance() (yOffset uint32) {
	s.drawFirst = !s.drawFirst
	if s.drawFirst {
		// Drawing the first half next, so the second is visible.
		return s.height
	}
	return 0
}

// FlipBuffer is a pan-based double buffer on top of a framebuffer
// device. It configures the virtual height to twice the visible
// height; writes go to the half that is not on screen and Flip pans
// the visible window to swap the halves.
type FlipBuffer struct {
	dev   *Device
	surf  *Surface
	state flipState

	width  uint32
	height uint32
	vsync  bool
}

// NewFlipBuffer reconfigures dev for double buffering and maps it.
//
// When the panning offset is already at (0, height) the offset is kept
// and drawing starts in the first half, so a retained previous frame
// stays on screen until the first flip. Any other offset is reset to
// the origin.
//
// Vsync support is probed once here; when the driver lacks
// FBIO_WAITFORVSYNC, Flip returns as soon as the pan is submitted.
func NewFlipBuffer(dev *Device) (*FlipBuffer, error) {
	w, h := dev.Size()
	vw, vh := dev.VirtualSize()
	if vw != w || vh != h*2 {
		if err := dev.SetVirtualSize(w, h*2); err != nil {
			return nil, fmt.Errorf("double buffer: %w", err)
		}
	}

	x, y := dev.Offset()
	if x != 0 || (y != 0 && y != h) {
		if err := dev.PanTo(0, 0); err != nil {
			return nil, fmt.Errorf("double buffer: %w", err)
		}
		y = 0
	}

	surf, err := dev.Map()
	if err != nil {
		return nil, err
	}

	b := FlipBuffer{
		dev:    dev,
		surf:   surf,
		state:  flipState{drawFirst: y == h, height: h},
		width:  w,
		height: h,
		vsync:  probeVSync(dev),
	}
	return &b, nil
}

func probeVSync(dev *Device) bool {
	err := dev.WaitForVSync()
	if err == nil {
		return true
	}
	return !errors.Is(err, unix.ENOTTY) && !errors.Is(err, unix.EINVAL) && !errors.Is(err, unix.ENOSYS)
}

// Size returns the size of a single buffer, equal to the visible
// resolution.
func (b *FlipBuffer) Size() (w, h uint32) {
	return b.width, b.height
}

// SupportsVSync reports whether Flip blocks until vertical sync.
func (b *FlipBuffer) SupportsVSync() bool {
	return b.vsync
}

// Back returns the half of the surface that is currently off screen.
// The slice is invalidated by the next Flip.
func (b *FlipBuffer) Back() []byte {
	page := int(b.dev.BytesPerPixel() * b.width * b.height)
	start, end := b.state.back(page)
	return b.surf.Bytes()[start:end]
}

// Flip makes the back half visible and the visible half the new back.
// When the driver supports it, Flip blocks until the vertical blanking
// interval before panning.
func (b *FlipBuffer) Flip() error {
	if b.vsync {
		if err := b.dev.WaitForVSync(); err != nil {
			return err
		}
	}
	return b.dev.PanTo(0, b.state.advance())
}

// Surface returns the full mapped surface backing both halves.
func (b *FlipBuffer) Surface() *Surface {
	return b.surf
}
