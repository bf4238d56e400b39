package linuxfb

import (
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestOpenErrorClassification(t *testing.T) {
	notExist := &fs.PathError{Op: "open", Path: "/dev/fb9", Err: unix.ENOENT}
	assert.ErrorIs(t, openError(notExist), ErrDeviceNotFound)

	denied := &fs.PathError{Op: "open", Path: "/dev/fb0", Err: unix.EACCES}
	assert.ErrorIs(t, openError(denied), ErrPermissionDenied)

	noIoctl := fmt.Errorf("FBIOGET_VSCREENINFO /dev/fb0: %w", unix.ENOTTY)
	assert.ErrorIs(t, openError(noIoctl), ErrUnsupportedDevice)

	assert.NoError(t, openError(nil))
}

func TestOpenErrorKeepsCause(t *testing.T) {
	cause := &fs.PathError{Op: "open", Path: "/dev/fb9", Err: unix.ENOENT}
	assert.ErrorIs(t, openError(cause), unix.ENOENT)
}

func TestGeometryErrorClassification(t *testing.T) {
	clamped := fmt.Errorf("set virtual size: driver clamped: %w", unix.EINVAL)
	assert.ErrorIs(t, geometryError(clamped), ErrUnsupportedByDriver)

	assert.NoError(t, geometryError(nil))
	assert.NotErrorIs(t, geometryError(unix.EIO), ErrUnsupportedByDriver)
}
