package linuxfb

import (
	"errors"
	"fmt"
	"io/fs"

	"golang.org/x/sys/unix"
)

var (
	// ErrDeviceNotFound indicates the requested device node does not
	// exist.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrPermissionDenied indicates the process may not open the
	// device node.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnsupportedDevice indicates the node exists but does not
	// answer the queries this backend requires.
	ErrUnsupportedDevice = errors.New("unsupported device")

	// ErrUnsupportedByDriver indicates the kernel driver rejected a
	// requested geometry or depth change.
	ErrUnsupportedByDriver = errors.New("unsupported by driver")

	// ErrMappingFailed indicates the kernel denied mapping the
	// framebuffer memory.
	ErrMappingFailed = errors.New("mapping failed")

	// ErrTTYUnavailable indicates no candidate console device could be
	// acquired.
	ErrTTYUnavailable = errors.New("tty unavailable")

	// ErrDeviceIO indicates an input device became unreadable, usually
	// because it was unplugged.
	ErrDeviceIO = errors.New("device i/o failure")

	// ErrInvalidLayoutSpec indicates the keymap configuration could
	// not be resolved against the rule database.
	ErrInvalidLayoutSpec = errors.New("invalid keyboard layout")

	// ErrConfig indicates an invalid configuration value.
	ErrConfig = errors.New("invalid configuration")
)

// openError classifies a device open failure into the error taxonomy,
// keeping the original error in the chain.
func openError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrDeviceNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case errors.Is(err, unix.ENOTTY), errors.Is(err, unix.ENODEV):
		return fmt.Errorf("%w: %w", ErrUnsupportedDevice, err)
	default:
		return err
	}
}

// geometryError classifies a geometry or depth change failure.
func geometryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOTTY) {
		return fmt.Errorf("%w: %w", ErrUnsupportedByDriver, err)
	}
	return err
}
