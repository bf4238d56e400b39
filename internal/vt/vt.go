// Package vt switches a Linux console between text and graphics mode.
//
// While a console is in graphics mode the fbcon cursor and terminal
// output are suppressed. A console left in graphics mode after the
// process dies makes the machine unusable without a blind reset, so
// Controller guarantees restoration of the original mode on release,
// on termination signals, and on panics via deferred Release calls.
package vt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// <linux/kd.h> ioctls. 0x4B is 'K'.
const (
	kdSetMode = 0x4B3A
	kdGetMode = 0x4B3B
)

// Mode is a console display mode.
type Mode int

const (
	ModeText     Mode = 0x00
	ModeGraphics Mode = 0x01
)

func (m Mode) String() string {
	switch m {
	case ModeText:
		return "text"
	case ModeGraphics:
		return "graphics"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// console is the device surface a Controller drives. It is an
// interface so the restoration state machine is testable without a
// real console.
type console interface {
	Path() string
	GetMode() (Mode, error)
	SetMode(Mode) error
	Close() error
}

type devConsole struct {
	fd   int
	path string
}

func openConsole(path string) (console, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}
	return &devConsole{fd: fd, path: path}, nil
}

func (c *devConsole) Path() string { return c.path }

func (c *devConsole) GetMode() (Mode, error) {
	var mode int32
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(c.fd), kdGetMode, uintptr(unsafe.Pointer(&mode)))
	if errno != 0 {
		return 0, fmt.Errorf("KDGETMODE %v: %w", c.path, errno)
	}
	return Mode(mode), nil
}

func (c *devConsole) SetMode(mode Mode) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(c.fd), kdSetMode, uintptr(mode))
	if errno != 0 {
		return fmt.Errorf("KDSETMODE %v: %w", c.path, errno)
	}
	return nil
}

func (c *devConsole) Close() error {
	return unix.Close(c.fd)
}

// Controller holds a console in graphics mode. At most one Controller
// should be live per process.
type Controller struct {
	con  console
	prev Mode

	once sync.Once
	sig  chan os.Signal
	done chan struct{}

	// raise delivers a signal to the process after restoration. It is
	// replaceable for tests.
	raise func(os.Signal)
}

// Acquire opens the first available console of paths, records its
// current mode, and switches it to graphics mode. A handler for
// SIGINT, SIGTERM and SIGHUP restores the recorded mode before the
// signal's default action runs.
func Acquire(paths ...string) (*Controller, error) {
	var errs []error
	for _, path := range paths {
		con, err := openConsole(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		c, err := acquire(con)
		if err != nil {
			con.Close()
			errs = append(errs, err)
			continue
		}
		return c, nil
	}
	if len(errs) == 0 {
		errs = append(errs, errors.New("no console paths given"))
	}
	return nil, errors.Join(errs...)
}

func acquire(con console) (*Controller, error) {
	prev, err := con.GetMode()
	if err != nil {
		return nil, err
	}
	if err := con.SetMode(ModeGraphics); err != nil {
		return nil, err
	}

	c := Controller{
		con:  con,
		prev: prev,
		sig:  make(chan os.Signal, 1),
		done: make(chan struct{}),
		raise: func(sig os.Signal) {
			s, ok := sig.(syscall.Signal)
			if !ok {
				os.Exit(1)
			}
			signal.Reset(sig)
			unix.Kill(unix.Getpid(), s)
		},
	}

	signal.Notify(c.sig, unix.SIGINT, unix.SIGTERM, unix.SIGHUP)
	go c.watch()

	return &c, nil
}

// Path returns the path of the console being held.
func (c *Controller) Path() string { return c.con.Path() }

// PreviousMode returns the mode recorded at acquisition.
func (c *Controller) PreviousMode() Mode { return c.prev }

func (c *Controller) watch() {
	select {
	case sig := <-c.sig:
		c.restore()
		c.raise(sig)
	case <-c.done:
	}
}

// restore puts the console back into the recorded mode and closes it.
// Failures are returned but deliberately never escalate: restoration
// runs during shutdown when no caller is left to handle them.
func (c *Controller) restore() error {
	var errs []error
	c.once.Do(func() {
		signal.Stop(c.sig)
		close(c.done)
		if err := c.con.SetMode(c.prev); err != nil {
			errs = append(errs, err)
		}
		if err := c.con.Close(); err != nil {
			errs = append(errs, err)
		}
	})
	return errors.Join(errs...)
}

// Release restores the console mode recorded at acquisition. It is
// idempotent and safe to call from any goroutine.
func (c *Controller) Release() error {
	return c.restore()
}
