// fbprobe opens the display and input backend, reports what it finds,
// and optionally streams input events until interrupted. It is a
// hardware bring-up aid.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"deedles.dev/linuxfb"
	"deedles.dev/linuxfb/internal/fb"
	"deedles.dev/linuxfb/internal/glow"
)

func run(ctx context.Context) error {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %v [options]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Options:")
		flag.PrintDefaults()
	}
	list := flag.Bool("list", false, "list framebuffer devices and exit")
	fbPath := flag.String("fb", "", "framebuffer device to open instead of the default")
	tty := flag.String("tty", "", "console device to acquire instead of the default")
	events := flag.Bool("events", false, "stream input events until interrupted")
	single := flag.Bool("single", false, "skip double buffering")
	fill := flag.Bool("fill", false, "flip a few solid frames to verify panning")
	flag.Parse()

	logger := linuxfb.Logger(ctx)

	if *list {
		paths, err := fb.List()
		if err != nil {
			return err
		}
		for _, path := range paths {
			fmt.Println(path)
		}
		return nil
	}

	var opts []linuxfb.Option
	if *fbPath != "" {
		opts = append(opts, linuxfb.WithFramebuffer(*fbPath))
	}
	if *tty != "" {
		opts = append(opts, linuxfb.WithTTY(*tty))
	}
	if *single {
		opts = append(opts, linuxfb.WithDoubleBuffer(false))
	}

	backend, err := linuxfb.Open(ctx, opts...)
	if err != nil {
		return err
	}
	defer backend.Close()

	geo := backend.Geometry()
	logger.Info(
		"display",
		"width", geo.Width,
		"height", geo.Height,
		"bpp", geo.BitsPerPixel,
		"line-length", geo.LineLength,
		"double-buffered", geo.DoubleBuffered,
		"vsync", geo.VSync,
	)

	if *fill {
		for _, shade := range []byte{0x00, 0xFF, 0x00} {
			frame := backend.Frame()
			for i := range frame {
				frame[i] = shade
			}
			if err := backend.Flip(); err != nil {
				return fmt.Errorf("flip: %w", err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(300 * time.Millisecond):
			}
		}
	}

	if !*events {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-backend.Events():
			if !ok {
				return nil
			}
			logEvent(logger, ev)
		}
	}
}

func logEvent(logger *slog.Logger, ev linuxfb.Event) {
	switch ev := ev.(type) {
	case linuxfb.PointerAbsolute:
		logger.Info("pointer", "x", ev.X, "y", ev.Y)
	case linuxfb.PointerScroll:
		logger.Info("scroll", "dx", ev.DX, "dy", ev.DY)
	case linuxfb.ButtonChange:
		logger.Info("button", "button", ev.Button, "pressed", ev.Pressed)
	case linuxfb.TouchChange:
		logger.Info("touch", "slot", ev.Slot, "x", ev.X, "y", ev.Y, "phase", ev.Phase)
	case linuxfb.KeyChange:
		logger.Info("key", "code", ev.Code, "sym", fmt.Sprintf("%#x", uint32(ev.Sym)), "text", ev.Text, "pressed", ev.Pressed, "repeat", ev.Repeat)
	case linuxfb.DeviceAdded:
		logger.Info("device added", "name", ev.Device.Name, "path", ev.Device.Path, "caps", ev.Device.Caps)
	case linuxfb.DeviceRemoved:
		logger.Info("device removed", "id", string(ev.ID))
	}
}

func main() {
	logger := slog.New(glow.Handler{})
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx = linuxfb.WithLogger(ctx, logger)

	err := run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}
