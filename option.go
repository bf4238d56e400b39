package linuxfb

import (
	"deedles.dev/linuxfb/internal/config"
	"deedles.dev/linuxfb/internal/keymap"
)

// KeymapConfig selects the keyboard layout used to resolve key codes.
// Unset fields fall back to the rule database's system defaults.
type KeymapConfig struct {
	Rules   string
	Model   string
	Layout  []string
	Variant []string
	Options []string
}

func (c KeymapConfig) internal() keymap.Config {
	return keymap.Config{
		Rules:   c.Rules,
		Model:   c.Model,
		Layout:  c.Layout,
		Variant: c.Variant,
		Options: c.Options,
	}
}

type options struct {
	fbPath       string
	ttys         []string
	doubleBuffer bool
	autodiscover bool
	allow        []string
	deny         []string
	keymap       keymap.Config
	inputDir     string
	eventBuffer  int
}

// defaultOptions reads the environment exactly once. Explicit Option
// values override it.
func defaultOptions() options {
	return options{
		fbPath:       config.Framebuffer(),
		ttys:         config.TTYs(),
		doubleBuffer: true,
		autodiscover: true,
		keymap:       config.Keymap(),
		inputDir:     "/dev/input",
		eventBuffer:  64,
	}
}

// An Option adjusts backend construction.
type Option func(*options)

// WithFramebuffer sets the framebuffer device node to open.
func WithFramebuffer(path string) Option {
	return func(o *options) { o.fbPath = path }
}

// WithTTY sets the console device node to acquire, replacing the
// default fallback list.
func WithTTY(path string) Option {
	return func(o *options) { o.ttys = []string{path} }
}

// WithDoubleBuffer enables or disables the panning-based flip buffer.
// When enabled, the backend falls back to a single buffer if the
// driver rejects the enlarged virtual size.
func WithDoubleBuffer(enable bool) Option {
	return func(o *options) { o.doubleBuffer = enable }
}

// WithAutodiscovery enables or disables input device enumeration and
// hot-plug monitoring. With it disabled the backend produces no input
// events.
func WithAutodiscovery(enable bool) Option {
	return func(o *options) { o.autodiscover = enable }
}

// WithAllowedDevices restricts input to devices whose names exactly
// match one of the given names. A non-empty allow list takes
// precedence over WithBlockedDevices.
func WithAllowedDevices(names ...string) Option {
	return func(o *options) { o.allow = names }
}

// WithBlockedDevices excludes devices whose names exactly match one of
// the given names.
func WithBlockedDevices(names ...string) Option {
	return func(o *options) { o.deny = names }
}

// WithKeymap sets the keyboard layout configuration.
func WithKeymap(cfg KeymapConfig) Option {
	return func(o *options) { o.keymap = cfg.internal() }
}
