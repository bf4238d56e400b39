package config

import (
	"slices"
	"testing"
)

func TestFramebuffer(t *testing.T) {
	t.Setenv("SLINT_FRAMEBUFFER", "")
	if got := Framebuffer(); got != "/dev/fb0" {
		t.Errorf("Framebuffer() = %q, want /dev/fb0", got)
	}

	t.Setenv("SLINT_FRAMEBUFFER", "/dev/fb1")
	if got := Framebuffer(); got != "/dev/fb1" {
		t.Errorf("Framebuffer() = %q, want /dev/fb1", got)
	}
}

func TestTTYs(t *testing.T) {
	t.Setenv("SLINT_TTY_DEVICE", "")
	if got := TTYs(); !slices.Equal(got, []string{"/dev/tty1", "/dev/tty0"}) {
		t.Errorf("TTYs() = %v, want the tty1/tty0 fallback chain", got)
	}

	t.Setenv("SLINT_TTY_DEVICE", "/dev/tty3")
	if got := TTYs(); !slices.Equal(got, []string{"/dev/tty3"}) {
		t.Errorf("TTYs() = %v, want just /dev/tty3", got)
	}
}

func TestKeymap(t *testing.T) {
	t.Setenv("XKB_DEFAULT_RULES", "evdev")
	t.Setenv("XKB_DEFAULT_MODEL", "")
	t.Setenv("XKB_DEFAULT_LAYOUT", "us, de ,")
	t.Setenv("XKB_DEFAULT_VARIANT", "")
	t.Setenv("XKB_DEFAULT_OPTIONS", "grp:alt_shift_toggle")

	cfg := Keymap()
	if cfg.Rules != "evdev" {
		t.Errorf("Rules = %q", cfg.Rules)
	}
	if cfg.Model != "" {
		t.Errorf("Model = %q, want empty", cfg.Model)
	}
	if !slices.Equal(cfg.Layout, []string{"us", "de"}) {
		t.Errorf("Layout = %v, want [us de]", cfg.Layout)
	}
	if cfg.Variant != nil {
		t.Errorf("Variant = %v, want nil", cfg.Variant)
	}
	if !slices.Equal(cfg.Options, []string{"grp:alt_shift_toggle"}) {
		t.Errorf("Options = %v", cfg.Options)
	}
}
