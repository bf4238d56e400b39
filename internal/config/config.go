// Package config resolves backend settings from the environment.
//
// Resolution is a pure function of the environment and compiled
// defaults: it is evaluated once while the backend configuration is
// built and never re-read afterwards. Explicit configuration set by
// the caller takes precedence over everything here.
package config

import (
	"os"
	"strings"

	"deedles.dev/linuxfb/internal/keymap"
)

const (
	// DefaultFramebuffer is used when SLINT_FRAMEBUFFER is unset.
	DefaultFramebuffer = "/dev/fb0"

	envFramebuffer = "SLINT_FRAMEBUFFER"
	envTTY         = "SLINT_TTY_DEVICE"

	envXKBRules   = "XKB_DEFAULT_RULES"
	envXKBModel   = "XKB_DEFAULT_MODEL"
	envXKBLayout  = "XKB_DEFAULT_LAYOUT"
	envXKBVariant = "XKB_DEFAULT_VARIANT"
	envXKBOptions = "XKB_DEFAULT_OPTIONS"
)

// defaultTTYs are tried in order when SLINT_TTY_DEVICE is unset.
var defaultTTYs = []string{"/dev/tty1", "/dev/tty0"}

// Framebuffer returns the framebuffer device path to open.
func Framebuffer() string {
	if path := os.Getenv(envFramebuffer); path != "" {
		return path
	}
	return DefaultFramebuffer
}

// TTYs returns the console candidate paths to try, in order. An
// explicitly configured device gets no fallback; the compiled defaults
// do.
func TTYs() []string {
	if path := os.Getenv(envTTY); path != "" {
		return []string{path}
	}
	return append([]string(nil), defaultTTYs...)
}

// Keymap returns the XKB configuration from the XKB_DEFAULT_*
// variables. Unset variables leave the corresponding field empty, to
// be resolved by the rule database.
func Keymap() keymap.Config {
	return keymap.Config{
		Rules:   os.Getenv(envXKBRules),
		Model:   os.Getenv(envXKBModel),
		Layout:  splitList(os.Getenv(envXKBLayout)),
		Variant: splitList(os.Getenv(envXKBVariant)),
		Options: splitList(os.Getenv(envXKBOptions)),
	}
}

func splitList(str string) []string {
	if str == "" {
		return nil
	}

	var list []string
	for _, part := range strings.Split(str, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			list = append(list, part)
		}
	}
	return list
}
