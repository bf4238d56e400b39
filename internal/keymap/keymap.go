// Package keymap resolves raw evdev key codes to symbolic key
// identities and text.
//
// When built with cgo, resolution goes through libxkbcommon and the
// system XKB rule database, honoring the configured rules, model,
// layout, variant and options. Without cgo a built-in US QWERTY table
// is used and the configuration is ignored.
package keymap

import "strings"

// Config selects an XKB keymap. Empty fields fall back to the system
// defaults resolved by the rule database. The configuration is
// consulted once, when the map is compiled; layouts cannot be swapped
// afterwards.
type Config struct {
	Rules   string
	Model   string
	Layout  []string
	Variant []string
	Options []string
}

func (c Config) layout() string  { return strings.Join(c.Layout, ",") }
func (c Config) variant() string { return strings.Join(c.Variant, ",") }
func (c Config) options() string { return strings.Join(c.Options, ",") }

// Sym is a resolved key symbol. Values are XKB keysyms: printable
// Latin-1 characters map to their codepoint, function and control keys
// use the XK_* range.
type Sym uint32

// Keysyms for keys that produce no printable text.
const (
	SymNone Sym = 0

	SymBackspace  Sym = 0xff08
	SymTab        Sym = 0xff09
	SymReturn     Sym = 0xff0d
	SymPause      Sym = 0xff13
	SymScrollLock Sym = 0xff14
	SymSysReq     Sym = 0xff15
	SymEscape     Sym = 0xff1b

	SymHome     Sym = 0xff50
	SymLeft     Sym = 0xff51
	SymUp       Sym = 0xff52
	SymRight    Sym = 0xff53
	SymDown     Sym = 0xff54
	SymPageUp   Sym = 0xff55
	SymPageDown Sym = 0xff56
	SymEnd      Sym = 0xff57

	SymInsert  Sym = 0xff63
	SymMenu    Sym = 0xff67
	SymNumLock Sym = 0xff7f

	SymF1  Sym = 0xffbe
	SymF2  Sym = 0xffbf
	SymF3  Sym = 0xffc0
	SymF4  Sym = 0xffc1
	SymF5  Sym = 0xffc2
	SymF6  Sym = 0xffc3
	SymF7  Sym = 0xffc4
	SymF8  Sym = 0xffc5
	SymF9  Sym = 0xffc6
	SymF10 Sym = 0xffc7
	SymF11 Sym = 0xffc8
	SymF12 Sym = 0xffc9

	SymShiftL   Sym = 0xffe1
	SymShiftR   Sym = 0xffe2
	SymControlL Sym = 0xffe3
	SymControlR Sym = 0xffe4
	SymCapsLock Sym = 0xffe5
	SymMetaL    Sym = 0xffe7
	SymMetaR    Sym = 0xffe8
	SymAltL     Sym = 0xffe9
	SymAltR     Sym = 0xffea

	SymDelete Sym = 0xffff

	// ISO_Left_Tab, produced by shift-tab.
	SymBacktab Sym = 0xfe20
)

// Key is the result of resolving one key code against the active
// layout state.
type Key struct {
	Sym  Sym
	Text string
}
