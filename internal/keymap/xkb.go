//go:build cgo

package keymap

/*
#cgo pkg-config: xkbcommon

#include <stdlib.h>
#include <xkbcommon/xkbcommon.h>
*/
import "C"
import (
	"errors"
	"runtime"
	"unsafe"
)

// Map is a compiled XKB keymap plus the live modifier/group state.
type Map struct {
	ctx    *C.struct_xkb_context
	keymap *C.struct_xkb_keymap
	state  *C.struct_xkb_state
}

// New compiles a keymap from the rule database for the given
// configuration. Empty fields resolve to system defaults.
func New(cfg Config) (*Map, error) {
	ctx := C.xkb_context_new(C.XKB_CONTEXT_NO_FLAGS)
	if ctx == nil {
		return nil, errors.New("create xkb context")
	}

	names := C.struct_xkb_rule_names{
		rules:   cstrOrNil(cfg.Rules),
		model:   cstrOrNil(cfg.Model),
		layout:  cstrOrNil(cfg.layout()),
		variant: cstrOrNil(cfg.variant()),
		options: cstrOrNil(cfg.options()),
	}
	defer freeRuleNames(&names)

	keymap := C.xkb_keymap_new_from_names(ctx, &names, C.XKB_KEYMAP_COMPILE_NO_FLAGS)
	if keymap == nil {
		C.xkb_context_unref(ctx)
		return nil, errors.New("compile keymap from rule names")
	}

	state := C.xkb_state_new(keymap)
	if state == nil {
		C.xkb_keymap_unref(keymap)
		C.xkb_context_unref(ctx)
		return nil, errors.New("create xkb state")
	}

	m := Map{ctx: ctx, keymap: keymap, state: state}
	runtime.SetFinalizer(&m, (*Map).free)
	return &m, nil
}

func (m *Map) free() {
	if m.state != nil {
		C.xkb_state_unref(m.state)
		m.state = nil
	}
	if m.keymap != nil {
		C.xkb_keymap_unref(m.keymap)
		m.keymap = nil
	}
	if m.ctx != nil {
		C.xkb_context_unref(m.ctx)
		m.ctx = nil
	}
}

// Resolve updates the modifier state for a key transition and returns
// the symbol and text the key produces under the active layout.
// pressed covers both press and autorepeat.
func (m *Map) Resolve(code uint16, pressed bool) Key {
	// evdev key codes are offset by 8 from XKB key codes.
	kc := C.xkb_keycode_t(uint32(code) + 8)

	dir := C.enum_xkb_key_direction(C.XKB_KEY_UP)
	if pressed {
		dir = C.XKB_KEY_DOWN
	}
	C.xkb_state_update_key(m.state, kc, dir)

	sym := C.xkb_state_key_get_one_sym(m.state, kc)

	var buf [64]C.char
	n := C.xkb_state_key_get_utf8(m.state, kc, &buf[0], C.size_t(len(buf)))

	var text string
	if n > 0 {
		text = C.GoStringN(&buf[0], n)
	}
	return Key{Sym: Sym(sym), Text: text}
}

func cstrOrNil(s string) *C.char {
	if s == "" {
		return nil
	}
	return C.CString(s)
}

func freeRuleNames(names *C.struct_xkb_rule_names) {
	for _, p := range []*C.char{names.rules, names.model, names.layout, names.variant, names.options} {
		if p != nil {
			C.free(unsafe.Pointer(p))
		}
	}
}
