//go:build !cgo

package keymap

// Map falls back to the built-in US QWERTY table when libxkbcommon is
// not available. The configuration is accepted but not consulted.
type Map struct {
	table usTable
}

func New(cfg Config) (*Map, error) {
	return &Map{}, nil
}

// Resolve updates the shift/caps state for a key transition and
// returns the symbol and text the key produces.
func (m *Map) Resolve(code uint16, pressed bool) Key {
	return m.table.resolve(code, pressed)
}
