package keymap

import "testing"

func TestUSTableLetters(t *testing.T) {
	var tab usTable

	if k := tab.resolve(30, true); k.Text != "a" || k.Sym != 'a' {
		t.Errorf("KEY_A = %+v, want a", k)
	}

	tab.resolve(42, true) // left shift down
	if k := tab.resolve(30, true); k.Text != "A" || k.Sym != 'A' {
		t.Errorf("shift KEY_A = %+v, want A", k)
	}

	tab.resolve(42, false) // left shift up
	if k := tab.resolve(30, true); k.Text != "a" {
		t.Errorf("KEY_A after shift release = %+v, want a", k)
	}
}

func TestUSTableShiftedSymbols(t *testing.T) {
	var tab usTable

	if k := tab.resolve(3, true); k.Text != "2" {
		t.Errorf("KEY_2 = %q, want 2", k.Text)
	}
	tab.resolve(54, true) // right shift
	if k := tab.resolve(3, true); k.Text != "@" {
		t.Errorf("shift KEY_2 = %q, want @", k.Text)
	}
}

func TestUSTableCapsLock(t *testing.T) {
	var tab usTable

	tab.resolve(58, true) // caps lock press toggles
	tab.resolve(58, false)
	if k := tab.resolve(44, true); k.Text != "Z" {
		t.Errorf("caps KEY_Z = %q, want Z", k.Text)
	}

	// Shift undoes caps for letters.
	tab.resolve(42, true)
	if k := tab.resolve(44, true); k.Text != "z" {
		t.Errorf("caps+shift KEY_Z = %q, want z", k.Text)
	}
	// But not for the number row.
	if k := tab.resolve(2, true); k.Text != "!" {
		t.Errorf("caps+shift KEY_1 = %q, want !", k.Text)
	}
}

func TestUSTableSpecials(t *testing.T) {
	var tab usTable

	if k := tab.resolve(28, true); k.Sym != SymReturn || k.Text != "\r" {
		t.Errorf("KEY_ENTER = %+v", k)
	}
	if k := tab.resolve(103, true); k.Sym != SymUp || k.Text != "" {
		t.Errorf("KEY_UP = %+v", k)
	}
	if k := tab.resolve(1, true); k.Sym != SymEscape {
		t.Errorf("KEY_ESC = %+v", k)
	}

	tab.resolve(42, true)
	if k := tab.resolve(15, true); k.Sym != SymBacktab {
		t.Errorf("shift KEY_TAB = %+v, want backtab", k)
	}
}

func TestUSTableUnknownCode(t *testing.T) {
	var tab usTable
	if k := tab.resolve(240, true); k != (Key{}) {
		t.Errorf("unknown code = %+v, want zero Key", k)
	}
}
