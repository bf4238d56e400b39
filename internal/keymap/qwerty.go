package keymap

// usTable is a static US QWERTY layout used when the rule database is
// unavailable. It tracks only shift and caps lock; other modifiers
// pass through as symbols with no text.
type usTable struct {
	shiftL bool
	shiftR bool
	caps   bool
}

type usEntry struct {
	base    string
	shifted string
	letter  bool
}

// resolve mirrors Map.Resolve for the built-in table.
func (t *usTable) resolve(code uint16, pressed bool) Key {
	switch code {
	case 42: // KEY_LEFTSHIFT
		t.shiftL = pressed
		return Key{Sym: SymShiftL}
	case 54: // KEY_RIGHTSHIFT
		t.shiftR = pressed
		return Key{Sym: SymShiftR}
	case 58: // KEY_CAPSLOCK
		if pressed {
			t.caps = !t.caps
		}
		return Key{Sym: SymCapsLock}
	}

	if sym, ok := usSpecial[code]; ok {
		if code == 15 && t.shift() { // shift-tab
			return Key{Sym: SymBacktab}
		}
		return usSpecialKey(sym)
	}

	e, ok := usPrintable[code]
	if !ok {
		return Key{}
	}

	text := e.base
	if e.letter {
		if t.shift() != t.caps {
			text = e.shifted
		}
	} else if t.shift() {
		text = e.shifted
	}
	return Key{Sym: Sym([]rune(text)[0]), Text: text}
}

func (t *usTable) shift() bool {
	return t.shiftL || t.shiftR
}

func usSpecialKey(sym Sym) Key {
	switch sym {
	case SymReturn:
		return Key{Sym: sym, Text: "\r"}
	case SymTab:
		return Key{Sym: sym, Text: "\t"}
	case SymEscape:
		return Key{Sym: sym, Text: "\x1b"}
	case SymBackspace:
		return Key{Sym: sym, Text: "\x08"}
	default:
		return Key{Sym: sym}
	}
}

var usSpecial = map[uint16]Sym{
	1:   SymEscape,
	14:  SymBackspace,
	15:  SymTab,
	28:  SymReturn,
	29:  SymControlL,
	56:  SymAltL,
	59:  SymF1,
	60:  SymF2,
	61:  SymF3,
	62:  SymF4,
	63:  SymF5,
	64:  SymF6,
	65:  SymF7,
	66:  SymF8,
	67:  SymF9,
	68:  SymF10,
	69:  SymNumLock,
	70:  SymScrollLock,
	87:  SymF11,
	88:  SymF12,
	96:  SymReturn, // keypad enter
	97:  SymControlR,
	99:  SymSysReq,
	100: SymAltR,
	102: SymHome,
	103: SymUp,
	104: SymPageUp,
	105: SymLeft,
	106: SymRight,
	107: SymEnd,
	108: SymDown,
	109: SymPageDown,
	110: SymInsert,
	111: SymDelete,
	119: SymPause,
	125: SymMetaL,
	126: SymMetaR,
	127: SymMenu,
}

var usPrintable = map[uint16]usEntry{
	2:  {"1", "!", false},
	3:  {"2", "@", false},
	4:  {"3", "#", false},
	5:  {"4", "$", false},
	6:  {"5", "%", false},
	7:  {"6", "^", false},
	8:  {"7", "&", false},
	9:  {"8", "*", false},
	10: {"9", "(", false},
	11: {"0", ")", false},
	12: {"-", "_", false},
	13: {"=", "+", false},

	16: {"q", "Q", true},
	17: {"w", "W", true},
	18: {"e", "E", true},
	19: {"r", "R", true},
	20: {"t", "T", true},
	21: {"y", "Y", true},
	22: {"u", "U", true},
	23: {"i", "I", true},
	24: {"o", "O", true},
	25: {"p", "P", true},
	26: {"[", "{", false},
	27: {"]", "}", false},

	30: {"a", "A", true},
	31: {"s", "S", true},
	32: {"d", "D", true},
	33: {"f", "F", true},
	34: {"g", "G", true},
	35: {"h", "H", true},
	36: {"j", "J", true},
	37: {"k", "K", true},
	38: {"l", "L", true},
	39: {";", ":", false},
	40: {"'", `"`, false},
	41: {"`", "~", false},

	43: {`\`, "|", false},
	44: {"z", "Z", true},
	45: {"x", "X", true},
	46: {"c", "C", true},
	47: {"v", "V", true},
	48: {"b", "B", true},
	49: {"n", "N", true},
	50: {"m", "M", true},
	51: {",", "<", false},
	52: {".", ">", false},
	53: {"/", "?", false},

	57: {" ", " ", false},
}
