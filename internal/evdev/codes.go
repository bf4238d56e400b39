package evdev

// Event types from <linux/input-event-codes.h>.
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01
	EvRel uint16 = 0x02
	EvAbs uint16 = 0x03
	EvMsc uint16 = 0x04
	EvSw  uint16 = 0x05
	EvLed uint16 = 0x11
	EvSnd uint16 = 0x12
	EvRep uint16 = 0x14
	EvFf  uint16 = 0x15
)

// Numbers of valid codes per event type, for capability bitmap sizing.
const (
	evCount  = 0x1F + 1
	synCount = 0xF + 1
	keyCount = 0x2FF + 1
	relCount = 0x0F + 1
	absCount = 0x3F + 1
	swCount  = 0x10 + 1
	mscCount = 0x07 + 1
	ledCount = 0x0F + 1
	repCount = 0x01 + 1
	sndCount = 0x07 + 1
	ffCount  = 0x7F + 1
)

// Synchronization codes.
const (
	SynReport   uint16 = 0x00
	SynMTReport uint16 = 0x02
	SynDropped  uint16 = 0x03
)

// Relative axes.
const (
	RelX      uint16 = 0x00
	RelY      uint16 = 0x01
	RelHWheel uint16 = 0x06
	RelWheel  uint16 = 0x08
)

// Absolute axes.
const (
	AbsX            uint16 = 0x00
	AbsY            uint16 = 0x01
	AbsMTSlot       uint16 = 0x2F
	AbsMTPositionX  uint16 = 0x35
	AbsMTPositionY  uint16 = 0x36
	AbsMTTrackingID uint16 = 0x39
)

// Button and key codes the backend inspects directly. The full key
// range is passed through to the keymap untouched.
const (
	KeyEsc        uint16 = 1
	KeyEnter      uint16 = 28
	KeyLeftShift  uint16 = 42
	KeyRightShift uint16 = 54
	KeyA          uint16 = 30

	BtnMouse  uint16 = 0x110
	BtnLeft   uint16 = 0x110
	BtnRight  uint16 = 0x111
	BtnMiddle uint16 = 0x112
	BtnSide   uint16 = 0x113
	BtnExtra  uint16 = 0x114

	BtnToolFinger uint16 = 0x145
	BtnTouch      uint16 = 0x14A

	btnMin uint16 = 0x100
	btnMax uint16 = 0x151
)

// Key event values.
const (
	ValueRelease = 0
	ValuePress   = 1
	ValueRepeat  = 2
)

// IsButton reports whether code is in the BTN_* range rather than a
// keyboard key.
func IsButton(code uint16) bool {
	return code >= btnMin && code <= btnMax
}
