package fb

// <linux/fb.h> ioctls. 0x46 is 'F'.
const (
	fbioGetVScreeninfo = 0x4600
	fbioPutVScreeninfo = 0x4601
	fbioGetFScreeninfo = 0x4602
	fbioPanDisplay     = 0x4606
	fbioBlank          = 0x4611

	// _IOW('F', 0x20, __u32)
	fbioWaitForVSync = 0x40044620
)

const fbActivateNow = 0

// BlankLevel selects how much of the display pipeline is powered down
// by Blank. Not all drivers support the sync-suspend levels.
type BlankLevel uint32

const (
	BlankUnblank BlankLevel = iota
	BlankNormal
	BlankVSyncSuspend
	BlankHSyncSuspend
	BlankPowerdown
)

// Bitfield is struct fb_bitfield: the position of one color channel
// within a pixel. Offsets count from the right.
type Bitfield struct {
	Offset   uint32
	Length   uint32
	MsbRight uint32
}

// FixScreeninfo is struct fb_fix_screeninfo.
type FixScreeninfo struct {
	ID        [16]byte
	SMemStart uintptr
	SMemLen   uint32
	Type      uint32
	TypeAux   uint32
	Visual    uint32
	XPanStep  uint16
	YPanStep  uint16
	YWrapStep uint16
	LineLen   uint32
	MmioStart uintptr
	MmioLen   uint32
	Accel     uint32
	Caps      uint16
	_         [2]uint16
}

// VarScreeninfo is struct fb_var_screeninfo.
type VarScreeninfo struct {
	XRes         uint32
	YRes         uint32
	XResVirtual  uint32
	YResVirtual  uint32
	XOffset      uint32
	YOffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32

	Red    Bitfield
	Green  Bitfield
	Blue   Bitfield
	Transp Bitfield

	NonStd   uint32
	Activate uint32

	// Dimensions of the picture in mm.
	Height uint32
	Width  uint32

	_           uint32
	PixClock    uint32
	LeftMargin  uint32
	RightMargin uint32
	UpperMargin uint32
	LowerMargin uint32
	HSyncLen    uint32
	VSyncLen    uint32
	Sync        uint32
	VMode       uint32
	Rotate      uint32
	Colorspace  uint32
	_           [4]uint32
}

func (v *VarScreeninfo) BytesPerPixel() uint32 {
	return v.BitsPerPixel / 8
}
