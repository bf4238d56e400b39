package evdev

import "unsafe"

const (
	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14
	iocDirBits  = 2

	iocNone  = 0
	iocWrite = 1
	iocRead  = 2

	iocReadEBase = (iocRead << iocDirShift) | ('E' << iocTypeShift)
)

const (
	eviocgversion = iocReadEBase | ((iota + 0x01) << iocNRShift) | (unsafe.Sizeof(int32(0)) << iocSizeShift)
	eviocgid      = iocReadEBase | ((iota + 0x01) << iocNRShift) | (unsafe.Sizeof(InputID{}) << iocSizeShift)
	eviocgrep     = iocReadEBase | ((iota + 0x01) << iocNRShift) | (unsafe.Sizeof([2]uint32{}) << iocSizeShift)
)

const (
	eviocgnameBase = iocReadEBase | ((iota + 0x06) << iocNRShift)
	eviocgphysBase
	eviocguniqBase
	eviocgpropBase
)

const (
	eviocgkeyBase = iocReadEBase | ((0x18 + iota) << iocNRShift)
	eviocgledBase
	eviocgsndBase
	eviocgswBase
)

const (
	eviocgabsBase = iocReadEBase | (unsafe.Sizeof(AbsInfo{}) << iocSizeShift)
)

func eviocgname(length uintptr) uintptr {
	return eviocgnameBase | (length << iocSizeShift)
}

func eviocguniq(length uintptr) uintptr {
	return eviocguniqBase | (length << iocSizeShift)
}

func eviocgbit(ev, length uintptr) uintptr {
	return iocReadEBase | ((0x20 + ev) << iocNRShift) | (length << iocSizeShift)
}

func eviocgabs(code uintptr) uintptr {
	return eviocgabsBase | ((0x40 + code) << iocNRShift)
}
