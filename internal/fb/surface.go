package fb

import "golang.org/x/sys/unix"

// Surface is a memory-mapped view of framebuffer device memory, with a
// snapshot of the geometry current at mapping time. Once geometry
// changes or the surface is unmapped, Bytes returns nil and the old
// view must not be used.
type Surface struct {
	data    []byte
	vinfo   VarScreeninfo
	lineLen uint32
}

// Bytes returns the mapped memory, or nil after invalidation.
func (s *Surface) Bytes() []byte { return s.data }

// Len returns the length of the mapping in bytes.
func (s *Surface) Len() int { return len(s.data) }

// Screeninfo returns the geometry snapshot taken at mapping time.
func (s *Surface) Screeninfo() VarScreeninfo { return s.vinfo }

// LineLength returns the stride of one scanline in bytes.
func (s *Surface) LineLength() uint32 { return s.lineLen }

func (s *Surface) unmap() {
	if s.data != nil {
		unix.Munmap(s.data)
		s.data = nil
	}
}
