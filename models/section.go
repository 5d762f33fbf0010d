package models

import "fmt"

type SectionKind int

const (
	KindOther SectionKind = iota
	KindText
	KindReadOnlyData
	KindData
	KindBSS
)

func (k SectionKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindReadOnlyData:
		return "rodata"
	case KindData:
		return "data"
	case KindBSS:
		return "bss"
	}
	return "other"
}

// Section is one section of a container as reported by a Loader.
// Off is always relative to the start of the whole file.
type Section struct {
	Name string
	Seg  string
	Kind SectionKind
	Addr uint64
	Off  uint64
	Size uint64
}

func (s *Section) Region() Region {
	return Region{Addr: s.Addr, Off: s.Off, Size: s.Size}
}

func (s Section) String() string {
	name := s.Name
	if s.Seg != "" {
		name = s.Seg + "," + s.Name
	}
	return fmt.Sprintf("%s [%s] addr=%#x off=%#x size=%#x", name, s.Kind, s.Addr, s.Off, s.Size)
}

// Region is a scannable byte range of the mapped file.
type Region struct {
	Addr, Off, Size uint64
}

func (r *Region) ContainsVirt(addr uint64) bool {
	return r.Addr <= addr && addr-r.Addr < r.Size
}

// End returns Off+Size, saturating at the top of the address space.
func (r *Region) End() uint64 {
	end := r.Off + r.Size
	if end < r.Off {
		return ^uint64(0)
	}
	return end
}
