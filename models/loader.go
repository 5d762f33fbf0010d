package models

type Loader interface {
	Format() Format
	Arch() string
	Bits() int
	// Base is the file offset the container starts at (non-zero for fat Mach-O slices).
	Base() uint64
	Sections() []Section
}
