package dump

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	// PointerSize is the only pointer width descriptors are decoded with.
	PointerSize = 8
	// DescriptorSize is the on-disk size of one Descriptor.
	DescriptorSize = 4 * PointerSize
)

// Descriptor is one raw asset table entry. Every field is untrusted.
type Descriptor struct {
	NamePtr  uint64
	NameLen  uint64
	DataPtr  uint64
	DataSize uint64
}

// DecodeDescriptor reads the four fields of a descriptor from the start of b.
// It runs once per scan step, so it reads the words directly.
func DecodeDescriptor(b []byte) (Descriptor, error) {
	if len(b) < DescriptorSize {
		return Descriptor{}, errors.Errorf("short descriptor: %d bytes", len(b))
	}
	return Descriptor{
		NamePtr:  binary.LittleEndian.Uint64(b[0:]),
		NameLen:  binary.LittleEndian.Uint64(b[8:]),
		DataPtr:  binary.LittleEndian.Uint64(b[16:]),
		DataSize: binary.LittleEndian.Uint64(b[24:]),
	}, nil
}
