package loader

import (
	"bytes"
	"io"
)

var elfMagic = []byte{0x7f, 0x45, 0x4c, 0x46}
var cgcMagic = []byte{0x7f, 0x43, 0x47, 0x43}

// MatchElf reports ELF (and the CGC variant). Neither carries an asset table
// layout we know how to scan, so both are rejected by Load.
func MatchElf(r io.ReaderAt) bool {
	magic := getMagic(r)
	return bytes.Equal(magic, elfMagic) || bytes.Equal(magic, cgcMagic)
}
