// Package testimage builds small synthetic containers for tests.
package testimage

import (
	"bytes"
	"debug/macho"
	"debug/pe"
	"encoding/binary"
	"math/rand"

	"github.com/andybalholm/brotli"
)

// Brotli compresses p.
func Brotli(p []byte) []byte {
	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, brotli.BestCompression)
	w.Write(p)
	w.Close()
	return buf.Bytes()
}

// Descriptor encodes the four descriptor words little-endian.
func Descriptor(namePtr, nameLen, dataPtr, dataSize uint64) []byte {
	b := make([]byte, 32)
	binary.LittleEndian.PutUint64(b[0:], namePtr)
	binary.LittleEndian.PutUint64(b[8:], nameLen)
	binary.LittleEndian.PutUint64(b[16:], dataPtr)
	binary.LittleEndian.PutUint64(b[24:], dataSize)
	return b
}

// Noise returns n deterministic pseudo-random bytes.
func Noise(seed int64, n int) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(b)
	return b
}

// Region accumulates the contents of one section. Addresses returned by
// Put are virtual addresses computed from Addr.
type Region struct {
	Addr uint64
	buf  bytes.Buffer
}

func (r *Region) Put(p []byte) uint64 {
	addr := r.Addr + uint64(r.buf.Len())
	r.buf.Write(p)
	return addr
}

// Align pads with zeroes to a multiple of n.
func (r *Region) Align(n int) {
	for r.buf.Len()%n != 0 {
		r.buf.WriteByte(0)
	}
}

func (r *Region) Len() int {
	return r.buf.Len()
}

func (r *Region) Bytes() []byte {
	return r.buf.Bytes()
}

// Asset is a name/payload pair placed into a region by AddAsset.
type Asset struct {
	Name, Data string
}

// AddAsset stores the name and compressed payload in r and returns the
// descriptor referencing them.
func (r *Region) AddAsset(a Asset) []byte {
	name := r.Put([]byte(a.Name))
	z := Brotli([]byte(a.Data))
	data := r.Put(z)
	return Descriptor(name, uint64(len(a.Name)), data, uint64(len(z)))
}

const (
	PEImageBase   = 0x140000000
	peFileAlign   = 0x200
	peHeaderSpace = 0x400
)

// PESection describes one section of a synthetic PE image.
type PESection struct {
	Name            string
	VirtualAddress  uint32
	Characteristics uint32
	Data            []byte
}

const RDataCharacteristics = pe.IMAGE_SCN_CNT_INITIALIZED_DATA | pe.IMAGE_SCN_MEM_READ

// PE builds a 64-bit PE image and returns it with the file offset of each section.
func PE(sections []PESection) ([]byte, []uint64) {
	var buf bytes.Buffer
	dos := make([]byte, 0x80)
	dos[0], dos[1] = 'M', 'Z'
	binary.LittleEndian.PutUint32(dos[0x3c:], 0x80)
	buf.Write(dos)
	buf.WriteString("PE\x00\x00")

	fh := pe.FileHeader{
		Machine:              pe.IMAGE_FILE_MACHINE_AMD64,
		NumberOfSections:     uint16(len(sections)),
		SizeOfOptionalHeader: uint16(binary.Size(pe.OptionalHeader64{})),
		Characteristics:      pe.IMAGE_FILE_EXECUTABLE_IMAGE | pe.IMAGE_FILE_LARGE_ADDRESS_AWARE,
	}
	binary.Write(&buf, binary.LittleEndian, &fh)
	oh := pe.OptionalHeader64{
		Magic:               0x20b,
		ImageBase:           PEImageBase,
		SectionAlignment:    0x1000,
		FileAlignment:       peFileAlign,
		SizeOfHeaders:       peHeaderSpace,
		NumberOfRvaAndSizes: 16,
	}
	binary.Write(&buf, binary.LittleEndian, &oh)

	offsets := make([]uint64, len(sections))
	off := uint32(peHeaderSpace)
	for i, s := range sections {
		var sh pe.SectionHeader32
		copy(sh.Name[:], s.Name)
		sh.VirtualSize = uint32(len(s.Data))
		sh.VirtualAddress = s.VirtualAddress
		sh.SizeOfRawData = alignUp(uint32(len(s.Data)), peFileAlign)
		sh.PointerToRawData = off
		sh.Characteristics = s.Characteristics
		binary.Write(&buf, binary.LittleEndian, &sh)
		offsets[i] = uint64(off)
		off += sh.SizeOfRawData
	}
	image := make([]byte, off)
	copy(image, buf.Bytes())
	for i, s := range sections {
		copy(image[offsets[i]:], s.Data)
	}
	return image, offsets
}

func alignUp(n, a uint32) uint32 {
	return (n + a - 1) &^ (a - 1)
}

// MachOSection describes one section of a synthetic 64-bit Mach-O image.
// Sections are laid out so that file offset == vmaddr.
type MachOSection struct {
	Seg, Name string
	Flags     uint32
	Data      []byte
}

const machoHeaderSpace = 0x1000

// MachO builds a thin arm64 Mach-O with one segment per section and returns
// the image and each section's file offset (which is also its vmaddr).
func MachO(sections []MachOSection) ([]byte, []uint64) {
	var cmds bytes.Buffer
	offsets := make([]uint64, len(sections))
	off := uint64(machoHeaderSpace)
	for i, s := range sections {
		size := uint64(len(s.Data))
		seg := macho.Segment64{
			Cmd:     macho.LoadCmdSegment64,
			Len:     uint32(binary.Size(macho.Segment64{}) + binary.Size(macho.Section64{})),
			Addr:    off,
			Memsz:   size,
			Offset:  off,
			Filesz:  size,
			Maxprot: 1,
			Prot:    1,
			Nsect:   1,
		}
		copy(seg.Name[:], s.Seg)
		binary.Write(&cmds, binary.LittleEndian, &seg)
		sect := macho.Section64{
			Addr:   off,
			Size:   size,
			Offset: uint32(off),
			Align:  3,
			Flags:  s.Flags,
		}
		copy(sect.Name[:], s.Name)
		copy(sect.Seg[:], s.Seg)
		binary.Write(&cmds, binary.LittleEndian, &sect)
		offsets[i] = off
		off += (size + 0xfff) &^ 0xfff
	}
	fh := macho.FileHeader{
		Magic:  macho.Magic64,
		Cpu:    macho.CpuArm64,
		Type:   macho.TypeExec,
		Ncmd:   uint32(len(sections)),
		Cmdsz:  uint32(cmds.Len()),
		SubCpu: 0,
	}
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, &fh)
	buf.Write([]byte{0, 0, 0, 0})
	buf.Write(cmds.Bytes())

	image := make([]byte, off)
	copy(image, buf.Bytes())
	for i, s := range sections {
		copy(image[offsets[i]:], s.Data)
	}
	return image, offsets
}

// Fat wraps a single arm64 slice in a fat header, placing it at the returned offset.
func Fat(slice []byte) ([]byte, uint64) {
	const sliceOff = 0x4000
	image := make([]byte, sliceOff+len(slice))
	binary.BigEndian.PutUint32(image[0:], macho.MagicFat)
	binary.BigEndian.PutUint32(image[4:], 1)
	binary.BigEndian.PutUint32(image[8:], uint32(macho.CpuArm64))
	binary.BigEndian.PutUint32(image[12:], 0)
	binary.BigEndian.PutUint32(image[16:], sliceOff)
	binary.BigEndian.PutUint32(image[20:], uint32(len(slice)))
	binary.BigEndian.PutUint32(image[24:], 14)
	copy(image[sliceOff:], slice)
	return image, sliceOff
}
