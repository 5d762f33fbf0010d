package loader

import (
	"bytes"
	"testing"

	"github.com/lunixbochs/assetdump/internal/testimage"
	"github.com/lunixbochs/assetdump/models"
)

func TestLoadUnsupported(t *testing.T) {
	elf := append([]byte{0x7f, 'E', 'L', 'F'}, make([]byte, 60)...)
	cgc := append([]byte{0x7f, 'C', 'G', 'C'}, make([]byte, 60)...)
	for name, p := range map[string][]byte{
		"elf":     elf,
		"cgc":     cgc,
		"garbage": []byte("definitely not an executable"),
		"empty":   nil,
	} {
		if _, err := Load(bytes.NewReader(p)); err == nil {
			t.Errorf("%s: loaded", name)
		} else if !IsUnsupported(err) {
			t.Errorf("%s: err = %v, want unsupported", name, err)
		}
	}
}

func TestLoadTruncatedPE(t *testing.T) {
	if _, err := LoadBytes([]byte("MZ\x00\x00"), "any"); err == nil {
		t.Fatal("loaded a truncated PE")
	}
}

func TestPESections(t *testing.T) {
	image, offsets := testimage.PE([]testimage.PESection{
		{Name: ".text", VirtualAddress: 0x1000, Characteristics: 0x60000020, Data: make([]byte, 0x30)},
		{Name: ".rdata", VirtualAddress: 0x2000, Characteristics: testimage.RDataCharacteristics, Data: make([]byte, 0x210)},
		{Name: ".data", VirtualAddress: 0x3000, Characteristics: 0xc0000040, Data: make([]byte, 0x10)},
		{Name: ".bss", VirtualAddress: 0x4000, Characteristics: 0xc0000080},
	})
	l, err := LoadBytes(image, "any")
	if err != nil {
		t.Fatal(err)
	}
	if l.Format() != models.FormatPE || l.Bits() != 64 || l.Arch() != "x86_64" {
		t.Fatalf("got format=%s bits=%d arch=%s", l.Format(), l.Bits(), l.Arch())
	}
	sections := l.Sections()
	if len(sections) != 4 {
		t.Fatalf("got %d sections", len(sections))
	}
	kinds := []models.SectionKind{models.KindText, models.KindReadOnlyData, models.KindData, models.KindBSS}
	for i, s := range sections {
		if s.Kind != kinds[i] {
			t.Errorf("%s: kind %s, want %s", s.Name, s.Kind, kinds[i])
		}
	}
	rdata := sections[1]
	if rdata.Addr != testimage.PEImageBase+0x2000 {
		t.Errorf(".rdata addr %#x", rdata.Addr)
	}
	if rdata.Off != offsets[1] {
		t.Errorf(".rdata offset %#x, want %#x", rdata.Off, offsets[1])
	}
	// raw size is padded to the file alignment, the virtual size is not
	if rdata.Size != 0x210 {
		t.Errorf(".rdata size %#x, want 0x210", rdata.Size)
	}
	matched := SelectSections(l, func(s *models.Section) bool { return s.Name == ".rdata" })
	if len(matched) != 1 || matched[0] != rdata {
		t.Errorf("SelectSections returned %v", matched)
	}
}

func TestMachOSections(t *testing.T) {
	image, offsets := testimage.MachO([]testimage.MachOSection{
		{Seg: "__TEXT", Name: "__text", Flags: 0x80000400, Data: make([]byte, 16)},
		{Seg: "__TEXT", Name: "__cstring", Flags: 0x2, Data: []byte("hi\x00")},
		{Seg: "__DATA_CONST", Name: "__const", Data: make([]byte, 64)},
		{Seg: "__DATA", Name: "__data", Data: make([]byte, 8)},
	})
	l, err := LoadBytes(image, "any")
	if err != nil {
		t.Fatal(err)
	}
	if l.Format() != models.FormatMachO || l.Arch() != "arm64" || l.Base() != 0 {
		t.Fatalf("got format=%s arch=%s base=%#x", l.Format(), l.Arch(), l.Base())
	}
	kinds := []models.SectionKind{models.KindText, models.KindReadOnlyData, models.KindReadOnlyData, models.KindData}
	for i, s := range l.Sections() {
		if s.Kind != kinds[i] {
			t.Errorf("%s,%s: kind %s, want %s", s.Seg, s.Name, s.Kind, kinds[i])
		}
		if s.Off != offsets[i] || s.Addr != offsets[i] {
			t.Errorf("%s,%s: off %#x addr %#x, want %#x", s.Seg, s.Name, s.Off, s.Addr, offsets[i])
		}
	}
}

func TestMachOFat(t *testing.T) {
	slice, offsets := testimage.MachO([]testimage.MachOSection{
		{Seg: "__DATA_CONST", Name: "__const", Data: make([]byte, 64)},
	})
	image, base := testimage.Fat(slice)
	l, err := LoadBytes(image, "any")
	if err != nil {
		t.Fatal(err)
	}
	if l.Base() != base {
		t.Errorf("base %#x, want %#x", l.Base(), base)
	}
	if s := l.Sections()[0]; s.Off != base+offsets[0] {
		t.Errorf("section offset %#x not rebased onto the slice", s.Off)
	}
	if _, err := LoadBytes(image, "x86_64"); err == nil {
		t.Error("loaded a fat file without a matching slice")
	}
}
