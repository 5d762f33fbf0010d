package loader

import (
	"bytes"
	"debug/macho"
	"io"

	"github.com/pkg/errors"

	"github.com/lunixbochs/assetdump/models"
)

const (
	machoSectionTypeMask = 0xff
	machoZerofill        = 0x1
	machoGBZerofill      = 0xc
	machoPureInstr       = 0x80000000
)

var machoCpuMap = map[macho.Cpu]string{
	macho.Cpu386:   "x86",
	macho.CpuAmd64: "x86_64",
	macho.CpuArm:   "arm",
	macho.CpuArm64: "arm64",
	macho.CpuPpc:   "ppc",
	macho.CpuPpc64: "ppc64",
}

var fatMagic = []byte{0xca, 0xfe, 0xba, 0xbe}

var machoMagics = [][]byte{
	fatMagic,
	{0xfe, 0xed, 0xfa, 0xce},
	{0xfe, 0xed, 0xfa, 0xcf},
	{0xce, 0xfa, 0xed, 0xfe},
	{0xcf, 0xfa, 0xed, 0xfe},
}

type MachOLoader struct {
	LoaderBase
}

func MatchMachO(r io.ReaderAt) bool {
	magic := getMagic(r)
	for _, check := range machoMagics {
		if bytes.Equal(magic, check) {
			return true
		}
	}
	return false
}

// openSlice returns the Mach-O image in r and its offset in the file. For
// fat files the first slice whose CPU matches archHint is used.
func openSlice(r io.ReaderAt, archHint string) (*macho.File, uint64, error) {
	if !bytes.Equal(getMagic(r), fatMagic) {
		file, err := macho.NewFile(r)
		if err != nil {
			return nil, 0, errors.Wrap(err, "failed to open MachO file")
		}
		return file, 0, nil
	}
	fat, err := macho.NewFatFile(r)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to open fat MachO file")
	}
	var seen []string
	for _, arch := range fat.Arches {
		name, ok := machoCpuMap[arch.Cpu]
		if !ok {
			continue
		}
		if archHint == "any" || name == archHint {
			return arch.File, uint64(arch.Offset), nil
		}
		seen = append(seen, name)
	}
	return nil, 0, errors.Errorf("no fat slice for arch %q (have %v)", archHint, seen)
}

func NewMachOLoader(r io.ReaderAt, archHint string) (models.Loader, error) {
	file, base, err := openSlice(r, archHint)
	if err != nil {
		return nil, err
	}
	var bits int
	switch file.Magic {
	case macho.Magic32:
		bits = 32
	case macho.Magic64:
		bits = 64
	default:
		return nil, errors.New("unknown magic")
	}
	machineName, ok := machoCpuMap[file.Cpu]
	if !ok {
		return nil, errors.Errorf("unsupported CPU: %s", file.Cpu)
	}
	sections := make([]models.Section, 0, len(file.Sections))
	for _, s := range file.Sections {
		kind := machoSectionKind(&s.SectionHeader)
		off := uint64(s.Offset)
		if kind != models.KindBSS {
			off += base
		}
		sections = append(sections, models.Section{
			Name: s.Name,
			Seg:  s.Seg,
			Kind: kind,
			Addr: s.Addr,
			Off:  off,
			Size: s.Size,
		})
	}
	return &MachOLoader{
		LoaderBase: LoaderBase{
			format:   models.FormatMachO,
			arch:     machineName,
			bits:     bits,
			base:     base,
			sections: sections,
		},
	}, nil
}

func machoSectionKind(s *macho.SectionHeader) models.SectionKind {
	switch s.Flags & machoSectionTypeMask {
	case machoZerofill, machoGBZerofill:
		return models.KindBSS
	}
	if s.Flags&machoPureInstr != 0 {
		return models.KindText
	}
	switch s.Seg {
	case "__TEXT", "__DATA_CONST":
		return models.KindReadOnlyData
	case "__DATA":
		if s.Name == "__const" {
			return models.KindReadOnlyData
		}
		return models.KindData
	}
	return models.KindOther
}
