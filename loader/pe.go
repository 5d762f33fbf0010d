package loader

import (
	"bytes"
	"debug/pe"
	"io"

	"github.com/pkg/errors"

	"github.com/lunixbochs/assetdump/models"
)

var peMachineMap = map[uint16]string{
	pe.IMAGE_FILE_MACHINE_I386:  "x86",
	pe.IMAGE_FILE_MACHINE_AMD64: "x86_64",
	pe.IMAGE_FILE_MACHINE_ARMNT: "arm",
	pe.IMAGE_FILE_MACHINE_ARM64: "arm64",
}

var peMagic = []byte{'M', 'Z'}

type PELoader struct {
	LoaderBase
}

func MatchPE(r io.ReaderAt) bool {
	return bytes.Equal(getMagic(r)[:2], peMagic)
}

func NewPELoader(r io.ReaderAt) (models.Loader, error) {
	file, err := pe.NewFile(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PE file")
	}
	var bits int
	var imageBase uint64
	switch oh := file.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		bits = 32
		imageBase = uint64(oh.ImageBase)
	case *pe.OptionalHeader64:
		bits = 64
		imageBase = oh.ImageBase
	default:
		return nil, errors.New("PE file has no optional header")
	}
	machineName, ok := peMachineMap[file.Machine]
	if !ok {
		machineName = "unknown"
	}
	sections := make([]models.Section, 0, len(file.Sections))
	for _, s := range file.Sections {
		sections = append(sections, models.Section{
			Name: s.Name,
			Kind: peSectionKind(s.Characteristics),
			Addr: imageBase + uint64(s.VirtualAddress),
			Off:  uint64(s.Offset),
			Size: peFileSize(&s.SectionHeader),
		})
	}
	return &PELoader{
		LoaderBase: LoaderBase{
			format:   models.FormatPE,
			arch:     machineName,
			bits:     bits,
			sections: sections,
		},
	}, nil
}

// peFileSize is the part of a section actually backed by file bytes.
func peFileSize(s *pe.SectionHeader) uint64 {
	if s.VirtualSize == 0 || s.Size < s.VirtualSize {
		return uint64(s.Size)
	}
	return uint64(s.VirtualSize)
}

func peSectionKind(c uint32) models.SectionKind {
	switch {
	case c&pe.IMAGE_SCN_CNT_CODE != 0:
		return models.KindText
	case c&pe.IMAGE_SCN_CNT_INITIALIZED_DATA != 0:
		if c&pe.IMAGE_SCN_MEM_WRITE != 0 {
			return models.KindData
		}
		return models.KindReadOnlyData
	case c&pe.IMAGE_SCN_CNT_UNINITIALIZED_DATA != 0:
		return models.KindBSS
	}
	return models.KindOther
}
