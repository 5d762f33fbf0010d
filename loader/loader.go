package loader

import (
	"github.com/lunixbochs/assetdump/models"
)

type LoaderBase struct {
	format   models.Format
	arch     string
	bits     int
	base     uint64
	sections []models.Section
}

func (l *LoaderBase) Format() models.Format {
	return l.format
}

func (l *LoaderBase) Arch() string {
	return l.arch
}

func (l *LoaderBase) Bits() int {
	return l.bits
}

func (l *LoaderBase) Base() uint64 {
	return l.base
}

func (l *LoaderBase) Sections() []models.Section {
	return l.sections
}

// SelectSections returns the sections matching pred, in container order.
func SelectSections(l models.Loader, pred func(s *models.Section) bool) []models.Section {
	var ret []models.Section
	for _, s := range l.Sections() {
		s := s // per-iteration copy; go.mod targets go1.21
		if pred(&s) {
			ret = append(ret, s)
		}
	}
	return ret
}

// NewStaticLoader wraps an already known section list, for callers that
// describe an in-memory image without a container header, such as tests.
func NewStaticLoader(format models.Format, arch string, bits int, base uint64, sections []models.Section) models.Loader {
	return &LoaderBase{
		format:   format,
		arch:     arch,
		bits:     bits,
		base:     base,
		sections: sections,
	}
}
