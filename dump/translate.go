package dump

import (
	"github.com/lunixbochs/assetdump/models"
)

// A Translator maps a pointer stored in a descriptor to a file offset.
type Translator interface {
	Translate(addr uint64) (uint64, bool)
}

// RegionTranslator resolves addresses that fall inside a single region.
type RegionTranslator struct {
	Region models.Region
}

func (t *RegionTranslator) Translate(addr uint64) (uint64, bool) {
	if !t.Region.ContainsVirt(addr) {
		return 0, false
	}
	return t.Region.Off + (addr - t.Region.Addr), true
}

// AddrMask keeps the low 48 bits of a tagged pointer.
const AddrMask = 0xFFFFFFFFFFFF

// MaskTranslator strips the tag bits of a pointer and uses the rest as an
// offset into the container, which itself starts at Base in the file.
type MaskTranslator struct {
	Base uint64
}

func (t *MaskTranslator) Translate(addr uint64) (uint64, bool) {
	return t.Base + addr&AddrMask, true
}
