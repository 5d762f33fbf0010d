package dump

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/assetdump/loader"
	"github.com/lunixbochs/assetdump/models"
)

var (
	ErrRegionNotFound  = errors.New("scan region not found")
	ErrRegionAmbiguous = errors.New("scan region not unique")
	ErrNoAssets        = errors.New("no assets found")
)

// Variant is everything that differs between container formats. It is
// resolved once per session.
type Variant struct {
	Format     models.Format
	Translator Translator
	// Scan is the region walked for descriptors.
	Scan models.Region
}

func isRData(s *models.Section) bool {
	return s.Name == ".rdata" && s.Kind == models.KindReadOnlyData
}

func isConstData(s *models.Section) bool {
	return s.Seg == "__DATA_CONST" && s.Name == "__const"
}

// NewVariant selects the translator and scan region for l.
func NewVariant(l models.Loader) (*Variant, error) {
	switch l.Format() {
	case models.FormatPE:
		matched := loader.SelectSections(l, isRData)
		switch len(matched) {
		case 0:
			return nil, errors.Wrap(ErrRegionNotFound, ".rdata")
		case 1:
		default:
			return nil, errors.Wrapf(ErrRegionAmbiguous, ".rdata matched %d sections", len(matched))
		}
		region := matched[0].Region()
		return &Variant{
			Format:     models.FormatPE,
			Translator: &RegionTranslator{Region: region},
			Scan:       region,
		}, nil
	case models.FormatMachO:
		matched := loader.SelectSections(l, isConstData)
		if len(matched) == 0 {
			return nil, errors.Wrap(ErrRegionNotFound, "__DATA_CONST,__const")
		}
		return &Variant{
			Format:     models.FormatMachO,
			Translator: &MaskTranslator{Base: l.Base()},
			Scan:       matched[len(matched)-1].Region(),
		}, nil
	}
	return nil, errors.Wrap(loader.ErrUnsupported, l.Format().String())
}
