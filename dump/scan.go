package dump

import (
	"fmt"

	"github.com/lunixbochs/assetdump/models"
)

// Stats counts scan outcomes by reason.
type Stats struct {
	Candidates int
	Accepted   int
	Rejected   [numReasons]int
}

type Scanner struct {
	v     *Validator
	size  uint64
	Stats Stats
}

func NewScanner(v *Validator) *Scanner {
	return &Scanner{v: v, size: uint64(len(v.data))}
}

// Scan returns every asset found in [start, start+length), in ascending
// descriptor offset.
func (s *Scanner) Scan(start, length uint64) []*models.Asset {
	var assets []*models.Asset
	s.ScanFunc(start, length, func(a *models.Asset) error {
		assets = append(assets, a)
		return nil
	})
	return assets
}

// ScanFunc calls fn for each accepted descriptor. The walk advances one
// pointer at a time until the first hit, then one descriptor at a time.
// An error from fn ends the walk and is returned.
//
// A range reaching past the end of the file is a caller bug and panics.
func (s *Scanner) ScanFunc(start, length uint64, fn func(a *models.Asset) error) error {
	end := start + length
	if end < start {
		end = ^uint64(0)
	}
	if end > s.size {
		panic(fmt.Sprintf("scan range [%#x, %#x) exceeds file length %#x", start, end, s.size))
	}
	step := uint64(PointerSize)
	for off := start; off+DescriptorSize <= end; off += step {
		s.Stats.Candidates++
		asset, reason := s.v.check(off)
		if asset == nil {
			s.Stats.Rejected[reason]++
			continue
		}
		s.Stats.Accepted++
		step = DescriptorSize
		if err := fn(asset); err != nil {
			return err
		}
	}
	return nil
}
