// Package dump finds and decodes the brotli asset table embedded in an
// executable.
package dump

import (
	"github.com/pkg/errors"

	"github.com/lunixbochs/assetdump/loader"
	"github.com/lunixbochs/assetdump/logger"
	"github.com/lunixbochs/assetdump/mapped"
	"github.com/lunixbochs/assetdump/models"
)

var ErrRegionBounds = errors.New("scan region exceeds file length")

type Session struct {
	File    *mapped.File
	Loader  models.Loader
	Variant *Variant

	scanner *Scanner
}

// Open maps path and prepares a scan. archHint picks a slice of a fat Mach-O.
func Open(path, archHint string) (*Session, error) {
	m, err := mapped.Open(path)
	if err != nil {
		return nil, err
	}
	l, err := loader.LoadBytes(m.Bytes(), archHint)
	if err != nil {
		m.Close()
		return nil, err
	}
	s, err := newSession(m, l)
	if err != nil {
		m.Close()
		return nil, err
	}
	return s, nil
}

// New prepares a scan over an in-memory image described by l.
func New(data []byte, l models.Loader) (*Session, error) {
	return newSession(mapped.FromBytes("<memory>", data), l)
}

func newSession(m *mapped.File, l models.Loader) (*Session, error) {
	variant, err := NewVariant(l)
	if err != nil {
		return nil, err
	}
	if variant.Scan.End() > uint64(m.Len()) {
		return nil, errors.Wrapf(ErrRegionBounds, "region %#x+%#x, file %#x", variant.Scan.Off, variant.Scan.Size, m.Len())
	}
	v, err := NewValidator(m.Bytes(), variant.Translator)
	if err != nil {
		return nil, err
	}
	logger.Debug("scan region selected",
		"format", variant.Format,
		"arch", l.Arch(),
		"offset", variant.Scan.Off,
		"size", variant.Scan.Size,
	)
	return &Session{
		File:    m,
		Loader:  l,
		Variant: variant,
		scanner: NewScanner(v),
	}, nil
}

// ScanFunc streams accepted assets to fn in descriptor order.
func (s *Session) ScanFunc(fn func(a *models.Asset) error) error {
	return s.scanner.ScanFunc(s.Variant.Scan.Off, s.Variant.Scan.Size, func(a *models.Asset) error {
		logger.Debug("found asset", "offset", a.Offset, "name", a.Name, "size", len(a.Compressed))
		return fn(a)
	})
}

// Assets scans the whole region. An empty result is ErrNoAssets.
func (s *Session) Assets() ([]*models.Asset, error) {
	var assets []*models.Asset
	err := s.ScanFunc(func(a *models.Asset) error {
		assets = append(assets, a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, errors.WithStack(ErrNoAssets)
	}
	return assets, nil
}

func (s *Session) Stats() Stats {
	return s.scanner.Stats
}

func (s *Session) Close() error {
	return s.File.Close()
}
