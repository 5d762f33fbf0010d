package loader

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/lunixbochs/assetdump/models"
)

var (
	UnknownMagic   = errors.New("could not identify file magic")
	ErrUnsupported = errors.New("format not supported")
)

func Load(r io.ReaderAt) (models.Loader, error) {
	return LoadArch(r, "any")
}

func LoadBytes(p []byte, arch string) (models.Loader, error) {
	return LoadArch(bytes.NewReader(p), arch)
}

// LoadArch sniffs the container magic and parses its section table. The
// arch hint only matters for fat Mach-O files.
func LoadArch(r io.ReaderAt, arch string) (models.Loader, error) {
	if MatchPE(r) {
		return NewPELoader(r)
	} else if MatchMachO(r) {
		return NewMachOLoader(r, arch)
	} else if MatchElf(r) {
		return nil, errors.Wrap(ErrUnsupported, "ELF")
	} else {
		return nil, errors.Wrap(ErrUnsupported, UnknownMagic.Error())
	}
}

// IsUnsupported reports whether err came from an unsupported or unknown container.
func IsUnsupported(err error) bool {
	return errors.Cause(err) == ErrUnsupported
}
