// Package index reads and writes scan index files: a fixed header followed
// by a snappy-framed stream of one record per extracted asset.
package index

import (
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/lunixbochs/assetdump/models"
)

var INDEX_MAGIC = "ADIX"

const Version = 1

type Header struct {
	// MAGIC ("ADIX")
	Magic string `struc:"[4]byte" json:"-"`
	// file format version
	Version uint32 `json:"version"`

	// Container format. Possible values are "pe" and "macho". Right-null-padded.
	Format string `struc:"[8]byte" json:"format"`
	// Container architecture, e.g. "x86_64" or "arm64". Right-null-padded.
	Arch string `struc:"[16]byte" json:"arch"`

	// Scanned region of the input file.
	RegionOff  uint64 `json:"region_offset"`
	RegionSize uint64 `json:"region_size"`
}

type Record struct {
	// file offset of the descriptor
	Offset         uint64 `json:"offset"`
	CompressedSize uint64 `json:"compressed_size"`
	Size           uint64 `json:"size"`
	NameLen        uint16 `struc:"uint16,sizeof=Name" json:"-"`
	Name           string `json:"name"`
}

// RecordFor describes a and its decompressed size.
func RecordFor(a *models.Asset, size int) *Record {
	return &Record{
		Offset:         a.Offset,
		CompressedSize: uint64(len(a.Compressed)),
		Size:           uint64(size),
		Name:           a.Name,
	}
}

type Writer struct {
	w  io.WriteCloser
	zw *snappy.Writer
}

func NewWriter(w io.WriteCloser, header Header) (*Writer, error) {
	header.Magic = INDEX_MAGIC
	header.Version = Version
	if err := struc.Pack(w, &header); err != nil {
		return nil, errors.Wrap(err, "failed to pack header")
	}
	return &Writer{w: w, zw: snappy.NewBufferedWriter(w)}, nil
}

func (t *Writer) Write(rec *Record) error {
	if len(rec.Name) > 0xffff {
		return errors.Errorf("asset name too long for index (%d bytes)", len(rec.Name))
	}
	return errors.WithStack(struc.Pack(t.zw, rec))
}

func (t *Writer) Close() error {
	if err := t.zw.Close(); err != nil {
		t.w.Close()
		return errors.WithStack(err)
	}
	return errors.WithStack(t.w.Close())
}

type Reader struct {
	r      io.ReadCloser
	zr     *snappy.Reader
	Header Header
}

func NewReader(r io.ReadCloser) (*Reader, error) {
	t := &Reader{r: r}
	if err := struc.Unpack(r, &t.Header); err != nil {
		return nil, errors.Wrap(err, "failed to unpack header")
	}
	if t.Header.Magic != INDEX_MAGIC {
		return nil, errors.New("invalid index file magic")
	}
	if t.Header.Version != Version {
		return nil, errors.Errorf("unsupported index version %d", t.Header.Version)
	}
	t.Header.Format = strings.TrimRight(t.Header.Format, "\x00")
	t.Header.Arch = strings.TrimRight(t.Header.Arch, "\x00")
	if models.ParseFormat(t.Header.Format) == models.FormatUnknown {
		return nil, errors.Errorf("unknown container format %q", t.Header.Format)
	}
	t.zr = snappy.NewReader(r)
	return t, nil
}

// Next returns io.EOF after the last record.
func (t *Reader) Next() (*Record, error) {
	var rec Record
	if err := struc.Unpack(t.zr, &rec); err != nil {
		if errors.Cause(err) == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "failed to unpack record")
	}
	return &rec, nil
}

func (t *Reader) Close() {
	t.zr.Reset(nil)
	t.r.Close()
}
