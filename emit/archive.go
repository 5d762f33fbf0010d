package emit

import (
	"archive/tar"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// ArchiveSink writes assets as a zstd-compressed tar stream.
type ArchiveSink struct {
	w     io.WriteCloser
	zw    *zstd.Encoder
	tw    *tar.Writer
	mtime time.Time
}

func NewArchiveSink(w io.WriteCloser) (*ArchiveSink, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create zstd writer")
	}
	return &ArchiveSink{
		w:     w,
		zw:    zw,
		tw:    tar.NewWriter(zw),
		mtime: time.Now().Truncate(time.Second),
	}, nil
}

func (a *ArchiveSink) Put(name string, data []byte) error {
	rel, err := RelPath(name)
	if err != nil {
		return err
	}
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     rel,
		Mode:     0644,
		Size:     int64(len(data)),
		ModTime:  a.mtime,
	}
	if err := a.tw.WriteHeader(hdr); err != nil {
		return errors.Wrapf(err, "failed to add %s to archive", rel)
	}
	if _, err := a.tw.Write(data); err != nil {
		return errors.Wrapf(err, "failed to add %s to archive", rel)
	}
	return nil
}

func (a *ArchiveSink) Close() error {
	if err := a.tw.Close(); err != nil {
		return errors.Wrap(err, "failed to finish tar stream")
	}
	if err := a.zw.Close(); err != nil {
		return errors.Wrap(err, "failed to finish zstd stream")
	}
	return errors.WithStack(a.w.Close())
}
