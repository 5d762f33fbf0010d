// Package emit writes extracted assets somewhere.
package emit

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var ErrUnsafePath = errors.New("asset name escapes the output directory")

// A Sink receives asset contents in scan order. Putting the same name twice
// replaces the first content.
type Sink interface {
	Put(name string, data []byte) error
	Close() error
}

// RelPath converts an asset name to a cleaned slash-separated relative path
// by dropping its single leading separator.
func RelPath(name string) (string, error) {
	rel := name
	if strings.HasPrefix(rel, "/") {
		rel = rel[1:]
	}
	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || path.IsAbs(clean) {
		return "", errors.Wrap(ErrUnsafePath, name)
	}
	return clean, nil
}

// DirSink mirrors asset names under Root on Fs.
type DirSink struct {
	Fs   afero.Fs
	Root string
}

func NewDirSink(fs afero.Fs, root string) *DirSink {
	return &DirSink{Fs: fs, Root: root}
}

func (d *DirSink) Path(name string) (string, error) {
	rel, err := RelPath(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.Root, filepath.FromSlash(rel)), nil
}

func (d *DirSink) Put(name string, data []byte) error {
	path, err := d.Path(name)
	if err != nil {
		return err
	}
	if err := d.Fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create parent of %s", path)
	}
	if err := afero.WriteFile(d.Fs, path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

func (d *DirSink) Close() error {
	return nil
}

type multiSink []Sink

// Multi duplicates every Put to each sink in turn.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

func (m multiSink) Put(name string, data []byte) error {
	for _, s := range m {
		if err := s.Put(name, data); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
