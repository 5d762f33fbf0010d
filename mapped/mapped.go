// Package mapped provides a read-only view of a whole file.
package mapped

import (
	"os"

	"github.com/pkg/errors"
)

type File struct {
	Name  string
	data  []byte
	unmap func() error
}

// Open maps path read-only. The returned bytes must not be written to.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	stat, err := f.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !stat.Mode().IsRegular() {
		return nil, errors.Errorf("%s: not a regular file", path)
	}
	size := stat.Size()
	if int64(int(size)) != size {
		return nil, errors.Errorf("%s: file too large to map (%d bytes)", path, size)
	}
	m := &File{Name: path}
	if size == 0 {
		return m, nil
	}
	m.data, m.unmap, err = mapFile(f, int(size))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to map %s", path)
	}
	return m, nil
}

// FromBytes wraps an in-memory buffer.
func FromBytes(name string, p []byte) *File {
	return &File{Name: name, data: p}
}

func (m *File) Bytes() []byte {
	return m.data
}

func (m *File) Len() int {
	return len(m.data)
}

func (m *File) Close() error {
	if m.unmap == nil {
		m.data = nil
		return nil
	}
	err := m.unmap()
	m.data, m.unmap = nil, nil
	return errors.WithStack(err)
}
