package ogawa

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Source is the byte source an archive reads from. Every read is addressed
// by absolute offset. A Source that also has a Size() int64 method gets
// every structure bounds-checked against its length before reading.
//
// An archive never serializes access to its Source; concurrent traversals
// are safe only when the Source supports concurrent ReadAt calls, as all
// the sources in this package do.
type Source interface {
	io.ReaderAt
}

// BytesSource returns a Source over an in-memory archive image.
func BytesSource(b []byte) Source {
	return bytes.NewReader(b)
}

// FileSource reads an archive through an open file.
type FileSource struct {
	f    *os.File
	size int64
}

// OpenFile opens path as a FileSource.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}
	return &FileSource{f: f, size: st.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (s *FileSource) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

// Size returns the file length at open time.
func (s *FileSource) Size() int64 {
	return s.size
}

// Close closes the file.
func (s *FileSource) Close() error {
	return s.f.Close()
}

// MmapSource reads an archive through a read-only memory map.
type MmapSource struct {
	f    *os.File
	data mmap.MMap
}

// OpenMmap maps path read-only.
func OpenMmap(path string) (*MmapSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	s := &MmapSource{f: f}
	// Zero-length files cannot be mapped.
	if st.Size() == 0 {
		return s, nil
	}
	s.data, err = mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mapping file: %w", err)
	}
	return s, nil
}

// ReadAt implements io.ReaderAt.
func (s *MmapSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("mmap read: negative offset %d", off)
	}
	if off >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the mapped length.
func (s *MmapSource) Size() int64 {
	return int64(len(s.data))
}

// Close unmaps the file and closes it.
func (s *MmapSource) Close() error {
	var err error
	if s.data != nil {
		err = s.data.Unmap()
		s.data = nil
	}
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
