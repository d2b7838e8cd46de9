package ogawa

import (
	"errors"
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedSource is a page cache over another Source. Pages are fetched whole
// on first access and evicted least recently used first. It is safe for
// concurrent use if the underlying Source is.
type CachedSource struct {
	src      Source
	pageSize int64
	pages    *lru.Cache[int64, []byte]
	size     int64
}

// NewCachedSource wraps src with a cache of pages pages of pageSize bytes.
func NewCachedSource(src Source, pageSize, pages int) (*CachedSource, error) {
	if pageSize <= 0 || pages <= 0 {
		return nil, fmt.Errorf("cache: invalid geometry %d × %d", pages, pageSize)
	}
	c, err := lru.New[int64, []byte](pages)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	size := int64(-1)
	if s, ok := src.(interface{ Size() int64 }); ok {
		size = s.Size()
	}
	return &CachedSource{src: src, pageSize: int64(pageSize), pages: c, size: size}, nil
}

// ReadAt implements io.ReaderAt.
func (c *CachedSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("cache read: negative offset %d", off)
	}
	n := 0
	for n < len(p) {
		pos := off + int64(n)
		index := pos / c.pageSize
		page, err := c.page(index)
		if err != nil {
			return n, err
		}
		within := pos - index*c.pageSize
		if within >= int64(len(page)) {
			return n, io.EOF
		}
		n += copy(p[n:], page[within:])
		if int64(len(page)) < c.pageSize && n < len(p) {
			return n, io.EOF
		}
	}
	return n, nil
}

func (c *CachedSource) page(index int64) ([]byte, error) {
	if page, ok := c.pages.Get(index); ok {
		return page, nil
	}
	buf := make([]byte, c.pageSize)
	n, err := c.src.ReadAt(buf, index*c.pageSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	page := buf[:n]
	c.pages.Add(index, page)
	return page, nil
}

// Size returns the underlying source's size, or -1 if it has none.
func (c *CachedSource) Size() int64 {
	return c.size
}

// Len returns the number of cached pages.
func (c *CachedSource) Len() int {
	return c.pages.Len()
}

// Close closes the underlying source if it is an io.Closer.
func (c *CachedSource) Close() error {
	c.pages.Purge()
	if cl, ok := c.src.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
