package ogawa

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	binpkg "github.com/robert-malhotra/go-ogawa/internal/binary"
	"github.com/robert-malhotra/go-ogawa/internal/chunk"
	"github.com/robert-malhotra/go-ogawa/internal/errs"
	"github.com/robert-malhotra/go-ogawa/internal/fileheader"
	"github.com/robert-malhotra/go-ogawa/internal/header"
	"github.com/robert-malhotra/go-ogawa/internal/table"
)

// Children of the archive's top group.
const (
	topArchiveVersion = iota
	topLibraryVersion
	topRootObject
	topMetaData
	topTimeSamplings
	topIndexedMetaData
	topChildCount
)

// ArchiveVersion is the only archive layout version this package reads.
const ArchiveVersion int32 = 0

// Archive is an open Ogawa archive. The top-level header, root group and
// shared tables are loaded once by New; everything below is loaded on
// demand.
type Archive struct {
	src    Source
	closer io.Closer
	reader *binpkg.Reader
	log    zerolog.Logger

	fileHeader     *fileheader.Header
	top            *chunk.Group
	rootGroup      *chunk.Group
	archiveVersion int32
	libraryVersion int32
	metadata       table.MetaData
	indexed        *table.IndexedMetaData
	samplings      *table.TimeSamplings
	root           *ObjectReader

	closed bool
}

// Open opens the archive at path.
func Open(path string, opts ...Option) (*Archive, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var src interface {
		Source
		io.Closer
	}
	var err error
	if o.mmap {
		src, err = OpenMmap(path)
	} else {
		src, err = OpenFile(path)
	}
	if err != nil {
		return nil, err
	}

	a, err := New(src, opts...)
	if err != nil {
		src.Close()
		return nil, err
	}
	if a.closer == nil {
		a.closer = src
	}
	a.log.Debug().Str("path", path).Bool("mmap", o.mmap).Msg("archive file opened")
	return a, nil
}

// New reads the archive structure from src. Closing the archive closes src
// only when a cache was layered over it by WithCache.
func New(src Source, opts ...Option) (*Archive, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	a := &Archive{src: src, log: o.logger}
	if o.cachePages > 0 {
		cached, err := NewCachedSource(src, o.cachePage, o.cachePages)
		if err != nil {
			return nil, err
		}
		a.src = cached
		a.closer = cached
	}
	a.reader = binpkg.NewReader(a.src)

	if err := a.load(); err != nil {
		return nil, err
	}

	ev := a.log.Debug().
		Uint16("format_version", a.fileHeader.Version).
		Bool("frozen", a.fileHeader.Frozen).
		Int32("archive_version", a.archiveVersion).
		Int32("library_version", a.libraryVersion).
		Int("time_samplings", a.samplings.Len()).
		Int("indexed_metadata", a.indexed.Len()).
		Int("root_children", a.root.NumChildren())
	if a.reader.Size() != binpkg.UnknownSize {
		ev = ev.Int64("size", a.reader.Size())
	}
	ev.Msg("archive opened")
	if !a.fileHeader.Frozen {
		a.log.Warn().Msg("archive is not frozen; the writer may not have finished")
	}
	return a, nil
}

func (a *Archive) load() error {
	fh, err := fileheader.Read(a.reader)
	if err != nil {
		return fmt.Errorf("reading file header: %w", err)
	}
	a.fileHeader = fh

	a.top, err = chunk.ReadRoot(a.reader, fh.RootAddress)
	if err != nil {
		return fmt.Errorf("reading top group: %w", err)
	}
	if a.top.ChildCount() < topChildCount {
		return errs.Mismatch("read top group", a.top.Position, "child count", topChildCount, a.top.ChildCount())
	}

	if a.archiveVersion, err = a.readInt32(topArchiveVersion); err != nil {
		return fmt.Errorf("reading archive version: %w", err)
	}
	if a.archiveVersion != ArchiveVersion {
		return errs.Unsupported("read archive version", a.top.Position, "archive version", a.archiveVersion)
	}
	if a.libraryVersion, err = a.readInt32(topLibraryVersion); err != nil {
		return fmt.Errorf("reading library version: %w", err)
	}

	if a.rootGroup, err = a.top.LoadGroup(a.reader, topRootObject); err != nil {
		return fmt.Errorf("reading root object group: %w", err)
	}

	buf, _, err := a.readTopData(topMetaData)
	if err != nil {
		return fmt.Errorf("reading archive metadata: %w", err)
	}
	a.metadata = table.ParseMetaData(string(buf))

	buf, pos, err := a.readTopData(topTimeSamplings)
	if err != nil {
		return fmt.Errorf("reading time samplings: %w", err)
	}
	if a.samplings, err = table.ReadTimeSamplings(buf, pos); err != nil {
		return fmt.Errorf("reading time samplings: %w", err)
	}

	buf, pos, err = a.readTopData(topIndexedMetaData)
	if err != nil {
		return fmt.Errorf("reading indexed metadata: %w", err)
	}
	if a.indexed, err = table.ReadIndexedMetaData(buf, pos); err != nil {
		return fmt.Errorf("reading indexed metadata: %w", err)
	}

	if a.root, err = newObjectReader(a, a.rootGroup, header.RootObjectHeader(a.metadata)); err != nil {
		return fmt.Errorf("reading root object: %w", err)
	}
	return nil
}

func (a *Archive) readTopData(index int) ([]byte, int64, error) {
	d, err := a.top.LoadData(a.reader, index)
	if err != nil {
		return nil, 0, err
	}
	buf, err := d.Read(a.reader)
	return buf, d.Position, err
}

func (a *Archive) readInt32(index int) (int32, error) {
	buf, pos, err := a.readTopData(index)
	if err != nil {
		return 0, err
	}
	if len(buf) != 4 {
		return 0, errs.Mismatch("read version", pos, "size", 4, len(buf))
	}
	return int32(binary.LittleEndian.Uint32(buf)), nil
}

// Close releases the byte source if the archive owns it. It is safe to call
// more than once.
func (a *Archive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// Root returns the root object, named "ABC" with full name "/".
func (a *Archive) Root() *ObjectReader {
	return a.root
}

// RootGroup returns the group backing the root object.
func (a *Archive) RootGroup() *Group {
	return a.rootGroup
}

// TopGroup returns the archive's top group, whose children are the version
// chunks, the root object and the shared tables.
func (a *Archive) TopGroup() *Group {
	return a.top
}

// Frozen reports whether the writer finished the archive.
func (a *Archive) Frozen() bool {
	return a.fileHeader.Frozen
}

// FormatVersion returns the Ogawa format version.
func (a *Archive) FormatVersion() uint16 {
	return a.fileHeader.Version
}

// ArchiveVersion returns the archive layout version.
func (a *Archive) ArchiveVersion() int32 {
	return a.archiveVersion
}

// LibraryVersion returns the version of the library that wrote the archive,
// e.g. 10709 for 1.7.9.
func (a *Archive) LibraryVersion() int32 {
	return a.libraryVersion
}

// MetaData returns the archive metadata.
func (a *Archive) MetaData() MetaData {
	return a.metadata
}

// IndexedMetaData returns the shared metadata table.
func (a *Archive) IndexedMetaData() *IndexedMetaData {
	return a.indexed
}

// TimeSamplings returns the shared time sampling table.
func (a *Archive) TimeSamplings() *TimeSamplings {
	return a.samplings
}

// Source returns the byte source reads go through.
func (a *Archive) Source() Source {
	return a.src
}

// Size returns the source length, or -1 when the source cannot report it.
func (a *Archive) Size() int64 {
	return a.reader.Size()
}

// LoadGroup loads child index of g as a group.
func (a *Archive) LoadGroup(g *Group, index int) (*Group, error) {
	return g.LoadGroup(a.reader, index)
}

// LoadData loads child index of g as a data chunk, without its payload.
func (a *Archive) LoadData(g *Group, index int) (Data, error) {
	return g.LoadData(a.reader, index)
}

// LoadChunk loads child index of g as whichever kind its address names.
func (a *Archive) LoadChunk(g *Group, index int) (Chunk, error) {
	return g.LoadChunk(a.reader, index)
}

// ReadData reads the payload of d.
func (a *Archive) ReadData(d Data) ([]byte, error) {
	return d.Read(a.reader)
}

// ReadPODArray decodes the payload of d as elements of dt.
func (a *Archive) ReadPODArray(d Data, dt DataType) (Array, error) {
	return d.ReadPODArray(a.reader, dt)
}
