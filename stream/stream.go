// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// ChunkSize caps a single Read so storage I/O on the output path stays
	// short and bounded.
	ChunkSize = 4096 * 4

	// SeekSize is a whence value that reports the stream size without moving
	// the read position.
	SeekSize = 0x10000
)

// Source is the byte stream of one audio asset.
type Source interface {
	io.ReadSeeker
	io.Closer

	// Size is the total length in bytes.
	Size() int64
	// Name identifies the asset in diagnostics; its extension is used when
	// the container cannot be recognised from its header.
	Name() string
}

// File is a Source backed by a file on disk.
type File struct {
	f    *os.File
	name string
	size int64
}

// Open opens path for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w", err)
	}
	if fi.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	}

	return &File{f: f, name: filepath.Base(path), size: fi.Size()}, nil
}

func (s *File) Read(p []byte) (int, error) {
	if len(p) > ChunkSize {
		p = p[:ChunkSize]
	}
	return s.f.Read(p)
}

func (s *File) Seek(offset int64, whence int) (int64, error) {
	if whence == SeekSize {
		return s.size, nil
	}
	return s.f.Seek(offset, whence)
}

func (s *File) Close() error { return s.f.Close() }
func (s *File) Size() int64  { return s.size }
func (s *File) Name() string { return s.name }

// Package is a Source bound to a byte range inside an archive. The archive
// itself is owned by the caller; closing a Package does not close it.
type Package struct {
	r    *io.SectionReader
	name string
}

// NewPackage binds the length bytes at offset of r. name is the asset's
// name inside the archive.
func NewPackage(r io.ReaderAt, offset, length int64, name string) *Package {
	return &Package{r: io.NewSectionReader(r, offset, length), name: name}
}

func (p *Package) Read(b []byte) (int, error) {
	if len(b) > ChunkSize {
		b = b[:ChunkSize]
	}
	return p.r.Read(b)
}

func (p *Package) Seek(offset int64, whence int) (int64, error) {
	if whence == SeekSize {
		return p.r.Size(), nil
	}

	n, err := p.r.Seek(offset, whence)
	if err != nil {
		return n, fmt.Errorf("%s: %w", p.name, err)
	}
	return n, nil
}

func (p *Package) Close() error { return nil }
func (p *Package) Size() int64  { return p.r.Size() }
func (p *Package) Name() string { return p.name }
