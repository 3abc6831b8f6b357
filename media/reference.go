// Package media normalizes file-like upload inputs into handles and prepares
// their bytes and type metadata for a chunked media upload.
package media

import (
	"context"
	"io"
)

// Reference is a caller-supplied input that can be turned into a Handle.
// The set of implementations is closed: Path, Descriptor, Buffer, Object, Blob
// and ArrayBuffer.
type Reference interface {
	reference()
}

// Path is a filesystem path. Opening it is the runtime's job.
type Path string

// Descriptor is a raw OS file descriptor. The caller owns it and must close it.
type Descriptor int

// Buffer is media already held in memory.
type Buffer []byte

// Object wraps a handle-like value that knows how to stat and read itself.
type Object struct {
	File FileLike
}

// Blob is a browser Blob value.
type Blob struct {
	Data []byte
	// Type is the Blob's own MIME type. It is informational only and never
	// feeds MIME resolution; use MimeHints.MimeType to set the upload type.
	Type string
}

// ArrayBuffer is a browser ArrayBuffer value.
type ArrayBuffer []byte

func (Path) reference()        {}
func (Descriptor) reference()  {}
func (Buffer) reference()      {}
func (Object) reference()      {}
func (Blob) reference()        {}
func (ArrayBuffer) reference() {}

// FileStat is the subset of file status a FileLike must report.
type FileStat struct {
	Size int64
}

// FileLike is implemented by handle objects that expose their own read and stat operations.
type FileLike interface {
	ReadFile(ctx context.Context) ([]byte, error)
	Stat(ctx context.Context) (FileStat, error)
	// ReadAt reads len(p) bytes at off. It may return io.EOF alongside a short count.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
}

type readerAtObject struct {
	r    io.ReaderAt
	size int64
}

// NewReaderAtObject exposes an io.ReaderAt of known size as a FileLike.
func NewReaderAtObject(r io.ReaderAt, size int64) FileLike {
	return &readerAtObject{r: r, size: size}
}

func (o *readerAtObject) ReadFile(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.ReadAll(io.NewSectionReader(o.r, 0, o.size))
}

func (o *readerAtObject) Stat(ctx context.Context) (FileStat, error) {
	if err := ctx.Err(); err != nil {
		return FileStat{}, err
	}
	return FileStat{Size: o.size}, nil
}

func (o *readerAtObject) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return o.r.ReadAt(p, off)
}
