//go:build unix

package media

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"golang.org/x/sys/unix"
)

// rawFile performs I/O directly on a caller-owned descriptor. Wrapping the
// descriptor in an *os.File would attach a finalizer that closes it.
type rawFile struct {
	fd int
}

func newRawFile(fd int) (descriptorFile, error) {
	return &rawFile{fd: fd}, nil
}

func (f *rawFile) name() string {
	return "fd:" + strconv.Itoa(f.fd)
}

func (f *rawFile) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Read(f.fd, p)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return 0, &os.PathError{Op: "read", Path: f.name(), Err: err}
		}
		if n == 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}

func (f *rawFile) ReadAt(p []byte, off int64) (int, error) {
	total := 0
	for total < len(p) {
		n, err := unix.Pread(f.fd, p[total:], off+int64(total))
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return total, &os.PathError{Op: "pread", Path: f.name(), Err: err}
		}
		if n == 0 {
			return total, io.EOF
		}
		total += n
	}
	return total, nil
}

func (f *rawFile) Stat() (os.FileInfo, error) {
	var st unix.Stat_t
	if err := unix.Fstat(f.fd, &st); err != nil {
		return nil, &os.PathError{Op: "fstat", Path: f.name(), Err: err}
	}
	return &rawFileInfo{name: f.name(), size: st.Size, mode: fs.FileMode(st.Mode & 0o777)}, nil
}

// Close is a no-op: the descriptor belongs to the caller.
func (f *rawFile) Close() error {
	return nil
}

type rawFileInfo struct {
	name string
	size int64
	mode fs.FileMode
}

func (i *rawFileInfo) Name() string       { return i.name }
func (i *rawFileInfo) Size() int64        { return i.size }
func (i *rawFileInfo) Mode() fs.FileMode  { return i.mode }
func (i *rawFileInfo) ModTime() time.Time { return time.Time{} }
func (i *rawFileInfo) IsDir() bool        { return false }
func (i *rawFileInfo) Sys() any           { return nil }
