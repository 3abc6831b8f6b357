package media

import (
	"io"
	"os"
	"sync"
)

// Kind identifies which variant a Handle holds.
type Kind int

const (
	KindInvalid Kind = iota
	KindDescriptor
	KindBuffer
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindDescriptor:
		return "descriptor"
	case KindBuffer:
		return "buffer"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// descriptorFile is what a descriptor-backed handle needs from the OS layer.
// afero.File and the unix raw descriptor wrapper both satisfy it.
type descriptorFile interface {
	io.Reader
	io.ReaderAt
	Stat() (os.FileInfo, error)
	Close() error
}

// Handle is the canonical form of a Reference. Only a Runtime can build one.
//
// A Handle belongs to a single upload operation. When it was opened from a Path
// the caller must Close it once the operation ends, successful or not.
type Handle struct {
	kind  Kind
	file  descriptorFile
	owned bool
	buf   []byte
	obj   FileLike

	closeOnce sync.Once
	closeErr  error
}

// Kind reports the handle variant. A nil handle is KindInvalid.
func (h *Handle) Kind() Kind {
	if h == nil {
		return KindInvalid
	}
	return h.kind
}

// Close releases the descriptor opened by the runtime, if any. Caller-owned
// descriptors, buffers and objects are left alone.
func (h *Handle) Close() error {
	if h == nil || h.kind != KindDescriptor || !h.owned {
		return nil
	}

	h.closeOnce.Do(func() {
		h.closeErr = h.file.Close()
	})
	return h.closeErr
}

func descriptorHandle(f descriptorFile, owned bool) *Handle {
	return &Handle{kind: KindDescriptor, file: f, owned: owned}
}

func bufferHandle(b []byte) *Handle {
	return &Handle{kind: KindBuffer, buf: b}
}

func objectHandle(o FileLike) *Handle {
	return &Handle{kind: KindObject, obj: o}
}
