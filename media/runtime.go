package media

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

const (
	RuntimeServer  = "server"
	RuntimeBrowser = "browser"
)

// Runtime normalizes references into handles for one execution environment.
type Runtime interface {
	Name() string
	Acquire(ctx context.Context, ref Reference) (*Handle, error)
}

// NewRuntime selects a runtime by name. fs is only used by the server runtime
// and defaults to the OS filesystem when nil.
func NewRuntime(name string, fs afero.Fs) (Runtime, error) {
	switch name {
	case RuntimeServer:
		return NewServerRuntime(fs), nil
	case RuntimeBrowser:
		return NewBrowserRuntime(), nil
	default:
		return nil, fmt.Errorf("unknown runtime %q", name)
	}
}

// ServerRuntime has filesystem access through an injected afero.Fs.
type ServerRuntime struct {
	fs afero.Fs
}

func NewServerRuntime(fs afero.Fs) *ServerRuntime {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &ServerRuntime{fs: fs}
}

func (rt *ServerRuntime) Name() string { return RuntimeServer }

func (rt *ServerRuntime) Acquire(ctx context.Context, ref Reference) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch r := ref.(type) {
	case Path:
		f, err := rt.fs.OpenFile(string(r), os.O_RDONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", string(r), err)
		}
		return descriptorHandle(f, true), nil
	case Descriptor:
		if r < 0 {
			return nil, fmt.Errorf("%w: negative descriptor %d", ErrInvalidFileReference, int(r))
		}
		f, err := newRawFile(int(r))
		if err != nil {
			return nil, err
		}
		return descriptorHandle(f, false), nil
	case Buffer:
		return bufferHandle(r), nil
	case Object:
		if r.File == nil {
			return nil, fmt.Errorf("%w: object without file", ErrInvalidFileReference)
		}
		return objectHandle(r.File), nil
	default:
		return nil, unsupported(rt, ref)
	}
}

// BrowserRuntime has no filesystem; only Blob and ArrayBuffer values are accepted.
type BrowserRuntime struct{}

func NewBrowserRuntime() *BrowserRuntime {
	return &BrowserRuntime{}
}

func (rt *BrowserRuntime) Name() string { return RuntimeBrowser }

func (rt *BrowserRuntime) Acquire(ctx context.Context, ref Reference) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch r := ref.(type) {
	case Blob:
		return bufferHandle(r.Data), nil
	case ArrayBuffer:
		return bufferHandle(r), nil
	default:
		return nil, unsupported(rt, ref)
	}
}

func unsupported(rt Runtime, ref Reference) error {
	return fmt.Errorf("%w: %s runtime does not accept %s", ErrInvalidFileReference, rt.Name(), describe(ref))
}

func describe(ref Reference) string {
	switch ref.(type) {
	case nil:
		return "a nil reference"
	case Path:
		return "paths"
	case Descriptor:
		return "raw descriptors"
	case Buffer:
		return "buffers"
	case Object:
		return "handle objects"
	case Blob:
		return "blobs"
	case ArrayBuffer:
		return "array buffers"
	default:
		return fmt.Sprintf("%T", ref)
	}
}
