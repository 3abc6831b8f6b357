package media

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ProbeSize returns the total byte length behind h.
func ProbeSize(ctx context.Context, h *Handle) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	switch h.Kind() {
	case KindDescriptor:
		info, err := h.file.Stat()
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrProbeFailure, err)
		}
		return info.Size(), nil
	case KindBuffer:
		return int64(len(h.buf)), nil
	case KindObject:
		st, err := h.obj.Stat(ctx)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrProbeFailure, err)
		}
		return st.Size, nil
	default:
		return 0, ErrInvalidHandle
	}
}

// ReadChunk reads up to length bytes starting at offset. When dst has room for
// length bytes it is used as the destination, otherwise a new buffer is
// allocated. The returned slice is truncated to the number of bytes read; at
// end of file that number is 0 and err is nil.
func ReadChunk(ctx context.Context, h *Handle, length int, offset int64, dst []byte) ([]byte, int, error) {
	if length < 0 || offset < 0 {
		return nil, 0, fmt.Errorf("%w: length=%d offset=%d", ErrInvalidRange, length, offset)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	var buf []byte
	if cap(dst) >= length {
		buf = dst[:length]
	} else {
		buf = make([]byte, length)
	}

	var n int
	switch h.Kind() {
	case KindDescriptor:
		read, err := h.file.ReadAt(buf, offset)
		if err != nil && !endOfFile(err, read, length) {
			return nil, 0, err
		}
		n = read
	case KindBuffer:
		if offset < int64(len(h.buf)) {
			end := min(offset+int64(length), int64(len(h.buf)))
			n = copy(buf, h.buf[offset:end])
		}
	case KindObject:
		read, err := h.obj.ReadAt(ctx, buf, offset)
		if err != nil && !endOfFile(err, read, length) {
			return nil, 0, err
		}
		if read < 0 || read > length {
			return nil, 0, fmt.Errorf("handle object reported %d bytes for a %d byte read", read, length)
		}
		n = read
	default:
		return nil, 0, ErrInvalidHandle
	}

	return buf[:n], n, nil
}

// endOfFile reports whether err from a short positioned read means the offset
// reached or passed the end. Some afero backends return io.ErrUnexpectedEOF
// for offsets past the end instead of io.EOF.
func endOfFile(err error, read, length int) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	return read < length && errors.Is(err, io.ErrUnexpectedEOF)
}

// ReadAll returns the whole content behind h. Buffers are returned without a copy.
// Descriptor handles are read from their current position, which the read
// advances, so a second ReadAll on the same handle returns an empty slice.
// ReadChunk is positioned and unaffected.
func ReadAll(ctx context.Context, h *Handle) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch h.Kind() {
	case KindDescriptor:
		return io.ReadAll(h.file)
	case KindBuffer:
		return h.buf, nil
	case KindObject:
		return h.obj.ReadFile(ctx)
	default:
		return nil, ErrInvalidHandle
	}
}

// ChunkReader streams a handle as consecutive chunks of a fixed size.
// It is not safe for concurrent use.
type ChunkReader struct {
	ctx       context.Context
	h         *Handle
	chunkSize int
	offset    int64
	chunks    int
	buf       []byte
	pending   []byte
	done      bool
}

func NewChunkReader(ctx context.Context, h *Handle, chunkSize int) (*ChunkReader, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidRange, chunkSize)
	}
	if h.Kind() == KindInvalid {
		return nil, ErrInvalidHandle
	}

	return &ChunkReader{
		ctx:       ctx,
		h:         h,
		chunkSize: chunkSize,
		buf:       make([]byte, chunkSize),
	}, nil
}

// Next returns the next chunk. The slice is only valid until the following call.
// It returns io.EOF once the handle is exhausted.
func (cr *ChunkReader) Next() ([]byte, error) {
	if cr.done {
		return nil, io.EOF
	}

	chunk, n, err := ReadChunk(cr.ctx, cr.h, cr.chunkSize, cr.offset, cr.buf)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		cr.done = true
		return nil, io.EOF
	}

	cr.offset += int64(n)
	cr.chunks++
	return chunk, nil
}

func (cr *ChunkReader) Read(p []byte) (int, error) {
	if len(cr.pending) == 0 {
		chunk, err := cr.Next()
		if err != nil {
			return 0, err
		}
		cr.pending = chunk
	}

	n := copy(p, cr.pending)
	cr.pending = cr.pending[n:]
	return n, nil
}

// Offset is the number of bytes consumed from the handle so far.
func (cr *ChunkReader) Offset() int64 { return cr.offset }

// Chunks is the number of non-empty chunks read so far.
func (cr *ChunkReader) Chunks() int { return cr.chunks }

// ChunkCount returns how many chunks of chunkSize are needed for size bytes.
func ChunkCount(size int64, chunkSize int) int {
	if size <= 0 || chunkSize <= 0 {
		return 0
	}
	return int((size + int64(chunkSize) - 1) / int64(chunkSize))
}
