package media

import "errors"

var (
	// ErrInvalidFileReference indicates the reference kind is not supported by the runtime.
	ErrInvalidFileReference = errors.New("invalid file reference")
	// ErrProbeFailure indicates the underlying size query failed.
	ErrProbeFailure = errors.New("failed to probe file size")
	// ErrInvalidHandle indicates a handle that was not produced by a Runtime.
	ErrInvalidHandle = errors.New("invalid file handle")
	// ErrAmbiguousMimeType indicates no type information could be derived for the reference.
	ErrAmbiguousMimeType = errors.New("mime type must be specified when file is not a filename")
	// ErrInvalidRange indicates a negative chunk length or offset.
	ErrInvalidRange = errors.New("invalid chunk range")
)
