//go:build !unix

package media

import (
	"fmt"
	"runtime"
)

func newRawFile(fd int) (descriptorFile, error) {
	return nil, fmt.Errorf("%w: raw descriptors are not supported on %s", ErrInvalidFileReference, runtime.GOOS)
}
