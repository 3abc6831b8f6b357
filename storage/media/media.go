package media

import (
	"context"
	"io"
	"time"

	storageutil "github.com/indieinfra/mediaprep/storage/util"
)

// Upload is prepared media ready to be written to a store.
type Upload struct {
	Filename    string
	ContentType string
	// Extension overrides the extension found in Filename when set.
	Extension string
	// Size is the exact number of bytes Body yields.
	Size int64
	Body io.Reader
}

// Store persists prepared media and addresses it by public URL.
type Store interface {
	Upload(ctx context.Context, u *Upload) (string, error)
	Delete(ctx context.Context, url string) error
}

// ObjectKey expands pattern for u at time now.
func ObjectKey(pattern *storageutil.PathPattern, u *Upload, now time.Time) (string, error) {
	base, ext := storageutil.SplitFilename(u.Filename, u.Extension)
	return pattern.Generate(base, now, ext)
}
