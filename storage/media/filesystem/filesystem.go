package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/indieinfra/mediaprep/config"
	"github.com/indieinfra/mediaprep/storage/media"
	storageutil "github.com/indieinfra/mediaprep/storage/util"
)

// StoreImpl stores prepared media in a local directory.
type StoreImpl struct {
	basePath  string
	publicURL string
	pattern   *storageutil.PathPattern
	now       func() time.Time
	mu        sync.Mutex // serializes name reservation
}

// NewFilesystemMediaStore creates a new filesystem-based media store.
func NewFilesystemMediaStore(cfg *config.FilesystemMediaStrategy) (*StoreImpl, error) {
	if cfg == nil {
		return nil, fmt.Errorf("filesystem media config is nil")
	}

	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &StoreImpl{
		basePath:  cfg.Path,
		publicURL: storageutil.NormalizeBaseURL(cfg.PublicUrl),
		pattern:   storageutil.PatternOrDefault(cfg.PathPattern),
		now:       time.Now,
	}, nil
}

// Upload streams the body to disk and returns its public URL. A name that is
// already taken gets a short uuid suffix.
func (fs *StoreImpl) Upload(ctx context.Context, u *media.Upload) (string, error) {
	if u == nil || u.Body == nil {
		return "", fmt.Errorf("upload body is required")
	}

	outFile, relPath, err := fs.reserve(u)
	if err != nil {
		return "", err
	}
	defer outFile.Close()

	absPath := outFile.Name()
	written, err := io.Copy(outFile, &contextReader{ctx: ctx, r: u.Body})
	if err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if u.Size >= 0 && written != u.Size {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("wrote %d bytes, expected %d", written, u.Size)
	}

	return fs.publicURL + filepath.ToSlash(relPath), nil
}

func (fs *StoreImpl) reserve(u *media.Upload) (*os.File, string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	now := fs.now()
	base, ext := storageutil.SplitFilename(u.Filename, u.Extension)

	relPath, err := fs.pattern.Generate(base, now, ext)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate path: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		absPath := filepath.Join(fs.basePath, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			return nil, "", fmt.Errorf("failed to create directory: %w", err)
		}

		f, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			return f, relPath, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("failed to create file: %w", err)
		}

		unique := fmt.Sprintf("%s-%s", base, uuid.New().String()[:8])
		relPath, err = fs.pattern.Generate(unique, now, ext)
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate unique path: %w", err)
		}
	}

	return nil, "", fmt.Errorf("could not reserve a unique name for %q", u.Filename)
}

// Delete removes a media file. Missing files are not an error.
func (fs *StoreImpl) Delete(ctx context.Context, url string) error {
	if !strings.HasPrefix(url, fs.publicURL) {
		return fmt.Errorf("url %q does not match public URL prefix %q", url, fs.publicURL)
	}

	relPath := filepath.FromSlash(strings.TrimPrefix(url, fs.publicURL))
	if !filepath.IsLocal(relPath) {
		return fmt.Errorf("url %q escapes the media directory", url)
	}

	if err := os.Remove(filepath.Join(fs.basePath, relPath)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	return nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

var _ media.Store = (*StoreImpl)(nil)
