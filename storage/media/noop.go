package media

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// NoopStore drains uploads without keeping them.
type NoopStore struct {
	Logger zerolog.Logger
}

func (ms *NoopStore) Upload(ctx context.Context, u *Upload) (string, error) {
	if u == nil || u.Body == nil {
		return "", fmt.Errorf("upload body is required")
	}

	n, err := io.Copy(io.Discard, u.Body)
	if err != nil {
		return "", fmt.Errorf("drain upload: %w", err)
	}

	ms.Logger.Info().
		Str("filename", u.Filename).
		Str("content_type", u.ContentType).
		Int64("size", u.Size).
		Int64("drained", n).
		Msg("received no-op media upload")

	return "https://noop.example.org/noop", nil
}

func (ms *NoopStore) Delete(ctx context.Context, url string) error {
	ms.Logger.Info().Str("url", url).Msg("received no-op media delete")
	return nil
}
