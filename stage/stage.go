// Package stage turns a media reference into a stored upload: it resolves the
// type, classifies the category, reads the bytes, and records the result.
package stage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/indieinfra/mediaprep/config"
	"github.com/indieinfra/mediaprep/logging"
	"github.com/indieinfra/mediaprep/media"
	"github.com/indieinfra/mediaprep/storage/manifest"
	mediastore "github.com/indieinfra/mediaprep/storage/media"
	"github.com/indieinfra/mediaprep/storage/media/factory"
)

const (
	ModeSimple  = "simple"
	ModeChunked = "chunked"
)

// Options carries per-call hints. Empty fields are absent.
type Options struct {
	Filename   string
	LegacyType string
	MimeType   string
	Target     media.Target
}

// Info is what Inspect learns about a reference without uploading it.
type Info struct {
	Filename string         `json:"filename"`
	MimeType media.MimeType `json:"mime_type"`
	Category media.Category `json:"media_category"`
	Size     int64          `json:"size"`
	Chunks   int            `json:"chunks"`
	Mode     string         `json:"mode"`
}

// Result describes a staged upload.
type Result struct {
	manifest.Entry
	Mode string `json:"mode"`
}

// Settings are the tunables a Stager reads on every call.
type Settings struct {
	ChunkSize           int
	SmallMediaThreshold int64
	Target              media.Target
}

type Stager struct {
	runtime  media.Runtime
	resolver *media.MimeResolver
	store    mediastore.Store
	manifest manifest.Store
	settings Settings
	logger   zerolog.Logger
	now      func() time.Time
}

func New(rt media.Runtime, resolver *media.MimeResolver, store mediastore.Store, mf manifest.Store, settings Settings, logger zerolog.Logger) (*Stager, error) {
	if rt == nil || store == nil {
		return nil, fmt.Errorf("runtime and media store are required")
	}
	if settings.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", settings.ChunkSize)
	}
	if settings.Target == "" {
		settings.Target = media.TargetTweet
	}
	if resolver == nil {
		resolver = media.NewMimeResolver(nil)
	}
	if mf == nil {
		mf = &manifest.NoopStore{Logger: logger}
	}

	return &Stager{
		runtime:  rt,
		resolver: resolver,
		store:    store,
		manifest: mf,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// FromConfig wires a Stager from cfg. fs backs path references for the server runtime.
func FromConfig(cfg *config.Config, fs afero.Fs, logger zerolog.Logger) (*Stager, error) {
	rt, err := media.NewRuntime(cfg.Runtime, fs)
	if err != nil {
		return nil, err
	}

	deprecations := media.DiscardDeprecations
	if cfg.Upload.DeprecationWarnings {
		deprecations = media.LogDeprecations(logging.WithComponent(logger, "mime"))
	}

	store, err := factory.Create(&cfg.Media, logging.WithComponent(logger, "media"))
	if err != nil {
		return nil, fmt.Errorf("create media store: %w", err)
	}

	mf, err := manifest.New(&cfg.Manifest, logging.WithComponent(logger, "manifest"))
	if err != nil {
		return nil, fmt.Errorf("create manifest store: %w", err)
	}

	return New(rt, media.NewMimeResolver(deprecations), store, mf, Settings{
		ChunkSize:           int(cfg.Upload.ChunkSize),
		SmallMediaThreshold: int64(cfg.Upload.SmallMediaThreshold),
		Target:              media.Target(cfg.Upload.Target),
	}, logging.WithComponent(logger, "stage"))
}

// Close releases the manifest store when it holds resources.
func (s *Stager) Close() error {
	if c, ok := s.manifest.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Inspect resolves, classifies and probes ref without reading its content.
func (s *Stager) Inspect(ctx context.Context, ref media.Reference, opts Options) (*Info, error) {
	info, h, err := s.open(ctx, ref, opts)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, h)

	return info, nil
}

// Stage uploads ref to the media store and records it in the manifest.
func (s *Stager) Stage(ctx context.Context, ref media.Reference, opts Options) (*Result, error) {
	info, h, err := s.open(ctx, ref, opts)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, h)

	logger := s.loggerFor(ctx).With().
		Str("filename", info.Filename).
		Str("mime_type", string(info.MimeType)).
		Int64("size", info.Size).
		Str("mode", info.Mode).
		Logger()

	upload := &mediastore.Upload{
		Filename:    info.Filename,
		ContentType: string(info.MimeType),
		Extension:   media.Extension(info.MimeType),
		Size:        info.Size,
	}

	var chunks func() int
	if info.Mode == ModeSimple {
		data, err := media.ReadAll(ctx, h)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", info.Filename, err)
		}
		upload.Body = bytes.NewReader(data)
		upload.Size = int64(len(data))
		chunks = func() int { return info.Chunks }
	} else {
		cr, err := media.NewChunkReader(ctx, h, s.settings.ChunkSize)
		if err != nil {
			return nil, err
		}
		upload.Body = cr
		chunks = cr.Chunks
	}

	url, err := s.store.Upload(ctx, upload)
	if err != nil {
		logger.Error().Err(err).Msg("media upload failed")
		return nil, fmt.Errorf("upload %s: %w", info.Filename, err)
	}

	entry := manifest.Entry{
		ID:        uuid.New().String(),
		URL:       url,
		Filename:  info.Filename,
		MimeType:  string(info.MimeType),
		Category:  string(info.Category),
		Size:      upload.Size,
		Chunks:    chunks(),
		CreatedAt: s.now().UTC(),
	}

	if err := s.manifest.Record(ctx, entry); err != nil {
		logger.Error().Err(err).Str("url", url).Msg("manifest record failed")
		return nil, fmt.Errorf("record %s: %w", url, err)
	}

	logger.Info().Str("id", entry.ID).Str("url", url).Int("chunks", entry.Chunks).Msg("media staged")

	return &Result{Entry: entry, Mode: info.Mode}, nil
}

// open resolves the MIME type before the handle is acquired. The caller owns
// the returned handle.
func (s *Stager) open(ctx context.Context, ref media.Reference, opts Options) (*Info, *media.Handle, error) {
	mime, err := s.resolver.Resolve(ref, media.MimeHints{LegacyType: opts.LegacyType, MimeType: opts.MimeType})
	if err != nil {
		return nil, nil, err
	}

	target := opts.Target
	if target == "" {
		target = s.settings.Target
	}

	h, err := s.runtime.Acquire(ctx, ref)
	if err != nil {
		return nil, nil, err
	}

	size, err := media.ProbeSize(ctx, h)
	if err != nil {
		s.release(ctx, h)
		return nil, nil, err
	}

	info := &Info{
		Filename: filenameFor(ref, opts, mime),
		MimeType: mime,
		Category: media.Classify(mime, target),
		Size:     size,
	}
	info.Mode, info.Chunks = s.plan(size)

	return info, h, nil
}

func (s *Stager) plan(size int64) (string, int) {
	if size <= s.settings.SmallMediaThreshold {
		if size == 0 {
			return ModeSimple, 0
		}
		return ModeSimple, 1
	}
	return ModeChunked, media.ChunkCount(size, s.settings.ChunkSize)
}

func (s *Stager) release(ctx context.Context, h *media.Handle) {
	if err := h.Close(); err != nil {
		s.loggerFor(ctx).Warn().Err(err).Msg("failed to release file handle")
	}
}

func (s *Stager) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}

func filenameFor(ref media.Reference, opts Options, mime media.MimeType) string {
	if opts.Filename != "" {
		return opts.Filename
	}
	if p, ok := ref.(media.Path); ok {
		if base := path.Base(strings.ReplaceAll(string(p), "\\", "/")); base != "." && base != "/" {
			return base
		}
	}
	return uuid.New().String() + media.Extension(mime)
}
