package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/indieinfra/mediaprep/config"
	"github.com/indieinfra/mediaprep/logging"
	"github.com/indieinfra/mediaprep/server/handler/health"
	"github.com/indieinfra/mediaprep/server/handler/upload"
	"github.com/indieinfra/mediaprep/server/state"
	"github.com/indieinfra/mediaprep/server/util"
	"github.com/indieinfra/mediaprep/stage"
)

const shutdownTimeout = 10 * time.Second

// NewHandler routes the media endpoints for st.
func NewHandler(st *state.MediaprepState) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /media", upload.HandleMediaUpload(st))
	mux.Handle("GET /healthz", health.HandleHealth())

	return util.RequestLogger(logging.WithComponent(st.Logger, "http"))(mux)
}

func initialize(cfg *config.Config, logger zerolog.Logger) (*state.MediaprepState, error) {
	stager, err := stage.FromConfig(cfg, afero.NewOsFs(), logger)
	if err != nil {
		return nil, err
	}

	return &state.MediaprepState{Cfg: cfg, Stager: stager, Logger: logger}, nil
}

// StartServer serves until SIGINT or SIGTERM, then drains in-flight requests.
func StartServer(cfg *config.Config, logger zerolog.Logger) error {
	st, err := initialize(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize server: %w", err)
	}
	defer func() {
		if err := st.Stager.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close manifest store")
		}
	}()

	bindAddress := net.JoinHostPort(cfg.Server.Address, strconv.Itoa(cfg.Server.Port))
	listener, err := net.Listen("tcp", bindAddress)
	if err != nil {
		return fmt.Errorf("listen on %q: %w", bindAddress, err)
	}

	srv := &http.Server{
		Handler:           NewHandler(st),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("address", listener.Addr().String()).Msg("serving http requests")
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
