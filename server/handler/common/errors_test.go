package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/indieinfra/mediaprep/media"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{media.ErrInvalidFileReference, http.StatusBadRequest},
		{fmt.Errorf("read: %w", media.ErrInvalidRange), http.StatusBadRequest},
		{fmt.Errorf("resolve: %w", media.ErrAmbiguousMimeType), http.StatusUnsupportedMediaType},
		{media.ErrProbeFailure, http.StatusInternalServerError},
		{media.ErrInvalidHandle, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		if got := StatusFor(tc.err); got != tc.want {
			t.Fatalf("StatusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestLogAndWriteError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{errors.New("boom"), http.StatusInternalServerError},
		{media.ErrAmbiguousMimeType, http.StatusUnsupportedMediaType},
		{media.ErrInvalidFileReference, http.StatusBadRequest},
	}

	for _, tc := range tests {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/media", nil)

		LogAndWriteError(rr, req, "stage media", tc.err)

		if rr.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rr.Code)
		}
	}
}
