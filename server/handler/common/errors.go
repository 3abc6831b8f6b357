package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/indieinfra/mediaprep/media"
	"github.com/indieinfra/mediaprep/server/resp"
	"github.com/indieinfra/mediaprep/server/util"
)

// LogAndWriteError logs an error with request context and maps known conditions to client responses.
func LogAndWriteError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := StatusFor(err)

	event := util.FromContext(r.Context()).Error()
	if status < http.StatusInternalServerError {
		event = util.FromContext(r.Context()).Warn()
	}
	event.Err(err).Int("status", status).Msgf("%s failed", op)

	switch status {
	case http.StatusBadRequest:
		resp.WriteInvalidRequest(w, err.Error())
	case http.StatusUnsupportedMediaType:
		resp.WriteUnsupportedMediaType(w, "mime type could not be determined; pass mime_type or type")
	default:
		resp.WriteInternalServerError(w, fmt.Sprintf("%s failed", op))
	}
}

// StatusFor maps media errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, media.ErrInvalidFileReference), errors.Is(err, media.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, media.ErrAmbiguousMimeType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}
