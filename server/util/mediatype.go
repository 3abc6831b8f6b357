package util

import (
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"slices"

	"github.com/indieinfra/mediaprep/server/resp"
)

func RequireValidMediaContentType(w http.ResponseWriter, r *http.Request) (string, bool) {
	return requireValidContentType(w, r, []string{"multipart/form-data"})
}

func ExtractMediaType(w http.ResponseWriter, r *http.Request) (string, bool) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		resp.WriteUnsupportedMediaType(w, "Content-Type must be specified")
		return "", false
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		resp.WriteUnsupportedMediaType(w, fmt.Errorf("invalid Content-Type: %w", err).Error())
		return "", false
	}

	return mediaType, true
}

// PartMediaType returns the declared media type of an uploaded part, or ""
// when it is missing, unparsable or application/octet-stream.
func PartMediaType(header *multipart.FileHeader) string {
	if header == nil {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil || mediaType == "application/octet-stream" {
		return ""
	}

	return mediaType
}

func requireValidContentType(w http.ResponseWriter, r *http.Request, valid []string) (string, bool) {
	mediaType, ok := ExtractMediaType(w, r)
	if !ok {
		return "", false
	}

	if !slices.Contains(valid, mediaType) {
		resp.WriteUnsupportedMediaType(w, fmt.Sprintf("invalid Content-Type: only %v allowed", valid))
		return mediaType, false
	}

	return mediaType, true
}
