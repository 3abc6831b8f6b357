package util

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/indieinfra/mediaprep/server/resp"
)

// MultipartValues holds the first value of every non-file form field.
type MultipartValues map[string]string

type MultipartFile struct {
	Field  string
	File   multipart.File
	Header *multipart.FileHeader
}

// ParseMultipartWithFirstFile parses a multipart request and opens the first
// file found under one of fields, in order. On failure an error response has
// already been written and ok is false. The caller closes the returned file.
func ParseMultipartWithFirstFile(w http.ResponseWriter, r *http.Request, maxMemory, maxFileSize int64, fields []string, required bool) (MultipartValues, *MultipartFile, bool) {
	if maxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+maxMemory)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			resp.WriteRequestTooLarge(w, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return nil, nil, false
		}

		resp.WriteInvalidRequest(w, fmt.Sprintf("invalid multipart body: %v", err))
		return nil, nil, false
	}

	values := extractValues(r)

	for _, field := range fields {
		fhs := r.MultipartForm.File[field]
		if len(fhs) == 0 {
			continue
		}

		fh := fhs[0]
		if fh.Filename == "" {
			resp.WriteInvalidRequest(w, fmt.Sprintf("file part %q has no filename", field))
			return nil, nil, false
		}

		if maxFileSize > 0 && fh.Size > maxFileSize {
			resp.WriteRequestTooLarge(w, fmt.Sprintf("file %q exceeds %d bytes", fh.Filename, maxFileSize))
			return nil, nil, false
		}

		f, err := fh.Open()
		if err != nil {
			resp.WriteInvalidRequest(w, fmt.Sprintf("could not open file %q", fh.Filename))
			return nil, nil, false
		}

		return values, &MultipartFile{Field: field, File: f, Header: fh}, true
	}

	if required {
		resp.WriteInvalidRequest(w, fmt.Sprintf("a file is required in one of %v", fields))
		return nil, nil, false
	}

	return values, nil, true
}

func extractValues(r *http.Request) MultipartValues {
	values := make(MultipartValues)

	if r.MultipartForm != nil {
		for key, arr := range r.MultipartForm.Value {
			if len(arr) == 0 {
				continue
			}
			values[key] = arr[0]
		}
	}

	return values
}
