package upload

import (
	"net/http"

	"github.com/indieinfra/mediaprep/media"
	"github.com/indieinfra/mediaprep/server/handler/common"
	"github.com/indieinfra/mediaprep/server/resp"
	"github.com/indieinfra/mediaprep/server/state"
	"github.com/indieinfra/mediaprep/server/util"
	"github.com/indieinfra/mediaprep/stage"
)

// HandleMediaUpload stages the "file" part of a multipart request. The form
// fields mime_type, type and target are passed through as hints.
func HandleMediaUpload(st *state.MediaprepState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := util.RequireValidMediaContentType(w, r); !ok {
			return
		}

		maxMemory := int64(st.Cfg.Server.Limits.MaxMultipartMem)
		maxSize := int64(st.Cfg.Server.Limits.MaxFileSize)
		values, file, ok := util.ParseMultipartWithFirstFile(w, r, maxMemory, maxSize, []string{"file"}, true)
		if !ok {
			return
		}
		defer file.File.Close()

		opts := stage.Options{
			Filename:   file.Header.Filename,
			LegacyType: values["type"],
			MimeType:   values["mime_type"],
			Target:     media.Target(values["target"]),
		}

		switch opts.Target {
		case "", media.TargetTweet, media.TargetDM:
		default:
			resp.WriteInvalidRequest(w, "target must be tweet or dm")
			return
		}

		if opts.MimeType == "" && opts.LegacyType == "" {
			opts.MimeType = util.PartMediaType(file.Header)
		}

		ref := media.Object{File: media.NewReaderAtObject(file.File, file.Header.Size)}
		result, err := st.Stager.Stage(r.Context(), ref, opts)
		if err != nil {
			common.LogAndWriteError(w, r, "stage media", err)
			return
		}

		resp.WriteCreated(w, result.URL, result)
	}
}
