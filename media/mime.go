package media

import (
	"fmt"
	"strings"
)

// MimeType is a resolved upload MIME type. Explicit overrides are carried
// verbatim, so a value is not guaranteed to be one of the constants below.
type MimeType string

const (
	MimeJpeg MimeType = "image/jpeg"
	MimePng  MimeType = "image/png"
	MimeWebp MimeType = "image/webp"
	MimeGif  MimeType = "image/gif"
	MimeMp4  MimeType = "video/mp4"
	MimeMov  MimeType = "video/quicktime"
	MimeSrt  MimeType = "text/plain"
)

// MimeHints carries optional type information. Empty fields are absent.
type MimeHints struct {
	// LegacyType is the deprecated type enum (gif, jpg, png, webp, srt, mp4, longmp4, mov).
	LegacyType string
	// MimeType overrides resolution entirely.
	MimeType string
}

const deprecationInstance = "MediaUploader"

var suffixes = []struct {
	suffix string
	mime   MimeType
}{
	{".jpeg", MimeJpeg},
	{".jpg", MimeJpeg},
	{".png", MimePng},
	{".webp", MimeWebp},
	{".gif", MimeGif},
	{".mpeg4", MimeMp4},
	{".mp4", MimeMp4},
	{".mov", MimeMov},
	{".srt", MimeSrt},
}

var legacyTypes = map[string]MimeType{
	"gif":     MimeGif,
	"jpg":     MimeJpeg,
	"png":     MimePng,
	"webp":    MimeWebp,
	"srt":     MimeSrt,
	"mp4":     MimeMp4,
	"longmp4": MimeMp4,
	"mov":     MimeMov,
}

var extensions = map[MimeType]string{
	MimeJpeg: ".jpg",
	MimePng:  ".png",
	MimeWebp: ".webp",
	MimeGif:  ".gif",
	MimeMp4:  ".mp4",
	MimeMov:  ".mov",
	MimeSrt:  ".srt",
}

// MimeResolver picks the MIME type of an upload before any byte is read.
type MimeResolver struct {
	handler DeprecationHandler
}

// NewMimeResolver reports deprecated usages to h. A nil h discards them.
func NewMimeResolver(h DeprecationHandler) *MimeResolver {
	if h == nil {
		h = DiscardDeprecations
	}
	return &MimeResolver{handler: h}
}

// Resolve applies, in order: the explicit MIME override, the extension of a
// Path when no legacy type is given, then the legacy type. Any other reference
// without hints fails with ErrAmbiguousMimeType.
func (mr *MimeResolver) Resolve(ref Reference, hints MimeHints) (MimeType, error) {
	if hints.MimeType != "" {
		return MimeType(hints.MimeType), nil
	}

	if p, ok := ref.(Path); ok && hints.LegacyType == "" {
		return mr.byName(string(p)), nil
	}

	if hints.LegacyType != "" {
		return mr.byLegacyType(hints.LegacyType), nil
	}

	return "", fmt.Errorf("%w (got %s)", ErrAmbiguousMimeType, describe(ref))
}

func (mr *MimeResolver) byName(name string) MimeType {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s.suffix) {
			return s.mime
		}
	}

	mr.handler.Deprecated(Deprecation{
		Instance:   deprecationInstance,
		Method:     "Resolve",
		Problem:    "mime type is missing and the filename does not resolve one, falling back to image/jpeg",
		Resolution: "pass the MIME type explicitly when filenames may lack a known extension",
	})

	return MimeJpeg
}

func (mr *MimeResolver) byLegacyType(t string) MimeType {
	mr.handler.Deprecated(Deprecation{
		Instance: deprecationInstance,
		Method:   "Resolve",
		Problem:  "the legacy type hint is deprecated",
		Resolution: "pass the real MIME type instead of the type hint; " +
			"for type=longmp4 use video/mp4 and request a long video upload",
	})

	if m, ok := legacyTypes[t]; ok {
		return m
	}
	return MimeType(t)
}

// Extension returns the preferred file extension for m, or "" when unknown.
func Extension(m MimeType) string {
	return extensions[m]
}
