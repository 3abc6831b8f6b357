package util

import (
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// SplitFilename separates a filename into a slugified base and its extension.
// When preferredExt is set it replaces the extension found in the name. An
// empty or unsluggable base becomes a random uuid.
func SplitFilename(filename string, preferredExt string) (string, string) {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}

	ext := path.Ext(name)
	base := slug.Make(strings.TrimSuffix(name, ext))
	if base == "" {
		base = uuid.New().String()
	}

	if preferredExt != "" {
		ext = preferredExt
	}

	return base, strings.ToLower(ext)
}
