package config

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func ValidateAbsPath(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && path.IsAbs(s)
}

func ValidateIdentifier(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	return identifierPattern.MatchString(s)
}

// ValidatePathPattern accepts empty patterns and relative patterns that cannot
// escape the storage root.
func ValidatePathPattern(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	if strings.ContainsRune(s, 0) {
		return false
	}

	if path.IsAbs(s) || filepath.IsAbs(s) || filepath.VolumeName(s) != "" {
		return false
	}

	// Windows drive letters on any OS, e.g. "C:/Windows".
	if len(s) >= 2 && s[1] == ':' {
		return false
	}

	for _, segment := range strings.Split(filepath.ToSlash(s), "/") {
		if segment == ".." {
			return false
		}
	}

	return true
}
