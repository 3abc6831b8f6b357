package util

import (
	"fmt"
	"path"
	"strings"
	"time"
)

const DefaultMediaPatternString = "{year}/{month}/{filename}"

// PathPattern expands a key template for stored media. Placeholders:
//   - {year}, {month}, {day} - upload date, zero padded
//   - {slug}     - slugified base name of the file
//   - {ext}      - extension with leading dot, e.g. ".mp4"
//   - {filename} - {slug}{ext}
//
// Example: "{year}/{month}/{filename}" → "2026/01/holiday-clip.mp4"
type PathPattern struct {
	pattern string
}

func NewPathPattern(pattern string) *PathPattern {
	return &PathPattern{pattern: pattern}
}

// PatternOrDefault returns the configured pattern, or the default media pattern when empty.
func PatternOrDefault(pattern string) *PathPattern {
	if strings.TrimSpace(pattern) == "" {
		return DefaultMediaPattern()
	}
	return NewPathPattern(pattern)
}

// Generate expands the pattern. Date placeholders are left untouched when
// timestamp is zero. The result always uses forward slashes so it can double
// as an object key.
func (p *PathPattern) Generate(slug string, timestamp time.Time, ext string) (string, error) {
	if slug == "" {
		return "", fmt.Errorf("slug cannot be empty")
	}

	result := p.pattern

	if !timestamp.IsZero() {
		result = strings.ReplaceAll(result, "{year}", fmt.Sprintf("%04d", timestamp.Year()))
		result = strings.ReplaceAll(result, "{month}", fmt.Sprintf("%02d", timestamp.Month()))
		result = strings.ReplaceAll(result, "{day}", fmt.Sprintf("%02d", timestamp.Day()))
	}

	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	result = strings.ReplaceAll(result, "{filename}", slug+ext)
	result = strings.ReplaceAll(result, "{slug}", slug)
	result = strings.ReplaceAll(result, "{ext}", ext)

	result = strings.TrimPrefix(path.Clean("/"+result), "/")
	if result == "" {
		return "", fmt.Errorf("pattern %q produced an empty key", p.pattern)
	}

	return result, nil
}

func DefaultMediaPattern() *PathPattern {
	return NewPathPattern(DefaultMediaPatternString)
}
