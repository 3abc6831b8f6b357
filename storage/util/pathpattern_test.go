package util

import (
	"testing"
	"time"
)

func TestPathPattern_Generate(t *testing.T) {
	testTime := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		pattern   string
		slug      string
		timestamp time.Time
		ext       string
		expected  string
		wantErr   bool
	}{
		{
			name:     "slug and extension",
			pattern:  "{slug}{ext}",
			slug:     "holiday-clip",
			ext:      ".mp4",
			expected: "holiday-clip.mp4",
		},
		{
			name:      "default media layout",
			pattern:   DefaultMediaPatternString,
			slug:      "my-photo",
			timestamp: testTime,
			ext:       ".jpg",
			expected:  "2026/01/my-photo.jpg",
		},
		{
			name:      "full date pattern",
			pattern:   "{year}/{month}/{day}/{filename}",
			slug:      "loop",
			timestamp: testTime,
			ext:       ".gif",
			expected:  "2026/01/15/loop.gif",
		},
		{
			name:     "extension without leading dot",
			pattern:  "{slug}{ext}",
			slug:     "captions",
			ext:      "srt",
			expected: "captions.srt",
		},
		{
			name:     "date placeholders without timestamp",
			pattern:  "{year}/{filename}",
			slug:     "clip",
			ext:      ".mov",
			expected: "{year}/clip.mov",
		},
		{
			name:    "empty slug",
			pattern: "{filename}",
			wantErr: true,
		},
		{
			name:      "duplicate slashes are collapsed",
			pattern:   "media//{year}/{month}//{filename}",
			slug:      "post",
			timestamp: testTime,
			ext:       ".png",
			expected:  "media/2026/01/post.png",
		},
		{
			name:     "leading slash is dropped",
			pattern:  "/uploads/{filename}",
			slug:     "a",
			ext:      ".webp",
			expected: "uploads/a.webp",
		},
		{
			name:     "parent segments cannot escape the root",
			pattern:  "../../{filename}",
			slug:     "a",
			ext:      ".png",
			expected: "a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewPathPattern(tt.pattern).Generate(tt.slug, tt.timestamp, tt.ext)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestPatternOrDefault(t *testing.T) {
	testTime := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)

	result, err := PatternOrDefault("  ").Generate("photo", testTime, ".jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "2026/03/photo.jpg" {
		t.Fatalf("expected default pattern, got %q", result)
	}

	result, err = PatternOrDefault("flat/{filename}").Generate("photo", testTime, ".jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "flat/photo.jpg" {
		t.Fatalf("expected custom pattern, got %q", result)
	}
}

func TestPathPattern_EmptyResult(t *testing.T) {
	if _, err := NewPathPattern("..").Generate("x", time.Time{}, ""); err == nil {
		t.Fatalf("expected error for a pattern that produces no key")
	}
}
