package util

import (
	"testing"

	"github.com/google/uuid"
)

func TestSplitFilename(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		preferred string
		wantBase  string
		wantExt   string
	}{
		{"plain", "Holiday Clip.MP4", "", "holiday-clip", ".mp4"},
		{"nested path", "/var/media/Summer Photo.jpeg", "", "summer-photo", ".jpeg"},
		{"windows path", `C:\Users\me\cat.png`, "", "cat", ".png"},
		{"preferred extension wins", "clip.mpeg4", ".mp4", "clip", ".mp4"},
		{"no extension", "captions", ".srt", "captions", ".srt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			base, ext := SplitFilename(tc.filename, tc.preferred)
			if base != tc.wantBase || ext != tc.wantExt {
				t.Fatalf("SplitFilename(%q, %q) = (%q, %q), want (%q, %q)", tc.filename, tc.preferred, base, ext, tc.wantBase, tc.wantExt)
			}
		})
	}
}

func TestSplitFilename_EmptyBaseUsesUUID(t *testing.T) {
	for _, filename := range []string{"", "!!!.png", "/"} {
		base, _ := SplitFilename(filename, "")
		if _, err := uuid.Parse(base); err != nil {
			t.Fatalf("expected uuid base for %q, got %q", filename, base)
		}
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	for _, raw := range []string{"https://cdn.example.com", " https://cdn.example.com/// "} {
		if got := NormalizeBaseURL(raw); got != "https://cdn.example.com/" {
			t.Fatalf("NormalizeBaseURL(%q) = %q", raw, got)
		}
	}
}

func TestDeriveTableName(t *testing.T) {
	if got := DeriveTableName("", "uploads"); got != "uploads" {
		t.Fatalf("unexpected table name %q", got)
	}
	if got := DeriveTableName("mediaprep", "uploads"); got != "mediaprep_uploads" {
		t.Fatalf("unexpected table name %q", got)
	}
}
