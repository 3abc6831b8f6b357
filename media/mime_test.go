package media

import (
	"errors"
	"testing"
)

type recordedDeprecations struct {
	got []Deprecation
}

func (r *recordedDeprecations) Deprecated(d Deprecation) {
	r.got = append(r.got, d)
}

func TestMimeResolver_ByFilename(t *testing.T) {
	tests := []struct {
		name string
		want MimeType
	}{
		{"photo.jpeg", MimeJpeg},
		{"photo.jpg", MimeJpeg},
		{"photo.png", MimePng},
		{"/tmp/sticker.webp", MimeWebp},
		{"loop.gif", MimeGif},
		{"clip.mpeg4", MimeMp4},
		{"clip.mp4", MimeMp4},
		{"clip.mov", MimeMov},
		{"captions.srt", MimeSrt},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recordedDeprecations{}
			got, err := NewMimeResolver(rec).Resolve(Path(tc.name), MimeHints{})
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
			if len(rec.got) != 0 {
				t.Fatalf("expected no deprecation warnings, got %v", rec.got)
			}
		})
	}
}

func TestMimeResolver_UnknownExtensionFallsBackToJpeg(t *testing.T) {
	for _, name := range []string{"noext", "archive.zip", "PHOTO.PNG"} {
		rec := &recordedDeprecations{}
		got, err := NewMimeResolver(rec).Resolve(Path(name), MimeHints{})
		if err != nil {
			t.Fatalf("%s: resolve: %v", name, err)
		}
		if got != MimeJpeg {
			t.Fatalf("%s: expected jpeg fallback, got %s", name, got)
		}
		if len(rec.got) != 1 {
			t.Fatalf("%s: expected one deprecation warning, got %d", name, len(rec.got))
		}
	}
}

func TestMimeResolver_LegacyType(t *testing.T) {
	tests := []struct {
		legacy string
		want   MimeType
	}{
		{"gif", MimeGif},
		{"jpg", MimeJpeg},
		{"png", MimePng},
		{"webp", MimeWebp},
		{"srt", MimeSrt},
		{"mp4", MimeMp4},
		{"longmp4", MimeMp4},
		{"mov", MimeMov},
		{"image/bmp", MimeType("image/bmp")},
	}

	for _, tc := range tests {
		t.Run(tc.legacy, func(t *testing.T) {
			rec := &recordedDeprecations{}
			got, err := NewMimeResolver(rec).Resolve(Buffer("data"), MimeHints{LegacyType: tc.legacy})
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
			if len(rec.got) != 1 {
				t.Fatalf("expected one deprecation warning, got %d", len(rec.got))
			}
		})
	}
}

func TestMimeResolver_LegacyTypeWinsOverFilename(t *testing.T) {
	rec := &recordedDeprecations{}
	got, err := NewMimeResolver(rec).Resolve(Path("clip.png"), MimeHints{LegacyType: "longmp4"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != MimeMp4 || len(rec.got) != 1 {
		t.Fatalf("expected mp4 with one warning, got %s with %d warnings", got, len(rec.got))
	}
}

func TestMimeResolver_ExplicitOverride(t *testing.T) {
	rec := &recordedDeprecations{}
	resolver := NewMimeResolver(rec)

	refs := []Reference{Path("photo.png"), Buffer("x"), Descriptor(3), Blob{}}
	for _, ref := range refs {
		got, err := resolver.Resolve(ref, MimeHints{MimeType: "application/x-custom", LegacyType: "gif"})
		if err != nil {
			t.Fatalf("%T: resolve: %v", ref, err)
		}
		if got != "application/x-custom" {
			t.Fatalf("%T: expected override to be returned verbatim, got %s", ref, got)
		}
	}
	if len(rec.got) != 0 {
		t.Fatalf("override should not warn, got %v", rec.got)
	}
}

func TestMimeResolver_Ambiguous(t *testing.T) {
	resolver := NewMimeResolver(nil)

	for _, ref := range []Reference{Buffer("x"), Descriptor(3), Blob{Data: []byte("x")}, ArrayBuffer("x"), Object{}, nil} {
		if _, err := resolver.Resolve(ref, MimeHints{}); !errors.Is(err, ErrAmbiguousMimeType) {
			t.Fatalf("%T: expected ErrAmbiguousMimeType, got %v", ref, err)
		}
	}
}

func TestExtension(t *testing.T) {
	if Extension(MimeMov) != ".mov" || Extension(MimeJpeg) != ".jpg" {
		t.Fatalf("unexpected extensions")
	}
	if Extension("application/x-custom") != "" {
		t.Fatalf("expected empty extension for unknown mime")
	}
}
