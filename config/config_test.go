package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
)

func validConfig() *Config {
	return &Config{
		Debug:   true,
		Runtime: "server",
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Upload: Upload{
			ChunkSize:           1024,
			SmallMediaThreshold: 4096,
			DeprecationWarnings: true,
			Target:              "tweet",
		},
		Server: Server{
			Address: "127.0.0.1",
			Port:    8080,
			Limits: ServerLimits{
				MaxFileSize:     1,
				MaxMultipartMem: 1,
			},
		},
		Media: Media{
			Strategy: "s3",
			S3: &S3MediaStrategy{
				AccessKeyId: "key",
				SecretKeyId: "secret",
				Region:      "us-east-1",
				Bucket:      "bucket",
				Endpoint:    "https://s3.example.com",
				PublicUrl:   "https://cdn.example.com",
			},
		},
		Manifest: Manifest{
			Strategy: "noop",
		},
	}
}

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestValidate_Success(t *testing.T) {
	cfg := validConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected validation to pass, got %v", err)
	}
}

func TestValidate_FailsForUnknownRuntime(t *testing.T) {
	cfg := validConfig()
	cfg.Runtime = "desktop"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for unknown runtime")
	}
}

func TestValidate_FailsForZeroChunkSize(t *testing.T) {
	cfg := validConfig()
	cfg.Upload.ChunkSize = 0

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for zero chunk size")
	}
}

func TestValidate_FailsForMissingStrategyBlock(t *testing.T) {
	cfg := validConfig()
	cfg.Media.S3 = nil

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail when s3 block is missing")
	}

	cfg = validConfig()
	cfg.Manifest.Strategy = "sql"

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail when sql block is missing")
	}
}

func TestValidate_SQLManifestTablePrefix(t *testing.T) {
	cfg := validConfig()
	bad := "bad-prefix"
	cfg.Manifest = Manifest{
		Strategy: "sql",
		SQL:      &SQLManifestStrategy{Driver: "postgres", DSN: "postgres://localhost/db", TablePrefix: &bad},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for invalid table prefix")
	}

	good := "media_prep"
	cfg.Manifest.SQL.TablePrefix = &good
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected validation to pass, got %v", err)
	}
}

func TestLoadConfig_Success(t *testing.T) {
	path := writeConfig(t, `debug: true
runtime: "server"
upload:
  chunk_size: 2048
  target: "dm"
media:
  strategy: "filesystem"
  filesystem:
    path: "/tmp/media"
    public_url: "https://example.org/media"
    path_pattern: "{year}/{filename}"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	if cfg.Upload.ChunkSize != 2048 {
		t.Fatalf("unexpected chunk size: %d", cfg.Upload.ChunkSize)
	}
	if cfg.Upload.Target != "dm" {
		t.Fatalf("unexpected target: %q", cfg.Upload.Target)
	}
	if cfg.Media.Filesystem == nil || cfg.Media.Filesystem.PathPattern != "{year}/{filename}" {
		t.Fatalf("unexpected filesystem config: %+v", cfg.Media.Filesystem)
	}
	if cfg.Upload.SmallMediaThreshold != 5*1024*1024 {
		t.Fatalf("expected default small media threshold, got %d", cfg.Upload.SmallMediaThreshold)
	}
	if cfg.Manifest.Strategy != "noop" || cfg.Logging.Level != "info" {
		t.Fatalf("expected defaults to apply, got manifest=%q level=%q", cfg.Manifest.Strategy, cfg.Logging.Level)
	}
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	path := writeConfig(t, "runtime: \"server\"\n")
	t.Setenv("MEDIAPREP_UPLOAD_CHUNK_SIZE", "4096")
	t.Setenv("MEDIAPREP_RUNTIME", "browser")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected config to load, got %v", err)
	}

	if cfg.Upload.ChunkSize != 4096 {
		t.Fatalf("expected env chunk size, got %d", cfg.Upload.ChunkSize)
	}
	if cfg.Runtime != "browser" {
		t.Fatalf("expected env runtime, got %q", cfg.Runtime)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	path := writeConfig(t, "runtime: \"server\"\nupload:\n  target: \"timeline\"\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected validation error for unknown target")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yml"); err == nil {
		t.Fatalf("expected error when config file is missing")
	}
}

func TestValidate_FilesystemPathPatternTraversal(t *testing.T) {
	cfg := validConfig()
	cfg.Media.Strategy = "filesystem"
	cfg.Media.Filesystem = &FilesystemMediaStrategy{
		Path:        "/tmp/media",
		PublicUrl:   "https://example.org/media",
		PathPattern: "../etc/passwd", // Path traversal attempt
	}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for path traversal pattern")
	}
}

func TestValidate_FilesystemPathPatternAbsolute(t *testing.T) {
	cfg := validConfig()
	cfg.Media.Strategy = "filesystem"
	cfg.Media.Filesystem = &FilesystemMediaStrategy{
		Path:        "/tmp/media",
		PublicUrl:   "https://example.org/media",
		PathPattern: "/etc/passwd", // Absolute path attempt
	}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for absolute path pattern")
	}
}

func TestValidate_FilesystemRelativeBasePath(t *testing.T) {
	cfg := validConfig()
	cfg.Media.Strategy = "filesystem"
	cfg.Media.Filesystem = &FilesystemMediaStrategy{
		Path:      "relative/media",
		PublicUrl: "https://example.org/media",
	}

	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to fail for relative base path")
	}
}

func TestCustomValidators(t *testing.T) {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("abspath", ValidateAbsPath)
	v.RegisterValidation("pathpattern", ValidatePathPattern)
	v.RegisterValidation("identifier", ValidateIdentifier)

	type sample struct {
		Abs     string `validate:"abspath"`
		Pattern string `validate:"pathpattern"`
		Ident   string `validate:"identifier"`
	}

	abs := filepath.Join(t.TempDir(), "file.txt")

	if err := v.Struct(sample{Abs: abs, Pattern: "{year}/{month}/{filename}", Ident: "media_prep"}); err != nil {
		t.Fatalf("expected validator to accept values: %v", err)
	}

	if err := v.Struct(sample{Abs: "relative", Pattern: "valid/pattern", Ident: "1bad"}); err == nil {
		t.Fatalf("expected validator to reject invalid values")
	}
}

func TestValidatePathPattern(t *testing.T) {
	v := validator.New()
	v.RegisterValidation("pathpattern", ValidatePathPattern)

	type testStruct struct {
		Pattern string `validate:"pathpattern"`
	}

	tests := []struct {
		name    string
		pattern string
		valid   bool
	}{
		{"empty pattern", "", true},
		{"simple pattern", "{filename}", true},
		{"nested pattern", "{year}/{month}/{filename}", true},
		{"slug and ext", "media/{slug}{ext}", true},
		{"path traversal with ..", "../etc/passwd", false},
		{"path traversal in middle", "media/../config", false},
		{"absolute unix path", "/etc/passwd", false},
		{"absolute windows path", "C:/Windows", false},
		{"null byte", "media/\x00evil", false},
		{"complex valid pattern", "{year}/{month}/{day}/{slug}{ext}", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(testStruct{Pattern: tc.pattern})
			if tc.valid && err != nil {
				t.Errorf("expected pattern %q to be valid, got error: %v", tc.pattern, err)
			}
			if !tc.valid && err == nil {
				t.Errorf("expected pattern %q to be invalid, but validation passed", tc.pattern)
			}
		})
	}
}
