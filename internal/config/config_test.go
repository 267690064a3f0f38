package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/scanmark/internal/annotation"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults should be intentional, so each one is pinned here.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Concurrency is 8", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 8 {
			t.Errorf("expected Concurrency to be 8, got %d", cfg.Concurrency)
		}
	})

	t.Run("default Persist is true", func(t *testing.T) {
		t.Parallel()
		if !cfg.Persist {
			t.Error("expected Persist to be true")
		}
	})

	t.Run("default DBDir is the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir to be %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("default Tags is the built-in vocabulary", func(t *testing.T) {
		t.Parallel()
		if !slices.Equal(cfg.Tags, annotation.DefaultVocabulary()) {
			t.Errorf("expected Tags to be %v, got %v", annotation.DefaultVocabulary(), cfg.Tags)
		}
	})

	t.Run("default report options are off", func(t *testing.T) {
		t.Parallel()
		if cfg.JSONReport || cfg.MarkdownReport || cfg.ReportFile != "" {
			t.Errorf("expected no report options, got json=%v markdown=%v file=%q",
				cfg.JSONReport, cfg.MarkdownReport, cfg.ReportFile)
		}
	})

	t.Run("default Verbose is false", func(t *testing.T) {
		t.Parallel()
		if cfg.Verbose {
			t.Error("expected Verbose to be false")
		}
	})
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: nil,
		},
		{
			name:    "zero concurrency returns ErrInvalidConcurrency",
			mutate:  func(c *Config) { c.Concurrency = 0 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name:    "negative concurrency returns ErrInvalidConcurrency",
			mutate:  func(c *Config) { c.Concurrency = -3 },
			wantErr: ErrInvalidConcurrency,
		},
		{
			name: "json and markdown both enabled returns ErrConflictingReportFormats",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "json only is valid",
			mutate:  func(c *Config) { c.JSONReport = true },
			wantErr: nil,
		},
		{
			name:    "empty db dir with persistence returns ErrNoDBDir",
			mutate:  func(c *Config) { c.DBDir = "" },
			wantErr: ErrNoDBDir,
		},
		{
			name: "empty db dir without persistence is valid",
			mutate: func(c *Config) {
				c.DBDir = ""
				c.Persist = false
			},
			wantErr: nil,
		},
		{
			name:    "blank tag returns ErrEmptyTag",
			mutate:  func(c *Config) { c.Tags = []string{"XSS", "  "} },
			wantErr: ErrEmptyTag,
		},
		{
			name:    "empty vocabulary is valid",
			mutate:  func(c *Config) { c.Tags = nil },
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestConfigApplyFile tests merging a configuration file onto defaults.
func TestConfigApplyFile(t *testing.T) {
	t.Parallel()

	t.Run("nil file leaves config unchanged", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(nil)

		if cfg.Concurrency != DefaultConcurrency {
			t.Errorf("expected Concurrency %d, got %d", DefaultConcurrency, cfg.Concurrency)
		}
	})

	t.Run("set fields override defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(&File{
			Tags:        []string{"IDOR", "SSRF"},
			Concurrency: 2,
			DBDir:       "/tmp/scanmark-test",
		})

		if !slices.Equal(cfg.Tags, []string{"IDOR", "SSRF"}) {
			t.Errorf("expected file tags, got %v", cfg.Tags)
		}
		if cfg.Concurrency != 2 {
			t.Errorf("expected Concurrency 2, got %d", cfg.Concurrency)
		}
		if cfg.DBDir != "/tmp/scanmark-test" {
			t.Errorf("expected DBDir from file, got %q", cfg.DBDir)
		}
	})

	t.Run("zero fields keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ApplyFile(&File{})

		if !slices.Equal(cfg.Tags, annotation.DefaultVocabulary()) {
			t.Errorf("expected default tags, got %v", cfg.Tags)
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected default DBDir, got %q", cfg.DBDir)
		}
	})

	t.Run("file tags are copied", func(t *testing.T) {
		t.Parallel()

		f := &File{Tags: []string{"XSS"}}
		cfg := NewConfig()
		cfg.ApplyFile(f)
		f.Tags[0] = "changed"

		if cfg.Tags[0] != "XSS" {
			t.Errorf("expected config tags to be independent of file, got %v", cfg.Tags)
		}
	})
}

// TestLoadConfigFile tests loading configuration from a YAML file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		content := strings.Join([]string{
			"tags:",
			"  - Scanned",
			"  - XSS",
			"  - Open Redirect",
			"concurrency: 4",
			"dbDir: /var/lib/scanmark",
			"",
		}, "\n")

		path := filepath.Join(t.TempDir(), ".scanmark")
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !slices.Equal(cf.Tags, []string{"Scanned", "XSS", "Open Redirect"}) {
			t.Errorf("unexpected tags: %v", cf.Tags)
		}
		if cf.Concurrency != 4 {
			t.Errorf("expected concurrency 4, got %d", cf.Concurrency)
		}
		if cf.DBDir != "/var/lib/scanmark" {
			t.Errorf("expected dbDir /var/lib/scanmark, got %q", cf.DBDir)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".scanmark")
		if err := os.WriteFile(path, []byte("tags: [unterminated"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("empty file yields zero File", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".scanmark")
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cf.Tags) != 0 || cf.Concurrency != 0 || cf.DBDir != "" {
			t.Errorf("expected zero File, got %+v", cf)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("tags: []"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %q, got %q", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile("/nonexistent/path/config.yaml"); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	t.Run("XDGDataDir ends with app name", func(t *testing.T) {
		t.Parallel()
		if filepath.Base(XDGDataDir()) != AppName {
			t.Errorf("expected XDGDataDir to end with %q, got %q", AppName, XDGDataDir())
		}
	})

	t.Run("XDGConfigDir ends with app name", func(t *testing.T) {
		t.Parallel()
		if filepath.Base(XDGConfigDir()) != AppName {
			t.Errorf("expected XDGConfigDir to end with %q, got %q", AppName, XDGConfigDir())
		}
	})
}
