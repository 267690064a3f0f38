package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/nao1215/scanmark/internal/annotation"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "scanmark"

	// DefaultConcurrency is the number of URLs ingested in parallel.
	// Registry writes are in-memory, so this mainly bounds goroutine count
	// for very large imports.
	DefaultConcurrency = 8
)

// Config holds all configuration options for scanmark.
// It is populated from the configuration file and CLI flags and passed
// through the application rather than kept in global state.
type Config struct {
	// Verbose enables debug logging.
	Verbose bool

	// LogJSON writes log records as JSON instead of text.
	LogJSON bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .scanmark is looked up in the current and home directories.
	ConfigFilePath string

	// DBDir is the directory holding the annotation database.
	// Defaults to the XDG data directory (~/.local/share/scanmark on Linux).
	DBDir string

	// Persist controls whether annotations are loaded from and saved to DBDir.
	// When false the registry lives only for the duration of the command.
	Persist bool

	// Tags is the tag vocabulary offered for selection.
	// Tags outside the vocabulary are still accepted.
	Tags []string

	// Concurrency is the number of URLs ingested in parallel.
	Concurrency int

	// JSONReport selects JSON output for listings.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output for listings.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output path for listings. Empty means stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		DBDir:       XDGDataDir(),
		Persist:     true,
		Tags:        annotation.DefaultVocabulary(),
		Concurrency: DefaultConcurrency,
	}
}

// XDGDataDir returns the XDG data directory for scanmark.
// On Linux: ~/.local/share/scanmark
// On macOS: ~/Library/Application Support/scanmark
// On Windows: %LOCALAPPDATA%\scanmark
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for scanmark.
// On Linux: ~/.config/scanmark
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplyFile copies the values set in f onto c. Zero values in f leave c unchanged.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if len(f.Tags) > 0 {
		c.Tags = append([]string(nil), f.Tags...)
	}
	if f.Concurrency != 0 {
		c.Concurrency = f.Concurrency
	}
	if f.DBDir != "" {
		c.DBDir = f.DBDir
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.Persist && c.DBDir == "" {
		return ErrNoDBDir
	}

	for _, tag := range c.Tags {
		if strings.TrimSpace(tag) == "" {
			return ErrEmptyTag
		}
	}

	return nil
}
