package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/scanmark/internal/annotation"
	"github.com/nao1215/scanmark/internal/config"
	"github.com/nao1215/scanmark/internal/database"
	"github.com/nao1215/scanmark/internal/log"
	"github.com/spf13/cobra"
)

// session is the state shared by one command invocation: the registry,
// the database it was loaded from, and the logger.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *annotation.Registry
	db       *database.AnnotationDB
}

// runWithSession loads the registry, calls fn, and saves the registry back
// when save is true and fn succeeded.
func runWithSession(cmd *cobra.Command, save bool, fn func(ctx context.Context, s *session) error) (err error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd, cfg)
	ctx := cmd.Context()

	s, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := fn(ctx, s); err != nil {
		return err
	}
	if save {
		return s.save(ctx)
	}
	return nil
}

// newLogger creates the redacting logger writing to the command's stderr.
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	if cfg.LogJSON {
		return log.NewSecureJSONLogger(cmd.ErrOrStderr(), cfg.Verbose)
	}
	return log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
}

// openSession creates the registry and, when persistence is enabled,
// restores it from the database.
func openSession(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*session, error) {
	s := &session{
		cfg:      cfg,
		logger:   logger,
		registry: annotation.NewRegistry(annotation.WithVocabulary(cfg.Tags...)),
	}
	if !cfg.Persist {
		logger.Debug("persistence disabled, registry starts empty")
		return s, nil
	}

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.LoadInto(ctx, s.registry); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load annotations: %w", err)
	}
	s.db = db

	logger.Debug("annotations loaded", "db", db.Path(), "count", s.registry.Len())
	return s, nil
}

// save writes the registry back to the database.
func (s *session) save(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.SaveFrom(ctx, s.registry); err != nil {
		return fmt.Errorf("failed to save annotations: %w", err)
	}
	s.logger.Debug("annotations saved", "db", s.db.Path(), "count", s.registry.Len())
	return nil
}

func (s *session) close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// buildConfig creates a Config from defaults, the configuration file, and
// the global flags, in increasing order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	cfg.Verbose = flagBool(cmd, "verbose")
	cfg.LogJSON = flagBool(cmd, "log-json")
	cfg.ConfigFilePath = flagString(cmd, "config")

	// An explicitly given config file must exist; the default locations are optional.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cfg.ApplyFile(cf)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if dbDir := flagString(cmd, "db-dir"); dbDir != "" {
		cfg.DBDir = dbDir
	}
	if flagBool(cmd, "no-db") {
		cfg.Persist = false
	}

	return cfg, nil
}

// flagString returns the value of a local or inherited string flag, or ""
// when the command does not define it.
func flagString(cmd *cobra.Command, name string) string {
	if cmd.Flags().Lookup(name) == nil {
		return ""
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return v
}

// flagBool returns the value of a local or inherited bool flag, or false
// when the command does not define it.
func flagBool(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Lookup(name) == nil {
		return false
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return v
}

// errNoURLs is returned when a command that needs URLs gets none.
var errNoURLs = errors.New("no URLs provided")
