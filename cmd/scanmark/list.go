package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/scanmark/internal/config"
	"github.com/nao1215/scanmark/internal/report"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every recorded URL",
		Long: `List prints every recorded URL in the order it was first seen, with its
scan status and tags, followed by a summary.

Examples:
  # Text table on the terminal
  scanmark list

  # JSON for other tools
  scanmark list --json

  # Markdown coverage report with a status chart
  scanmark list --markdown -o reports/coverage.md`,
		Args: cobra.NoArgs,
		RunE: runListCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the listing to the specified file path (creates directories if needed)")

	return cmd
}

// runListCmd executes the list command.
func runListCmd(cmd *cobra.Command, _ []string) error {
	jsonReport, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownReport, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	reportFile, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	return runWithSession(cmd, false, func(_ context.Context, s *session) error {
		s.cfg.JSONReport = jsonReport
		s.cfg.MarkdownReport = markdownReport
		s.cfg.ReportFile = reportFile
		if err := s.cfg.Validate(); err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		return outputListing(cmd.OutOrStdout(), s.cfg, s)
	})
}

// outputListing writes the registry contents in the configured format.
func outputListing(stdout io.Writer, cfg *config.Config, s *session) error {
	output := stdout
	if cfg.ReportFile != "" {
		f, err := createReportFile(cfg.ReportFile)
		if err != nil {
			return err
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(s.registry.ListAll()); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}
	if cfg.ReportFile != "" {
		s.logger.Info("listing written", "path", cfg.ReportFile, "count", s.registry.Len())
	}
	return nil
}

// createReportFile creates path and its parent directories. Reports name
// every URL of the engagement, so the file is owner-only.
func createReportFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}
