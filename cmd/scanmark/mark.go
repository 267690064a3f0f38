package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/scanmark/internal/audit"
	"github.com/nao1215/scanmark/internal/hook"
	"github.com/nao1215/scanmark/internal/report"
	"github.com/spf13/cobra"
)

// NewMarkCmd creates the mark command.
func NewMarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark <url>...",
		Short: "Mark URLs as scanned",
		Long: `Mark records URLs as scanned by hand.

A manual mark never lowers the status of a URL that an active scan has
already covered. With --active the URLs are recorded as actively scanned
instead, and an informational finding is printed for each URL whose
status changed.

Examples:
  # Mark a URL after testing it by hand
  scanmark mark https://target.example/login

  # Record an active scan of two URLs
  scanmark mark --active https://target.example/login https://target.example/search

  # Also keep the findings as JSON
  scanmark mark --active -o findings.json https://target.example/login`,
		Args: cobra.MinimumNArgs(1),
		RunE: runMarkCmd,
	}

	cmd.Flags().BoolP("active", "a", false, "Mark as actively scanned and print findings")
	cmd.Flags().BoolP("json", "j", false, "Print findings as JSON (with --active)")
	cmd.Flags().StringP("output", "o", "",
		"Also write findings as JSON to the specified file path (with --active)")

	return cmd
}

// runMarkCmd executes the mark command.
func runMarkCmd(cmd *cobra.Command, args []string) error {
	active, err := cmd.Flags().GetBool("active")
	if err != nil {
		return err
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	outputFile, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if outputFile != "" && !active {
		return errors.New("--output requires --active")
	}

	return runWithSession(cmd, true, func(_ context.Context, s *session) error {
		out := cmd.OutOrStdout()

		if active {
			check := audit.NewScanCheck(s.registry, audit.WithLogger(s.logger))
			var findings []audit.Finding
			for _, url := range args {
				findings = append(findings, check.ActiveAudit(url)...)
			}

			var w report.Writer = report.NewSimpleWriter(out, report.WithShowEmpty(true), report.WithVerbose(s.cfg.Verbose))
			if asJSON {
				w = report.NewJSONWriter(out, report.WithPrettyPrint())
			}
			if outputFile != "" {
				f, err := createReportFile(outputFile)
				if err != nil {
					return err
				}
				defer f.Close()
				w = report.NewMultiWriter(w, report.NewJSONWriter(f, report.WithPrettyPrint()))
			}
			if _, err := w.WriteFindings(findings); err != nil {
				return fmt.Errorf("failed to write findings: %w", err)
			}
			return nil
		}

		hooks := hook.New(s.registry, s.logger)
		for _, url := range args {
			hooks.OnManualMark(url)
			fmt.Fprintf(out, "%s  %s\n", s.registry.Key(url), report.Caption(s.registry.Lookup(url)))
		}
		return nil
	})
}
