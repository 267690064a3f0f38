package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/nao1215/scanmark/internal/report"
	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command.
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <url>...",
		Short: "Show the annotation of URLs",
		Long: `Show prints the annotation caption and tags of each URL.

URLs that were never recorded read "Not Scanned"; show never records them.

Example:
  scanmark show "https://target.example:443/login?next=/"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runShowCmd,
	}
}

// runShowCmd executes the show command.
func runShowCmd(cmd *cobra.Command, args []string) error {
	return runWithSession(cmd, false, func(_ context.Context, s *session) error {
		out := cmd.OutOrStdout()
		for _, url := range args {
			rec, found := s.registry.Lookup(url)

			fmt.Fprintln(out, s.registry.Key(url))
			fmt.Fprintf(out, "  %s\n", report.Caption(rec, found))
			if tags := rec.AllTags(); len(tags) > 0 {
				fmt.Fprintf(out, "  Tags: %s\n", strings.Join(tags, ", "))
			}
		}
		return nil
	})
}
