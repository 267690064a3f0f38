package main

import (
	"context"
	"fmt"

	"github.com/nao1215/scanmark/internal/annotation"
	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count recorded URLs by scan status",
		Long: `Stats prints how many recorded URLs have each scan status.

With a database the counts come straight from it; with --no-db they are
counted from the (empty) in-memory registry.

Example:
  scanmark stats`,
		Args: cobra.NoArgs,
		RunE: runStatsCmd,
	}
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, _ []string) error {
	return runWithSession(cmd, false, func(ctx context.Context, s *session) error {
		counts, err := s.countByStatus(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		total := 0
		for _, status := range annotation.Statuses() {
			fmt.Fprintf(out, "%-24s %d\n", status.String()+":", counts[status])
			total += counts[status]
		}
		fmt.Fprintf(out, "%-24s %d\n", "Total:", total)
		return nil
	})
}

// countByStatus counts records per status, from the database when one is open.
func (s *session) countByStatus(ctx context.Context) (map[annotation.Status]int, error) {
	if s.db != nil {
		counts, err := s.db.CountByStatus(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count annotations: %w", err)
		}
		return counts, nil
	}

	counts := make(map[annotation.Status]int)
	for _, e := range s.registry.ListAll() {
		counts[e.Record.Status]++
	}
	return counts, nil
}
