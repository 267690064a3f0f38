package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/scanmark/internal/hook"
	"github.com/nao1215/scanmark/internal/report"
	"github.com/spf13/cobra"
)

// NewTagCmd creates the tag command.
func NewTagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <url> <tag>",
		Short: "Toggle a tag on a URL",
		Long: `Tag adds the tag to the URL, or removes it when the URL already has it.

The "Scanned" tag follows the scan status: toggling it marks an unscanned
URL as scanned by hand and clears a manual mark. It cannot clear a mark
made by an active scan.

Examples:
  scanmark tag https://target.example/search XSS
  scanmark tag https://target.example/search "Param Miner"`,
		Args: cobra.ExactArgs(2),
		RunE: runTagCmd,
	}
}

// runTagCmd executes the tag command.
func runTagCmd(cmd *cobra.Command, args []string) error {
	url, tag := args[0], args[1]
	if strings.TrimSpace(tag) == "" {
		return errors.New("tag must not be blank")
	}

	return runWithSession(cmd, true, func(_ context.Context, s *session) error {
		hooks := hook.New(s.registry, s.logger)
		hooks.OnTagToggle(url, tag)

		state := "removed from"
		if s.registry.HasTag(url, tag) {
			state = "added to"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", tag, state, s.registry.Key(url))
		return nil
	})
}

// NewTagsCmd creates the tags command.
func NewTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List the tag vocabulary",
		Long:  `Tags prints the tags offered for selection, with the colour each is drawn in.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSession(cmd, false, func(_ context.Context, s *session) error {
				for _, tag := range s.registry.Vocabulary().Tags() {
					label := report.LabelFor(tag)
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", label.Color, label)
				}
				return nil
			})
		},
	}
}
