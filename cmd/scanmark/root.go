package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for scanmark.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scanmark",
		Short: "Track scan status and tags for web resources",
		Long: `scanmark keeps a registry of the URLs seen while testing a web application:
whether each was scanned manually or by an active scan, and which tags
(XSS, SQLi, Param Miner, ...) it carries.

URLs are reduced to scheme://host[:port]/path before lookup, so
https://target.example:443/a?x=1#top and https://target.example/a are
the same entry. The registry is kept in a SQLite database in the XDG data
directory between runs.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write log records to stderr as JSON")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .scanmark in current or home directory)")
	cmd.PersistentFlags().String("db-dir", "",
		"Directory of the annotation database (default: XDG data directory)")
	cmd.PersistentFlags().Bool("no-db", false,
		"Keep annotations in memory only; nothing is read from or written to the database")

	cmd.AddCommand(NewObserveCmd())
	cmd.AddCommand(NewMarkCmd())
	cmd.AddCommand(NewTagCmd())
	cmd.AddCommand(NewTagsCmd())
	cmd.AddCommand(NewShowCmd())
	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
