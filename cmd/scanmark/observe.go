package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nao1215/scanmark/internal/hook"
	"github.com/nao1215/scanmark/internal/ingest"
	"github.com/spf13/cobra"
)

// NewObserveCmd creates the observe command.
func NewObserveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "observe [url...]",
		Short: "Record URLs seen in traffic",
		Long: `Observe records URLs as seen without changing their scan status.

URLs come from the arguments and, with --file, from a file: one URL per
line (blank lines and lines starting with # are skipped), or the links of
an HTML page with --html. Use "-" to read from standard input.

With --findings every URL is treated as reported by an active scan and
marked "Scanned (active scan)".

Examples:
  # Record URLs exported from proxy history
  scanmark observe --file history.txt

  # Record every link of a saved page, resolving relative links
  scanmark observe --file index.html --html --base https://target.example/

  # Import URLs with active scan findings and tag them
  scanmark observe --file sqli-hits.txt --findings --tag SQLi`,
		Args: cobra.ArbitraryArgs,
		RunE: runObserveCmd,
	}

	cmd.Flags().StringP("file", "f", "", `Read URLs from file ("-" for standard input)`)
	cmd.Flags().Bool("html", false, "Treat --file as an HTML document and collect its links")
	cmd.Flags().String("base", "", "Base URL for resolving relative links in HTML input")
	cmd.Flags().Bool("findings", false, "Mark every URL as actively scanned")
	cmd.Flags().StringP("tag", "t", "", "Add this tag to every URL")
	cmd.Flags().IntP("concurrency", "n", 0, "Number of URLs ingested in parallel (default from config)")

	return cmd
}

// runObserveCmd executes the observe command.
func runObserveCmd(cmd *cobra.Command, args []string) error {
	file, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}
	asHTML, err := cmd.Flags().GetBool("html")
	if err != nil {
		return err
	}
	base, err := cmd.Flags().GetString("base")
	if err != nil {
		return err
	}
	findings, err := cmd.Flags().GetBool("findings")
	if err != nil {
		return err
	}
	tag, err := cmd.Flags().GetString("tag")
	if err != nil {
		return err
	}
	concurrency, err := cmd.Flags().GetInt("concurrency")
	if err != nil {
		return err
	}

	urls := append([]string(nil), args...)
	if file != "" {
		format := ingest.FormatLines
		if asHTML {
			format = ingest.FormatHTML
		}
		read, err := readURLFile(cmd.InOrStdin(), file, format, base)
		if err != nil {
			return err
		}
		urls = append(urls, read...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("%w (pass URLs as arguments or use --file)", errNoURLs)
	}

	return runWithSession(cmd, true, func(ctx context.Context, s *session) error {
		if concurrency > 0 {
			s.cfg.Concurrency = concurrency
		}

		hooks := hook.New(s.registry, s.logger)
		fn := hooks.OnURLObserved
		if findings {
			fn = hooks.OnFindingReported
		}
		if tag != "" {
			fn = withTag(fn, s.registry.AddTag, tag)
		}

		before := s.registry.Len()
		feeder := ingest.NewFeeder(
			ingest.WithConcurrency(s.cfg.Concurrency),
			ingest.WithLogger(s.logger),
		)
		n, err := feeder.Feed(ctx, urls, fn)
		if err != nil {
			return fmt.Errorf("ingestion stopped after %d URL(s): %w", n, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Processed %d URL(s), %d new, %d total\n",
			n, s.registry.Len()-before, s.registry.Len())
		return nil
	})
}

// withTag wraps fn so every URL also receives tag.
func withTag(fn hook.URLFunc, addTag hook.TagFunc, tag string) hook.URLFunc {
	return func(url string) {
		fn(url)
		addTag(url, tag)
	}
}

// readURLFile reads URLs from path, or from stdin when path is "-".
func readURLFile(stdin io.Reader, path string, format ingest.Format, base string) ([]string, error) {
	if path == "-" {
		urls, err := ingest.Read(stdin, format, base)
		if err != nil {
			return nil, fmt.Errorf("failed to read URLs from standard input: %w", err)
		}
		return urls, nil
	}

	f, err := os.Open(path) //nolint:gosec // User-provided input path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open URL file: %w", err)
	}
	defer f.Close()

	urls, err := ingest.Read(f, format, base)
	if err != nil {
		return nil, fmt.Errorf("failed to read URLs from %s: %w", path, err)
	}
	return urls, nil
}
