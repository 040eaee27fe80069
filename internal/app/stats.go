package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"horse.fit/newsindex/internal/cli"
)

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	bulkPath := fs.String("bulk", "", "Path to a bulk-ingest JSON document")
	stopwords := fs.String("stopwords", "", "Optional newline-delimited stop-words file")
	buckets := fs.Int("buckets", 0, "Term dictionary bucket hint (0 uses the facade default)")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "stats does not accept positional arguments")
		return 2
	}
	if strings.TrimSpace(*bulkPath) == "" {
		fmt.Fprintln(os.Stderr, "--bulk is required")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	idx, report, err := buildIndexFromBulkFile(*bulkPath, *stopwords, *buckets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		return 1
	}
	defer idx.Close()

	stats := idx.Stats()

	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{"stats": stats, "ingest": report}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Printf(
		"articles=%s terms=%s (ingested %s accepted, %s rejected)\n",
		humanize.Comma(int64(stats.Articles)),
		humanize.Comma(int64(stats.Terms)),
		humanize.Comma(int64(report.Accepted)),
		humanize.Comma(int64(report.Rejected)),
	)
	return 0
}
