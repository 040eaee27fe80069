package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"horse.fit/newsindex/internal/cli"
)

func runQuery(args []string) int {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	bulkPath := fs.String("bulk", "", "Path to a bulk-ingest JSON document")
	stopwords := fs.String("stopwords", "", "Optional newline-delimited stop-words file")
	buckets := fs.Int("buckets", 0, "Term dictionary bucket hint (0 uses the facade default)")
	term := fs.String("term", "", "Term to query")
	n := fs.Int("n", 10, "Maximum rows to return")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "query does not accept positional arguments")
		return 2
	}
	if strings.TrimSpace(*bulkPath) == "" {
		fmt.Fprintln(os.Stderr, "--bulk is required")
		return 2
	}
	if strings.TrimSpace(*term) == "" {
		fmt.Fprintln(os.Stderr, "--term is required")
		return 2
	}
	if *n <= 0 {
		fmt.Fprintln(os.Stderr, "--n must be > 0")
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

	idx, _, err := buildIndexFromBulkFile(*bulkPath, *stopwords, *buckets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		return 1
	}
	defer idx.Close()

	results := idx.QueryTopN(*term, *n)

	if outputFormat == outputFormatJSON {
		if err := printJSON(map[string]any{"term": *term, "n": *n, "results": results}); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{fmt.Sprintf("%d", r.ArticleID), fmt.Sprintf("%d", r.Count)})
	}
	if err := writeTable([]string{"article_id", "count"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render table: %v\n", err)
		return 1
	}
	return 0
}
