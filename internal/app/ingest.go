package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"horse.fit/newsindex/internal/cli"
	"horse.fit/newsindex/internal/config"
	"horse.fit/newsindex/internal/ingest"
	"horse.fit/newsindex/internal/langdetect"
	"horse.fit/newsindex/internal/language"
	"horse.fit/newsindex/internal/reader"
)

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	bulkPath := fs.String("bulk", "", "Path to a bulk-ingest JSON document")
	urlFlag := fs.String("url", "", "Single article URL to fetch, extract, and tokenize")
	title := fs.String("title", "", "Title to use for --url (defaults to the URL itself)")
	stopwords := fs.String("stopwords", "", "Optional newline-delimited stop-words file (defaults to NI_STOPWORDS_FILE)")
	buckets := fs.Int("buckets", 0, "Term dictionary bucket hint (0 uses the facade default)")
	timeout := fs.Duration("timeout", 0, "Fetch timeout for --url (defaults to NI_READER_TIMEOUT_SECONDS)")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "ingest does not accept positional arguments")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	hasBulk := strings.TrimSpace(*bulkPath) != ""
	hasURL := strings.TrimSpace(*urlFlag) != ""
	if hasBulk == hasURL {
		fmt.Fprintln(os.Stderr, "exactly one of --bulk or --url is required")
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	effectiveStopwords := strings.TrimSpace(*stopwords)
	if effectiveStopwords == "" {
		effectiveStopwords = cfg.StopWordsFile
	}

	if hasBulk {
		return runBulkIngest(*bulkPath, effectiveStopwords, *buckets, outputFormat)
	}

	effectiveTimeout := *timeout
	if effectiveTimeout <= 0 {
		effectiveTimeout = time.Duration(cfg.ReaderTimeoutS) * time.Second
	}
	if effectiveTimeout <= 0 {
		effectiveTimeout = reader.DefaultFetchTimeout
	}
	return runURLIngest(*urlFlag, *title, effectiveStopwords, *buckets, effectiveTimeout, outputFormat)
}

func runBulkIngest(bulkPath, stopwordsPath string, buckets int, outputFormat string) int {
	idx, report, err := buildIndexFromBulkFile(bulkPath, stopwordsPath, buckets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingest failed: %v\n", err)
		return 1
	}
	defer idx.Close()

	if outputFormat == outputFormatJSON {
		if err := printJSON(report); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Printf(
		"ingest scanned=%d accepted=%d rejected=%d tokens_indexed=%d\n",
		report.Scanned, report.Accepted, report.Rejected, report.Tokens,
	)
	for _, reason := range report.Reasons {
		fmt.Fprintf(os.Stderr, "  rejected: %s\n", reason)
	}
	return 0
}

type singleArticleReport struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Language string `json:"language,omitempty"`
	Tokens   int    `json:"tokens_indexed"`
}

func runURLIngest(rawURL, title, stopwordsPath string, buckets int, timeout time.Duration, outputFormat string) int {
	articleTitle := strings.TrimSpace(title)
	if articleTitle == "" {
		articleTitle = rawURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	text, err := reader.FetchTextWithOptions(ctx, rawURL, articleTitle, reader.FetchOptions{Timeout: timeout})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Fetch failed: %v\n", err)
		return 1
	}

	idx := newIndexWithOptionalStopwords(buckets, stopwordsPath)
	if idx == nil {
		return 1
	}
	defer idx.Close()

	id, err := idx.RegisterArticle(rawURL, articleTitle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Register failed: %v\n", err)
		return 1
	}

	tokens := ingest.Tokenize(text)
	for _, token := range tokens {
		idx.AddToken(id, token)
	}

	report := singleArticleReport{
		URL:      rawURL,
		Title:    articleTitle,
		Language: language.NormalizeCode(langdetect.DetectISO6391(text)),
		Tokens:   len(tokens),
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(report); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Printf(
		"ingest article_id=%d title=%q language=%q tokens_indexed=%d\n",
		id, report.Title, report.Language, report.Tokens,
	)
	return 0
}
