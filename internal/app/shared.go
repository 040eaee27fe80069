package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"horse.fit/newsindex/internal/ingestschema"
	"horse.fit/newsindex/internal/inverted"
)

const (
	outputFormatTable = "table"
	outputFormatJSON  = "json"
)

// bulkIngestReport summarizes replaying a validated bulk document through
// the facade's public contract.
type bulkIngestReport struct {
	Scanned  int      `json:"scanned"`
	Accepted int      `json:"accepted"`
	Rejected int      `json:"rejected"`
	Reasons  []string `json:"reasons,omitempty"`
	Tokens   int      `json:"tokens_indexed"`
}

// buildIndexFromBulkFile reads, schema-validates, and replays a bulk-ingest
// document from path into a fresh index. If stopwordsPath is nonempty, the
// stop-word set is loaded before any article is registered, matching the
// order spec.md's worked examples assume.
func buildIndexFromBulkFile(path, stopwordsPath string, numBuckets int) (*inverted.Index, bulkIngestReport, error) {
	idx := inverted.NewIndex(numBuckets)

	if strings.TrimSpace(stopwordsPath) != "" {
		file, err := os.Open(stopwordsPath)
		if err != nil {
			return nil, bulkIngestReport{}, fmt.Errorf("open stopwords file: %w", err)
		}
		err = idx.LoadStopWords(newLineStopWordSource(file))
		closeErr := file.Close()
		if err != nil {
			return nil, bulkIngestReport{}, fmt.Errorf("load stopwords: %w", err)
		}
		if closeErr != nil {
			return nil, bulkIngestReport{}, fmt.Errorf("close stopwords file: %w", closeErr)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, bulkIngestReport{}, fmt.Errorf("read bulk ingest file: %w", err)
	}

	doc, err := ingestschema.ValidateBulkIngest(raw)
	if err != nil {
		return nil, bulkIngestReport{}, fmt.Errorf("validate bulk ingest file: %w", err)
	}

	report := bulkIngestReport{}
	for _, rec := range doc.Articles {
		report.Scanned++
		id, err := idx.RegisterArticle(rec.URL, rec.Title)
		if err != nil {
			report.Rejected++
			report.Reasons = append(report.Reasons, fmt.Sprintf("%s: %v", rec.URL, err))
			continue
		}
		report.Accepted++
		for _, token := range rec.Tokens {
			idx.AddToken(id, token)
			report.Tokens++
		}
	}

	return idx, report, nil
}

// lineStopWordSource adapts a bufio.Scanner over a file to
// inverted.StopWordSource, one nonempty trimmed line per word.
type lineStopWordSource struct {
	scanner *bufio.Scanner
}

func newLineStopWordSource(f *os.File) *lineStopWordSource {
	return &lineStopWordSource{scanner: bufio.NewScanner(f)}
}

func (s *lineStopWordSource) Next() (string, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}
		return line, nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// newIndexWithOptionalStopwords builds an empty index and, if stopwordsPath
// is nonempty, loads it from that file. It prints to stderr and returns nil
// on failure so callers can treat a nil result as "already reported".
func newIndexWithOptionalStopwords(buckets int, stopwordsPath string) *inverted.Index {
	idx := inverted.NewIndex(buckets)
	if strings.TrimSpace(stopwordsPath) == "" {
		return idx
	}

	file, err := os.Open(stopwordsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Open stopwords file failed: %v\n", err)
		return nil
	}
	defer file.Close()

	if err := idx.LoadStopWords(newLineStopWordSource(file)); err != nil {
		fmt.Fprintf(os.Stderr, "Load stopwords failed: %v\n", err)
		return nil
	}
	return idx
}

func parseOutputFormat(raw, defaultFormat string) (string, error) {
	format := strings.TrimSpace(strings.ToLower(raw))
	if format == "" {
		format = strings.TrimSpace(strings.ToLower(defaultFormat))
	}
	switch format {
	case outputFormatTable, outputFormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("--format must be table or json")
	}
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func writeTable(headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(writer, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(writer, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return writer.Flush()
}
