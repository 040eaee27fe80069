package app

import (
	"fmt"
	"os"
	"strings"
)

// Run executes the CLI command and returns a process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "help", "--help", "-h":
		printUsage()
		return 0
	case "ingest":
		return runIngest(args[1:])
	case "stopwords":
		return runStopwords(args[1:])
	case "query":
		return runQuery(args[1:])
	case "stats":
		return runStats(args[1:])
	case "serve":
		return runServe(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "newsindex CLI")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  newsindex <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  ingest     Build an index from a bulk file or a single fetched URL, then report what was ingested")
	fmt.Fprintln(os.Stderr, "  stopwords  Validate a newline-delimited stop-words file against the index")
	fmt.Fprintln(os.Stderr, "  query      Ingest a bulk file, then print one QueryTopN answer")
	fmt.Fprintln(os.Stderr, "  stats      Ingest a bulk file, then print index-wide counters")
	fmt.Fprintln(os.Stderr, "  serve      Start the HTTP API over an index, optionally preloaded from a bulk file")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Use \"newsindex <command> -h\" for command-specific flags.")
}
