package app

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"horse.fit/newsindex/internal/cli"
	"horse.fit/newsindex/internal/inverted"
)

func runStopwords(args []string) int {
	fs := flag.NewFlagSet("stopwords", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	file := fs.String("file", "", "Newline-delimited stop-words file")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "stopwords does not accept positional arguments")
		return 2
	}
	if *file == "" {
		fmt.Fprintln(os.Stderr, "--file is required")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open stopwords file: %v\n", err)
		return 1
	}
	defer f.Close()

	idx := inverted.NewIndex(0)
	defer idx.Close()

	if err := idx.LoadStopWords(newLineStopWordSource(f)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load stopwords: %v\n", err)
		return 1
	}

	fmt.Printf("stopwords loaded ok from %s\n", *file)
	return 0
}
