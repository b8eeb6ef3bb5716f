package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/randolang/randolang/internal/config"
	"github.com/randolang/randolang/internal/logging"
	"github.com/randolang/randolang/internal/metrics"
	"github.com/randolang/randolang/language"
	"github.com/randolang/randolang/lexicon"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	cfg := config.Load()
	fs := flag.NewFlagSet("modelbuild", flag.ContinueOnError)
	dictPath := fs.String("dict", cfg.Generator.DictPath, "path to CMUdict pronunciation dictionary")
	vocabPath := fs.String("vocab", cfg.Generator.VocabPath, "text whose words restrict the dictionary (optional)")
	order := fs.Int("order", cfg.Generator.Order, "Markov model order")
	workers := fs.Int("workers", cfg.Generator.Workers, "parallel workers")
	output := fs.String("output", "", "output file (default: stdout)")
	logLevel := fs.String("log-level", cfg.Log.Level, "log level")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: modelbuild -dict CMUDICT [-vocab TEXT] [options]")
		fmt.Fprintln(os.Stderr, "  Builds a phone transition model and writes its counts.")
		fmt.Fprintln(os.Stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	logging.Init(logging.Config{Level: *logLevel, Format: "console"})
	log := logging.WithComponent("modelbuild")

	dict, err := lexicon.LoadFile(*dictPath)
	if err != nil {
		return fmt.Errorf("load dictionary: %w", err)
	}
	entries := dict.Entries()
	if *vocabPath != "" {
		vocab, err := lexicon.LoadVocabularyFile(*vocabPath)
		if err != nil {
			return fmt.Errorf("load vocabulary: %w", err)
		}
		entries = lexicon.Filter(entries, vocab)
	}

	start := time.Now()
	m, err := language.BuildParallel(ctx, entries, *order, *workers)
	if err != nil {
		return err
	}
	metrics.Default().RecordModel(m.Transitions(), time.Since(start).Seconds())

	if *output == "" {
		if err := m.WriteCounts(stdout); err != nil {
			return fmt.Errorf("write counts: %w", err)
		}
	} else {
		f, err := os.Create(*output)
		if err != nil {
			return err
		}
		if err := writeCounts(f, m); err != nil {
			return fmt.Errorf("write %s: %w", *output, err)
		}
	}

	log.Info().
		Int("order", *order).
		Int("entries", len(entries)).
		Int("contexts", m.Contexts()).
		Int("transitions", m.Transitions()).
		Dur("took", time.Since(start)).
		Msg("model built")
	return nil
}

// writeCounts writes the model counts to wc and closes it, returning the
// first error.
func writeCounts(wc io.WriteCloser, m *language.Model) error {
	if err := m.WriteCounts(wc); err != nil {
		wc.Close()
		return err
	}
	return wc.Close()
}
