package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/randolang/randolang/internal/config"
	"github.com/randolang/randolang/lexicon"
	"github.com/randolang/randolang/phone"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cfg := config.Load()
	fs := flag.NewFlagSet("spellcheck", flag.ContinueOnError)
	dictPath := fs.String("dict", cfg.Generator.DictPath, "path to CMUdict pronunciation dictionary")
	vocabPath := fs.String("vocab", cfg.Generator.VocabPath, "text whose words restrict the dictionary (optional)")
	limit := fs.Int("limit", lexicon.DefaultCandidates, "spelling candidates per word")
	misses := fs.Int("misses", 20, "misses to list, closest first (0 = none)")
	phones := fs.String("phones", "", "spell one space-separated phone sequence instead")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: spellcheck -dict CMUDICT [-vocab TEXT] [options]")
		fmt.Fprintln(os.Stderr, "       spellcheck -phones \"B IH D\"")
		fmt.Fprintln(os.Stderr, "  Measures how often phones are spelled back into the dictionary word.")
		fmt.Fprintln(os.Stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *misses < 0 {
		return fmt.Errorf("-misses must not be negative, got %d", *misses)
	}

	if *phones != "" {
		return spell(stdout, *phones, *limit)
	}

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

	r := lexicon.EvaluateSpelling(entries, *limit)
	fmt.Fprintf(stdout, "entries:  %d\n", r.Total)
	fmt.Fprintf(stdout, "correct:  %d (%.1f%%)\n", r.Correct, 100*r.Accuracy())
	fmt.Fprintf(stdout, "accepted: %d\n", r.Accepted)
	fmt.Fprintf(stdout, "errors:   %d\n", r.Errors)

	ms := r.Misses
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Distance < ms[j].Distance })
	if *misses < len(ms) {
		ms = ms[:*misses]
	}
	for _, m := range ms {
		mark := ""
		if m.Accepted {
			mark = " *"
		}
		fmt.Fprintf(stdout, "  %-16s %-16s %d  %s%s\n", m.Word, m.Got, m.Distance, joinPhones(m.Phones), mark)
	}
	return nil
}

func spell(w io.Writer, s string, limit int) error {
	seq := phone.Clean(phone.Parse(strings.Fields(strings.ToUpper(s))))
	cands, err := lexicon.SpellingCandidates(seq, limit)
	if err != nil {
		return err
	}
	for _, c := range cands {
		fmt.Fprintln(w, c)
	}
	return nil
}

func joinPhones(ps []phone.Phone) string {
	s := make([]string, len(ps))
	for i, p := range ps {
		s[i] = string(p)
	}
	return strings.Join(s, " ")
}
