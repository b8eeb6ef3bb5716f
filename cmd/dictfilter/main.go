package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/randolang/randolang/internal/config"
	"github.com/randolang/randolang/internal/logging"
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
	fs := flag.NewFlagSet("dictfilter", flag.ContinueOnError)
	corpusGlob := fs.String("corpus", "", "glob pattern for vocabulary texts (e.g. 'texts/austen*.txt')")
	maxWords := fs.Int("max", 0, "fill up to this many words with short alphabetic entries (0 = corpus words only)")
	logLevel := fs.String("log-level", cfg.Log.Level, "log level")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dictfilter -corpus GLOB [options] <cmudict>")
		fmt.Fprintln(os.Stderr, "  Writes the dictionary entries whose word appears in the corpus texts.")
		fmt.Fprintln(os.Stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 || (*corpusGlob == "" && *maxWords <= 0) {
		fs.Usage()
		return errors.New("need a dictionary and -corpus or -max")
	}

	logging.Init(logging.Config{Level: *logLevel, Format: "console"})
	log := logging.WithComponent("dictfilter")

	vocab := make(lexicon.Vocabulary)
	if *corpusGlob != "" {
		files, err := filepath.Glob(*corpusGlob)
		if err != nil {
			return fmt.Errorf("corpus glob: %w", err)
		}
		for _, path := range files {
			v, err := lexicon.LoadVocabularyFile(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("skipping corpus file")
				continue
			}
			for w := range v {
				vocab[w] = struct{}{}
			}
		}
		log.Info().Int("files", len(files)).Int("words", len(vocab)).Msg("corpus loaded")
	}

	dict, err := lexicon.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	selected := lexicon.Filter(dict.Entries(), vocab)
	picked := make(map[string]bool)
	for _, e := range selected {
		picked[e.Word] = true
	}

	fill := fillCandidates(dict.Entries(), picked)
	take := min(max(*maxWords-len(picked), 0), len(fill))
	for _, e := range fill[:take] {
		picked[e.Word] = true
	}
	selected = lexicon.Filter(dict.Entries(), vocabOf(picked))

	if err := writeDict(stdout, selected); err != nil {
		return err
	}
	log.Info().
		Int("entries", len(selected)).
		Int("words", len(picked)).
		Int("fill", take).
		Msg("dictionary written")

	missing := 0
	for w := range vocab {
		if !dict.Contains(w) {
			missing++
			if missing <= 20 {
				log.Warn().Str("word", w).Msg("corpus word not in dictionary")
			}
		}
	}
	if missing > 0 {
		log.Warn().Int("missing", missing).Msg("corpus words not in dictionary")
	}
	return nil
}

// fillCandidates returns the first pronunciation of every alphabetic word not
// yet picked, fewest phones first, then shortest word.
func fillCandidates(entries []lexicon.Entry, picked map[string]bool) []lexicon.Entry {
	seen := make(map[string]bool)
	var out []lexicon.Entry
	for _, e := range entries {
		if picked[e.Word] || seen[e.Word] || !alphabetic(e.Word) {
			continue
		}
		seen[e.Word] = true
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if len(out[i].Phones) != len(out[j].Phones) {
			return len(out[i].Phones) < len(out[j].Phones)
		}
		return len(out[i].Word) < len(out[j].Word)
	})
	return out
}

func alphabetic(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return w != ""
}

func vocabOf(words map[string]bool) lexicon.Vocabulary {
	v := make(lexicon.Vocabulary, len(words))
	for w := range words {
		v[w] = struct{}{}
	}
	return v
}

// writeDict writes entries in CMUdict layout, numbering repeated words as
// pronunciation variants.
func writeDict(w io.Writer, entries []lexicon.Entry) error {
	variants := make(map[string]int)
	for _, e := range entries {
		head := strings.ToUpper(e.Word)
		if n := variants[e.Word]; n > 0 {
			head = fmt.Sprintf("%s(%d)", head, n)
		}
		variants[e.Word]++
		if _, err := fmt.Fprintf(w, "%s  %s\n", head, joinPhones(e.Phones)); err != nil {
			return err
		}
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
