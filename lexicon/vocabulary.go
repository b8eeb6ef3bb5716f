package lexicon

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"
)

// Vocabulary is a set of lower-cased words, typically collected from a text
// by one author and used to restrict the dictionary to familiar words.
type Vocabulary map[string]struct{}

// Has reports whether word is in the vocabulary.
func (v Vocabulary) Has(word string) bool {
	_, ok := v[word]
	return ok
}

// LoadVocabulary collects the words of a text. A word is a run of letters,
// optionally with inner apostrophes ("don't").
func LoadVocabulary(r io.Reader) (Vocabulary, error) {
	v := make(Vocabulary)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		for _, w := range splitWords(scanner.Text()) {
			v[w] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadVocabularyFile is a convenience wrapper that opens a file path.
func LoadVocabularyFile(path string) (Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadVocabulary(f)
}

func splitWords(line string) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
	words := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			words = append(words, strings.ToLower(f))
		}
	}
	return words
}

// Filter returns the entries whose word is in vocab, in their original order.
func Filter(entries []Entry, vocab Vocabulary) []Entry {
	var out []Entry
	for _, e := range entries {
		if vocab.Has(e.Word) {
			out = append(out, e)
		}
	}
	return out
}
