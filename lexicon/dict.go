package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/randolang/randolang/phone"
)

// Entry is a single pronunciation of a word. Phones are kept as read,
// including stress markers.
type Entry struct {
	Word   string
	Phones []phone.Phone
}

// Dictionary holds word-to-pronunciation mappings in file order.
type Dictionary struct {
	entries []Entry
	index   map[string][]int // word -> positions in entries
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		index: make(map[string][]int),
	}
}

// Add appends a pronunciation entry to the dictionary.
func (d *Dictionary) Add(word string, phones []phone.Phone) {
	d.index[word] = append(d.index[word], len(d.entries))
	d.entries = append(d.entries, Entry{Word: word, Phones: phones})
}

// Load reads a CMUdict-style pronunciation dictionary.
// Format: WORD  PHONE1 PHONE2 ... with ";;;" comment lines. Alternate
// pronunciations are written WORD(1), WORD(2), ... and are stored under WORD.
// Words are lower-cased.
func Load(r io.Reader) (*Dictionary, error) {
	d := NewDictionary()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected word and phones, got %d fields", lineNum, len(fields))
		}

		d.Add(baseWord(fields[0]), phone.Parse(fields[1:]))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return d, nil
}

// baseWord lower-cases w and strips a "(n)" variant suffix.
func baseWord(w string) string {
	if i := strings.LastIndexByte(w, '('); i > 0 && strings.HasSuffix(w, ")") {
		w = w[:i]
	}
	return strings.ToLower(w)
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Entries returns all entries in file order.
func (d *Dictionary) Entries() []Entry {
	return d.entries
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.entries) }

// Lookup returns all pronunciation variants for a word.
func (d *Dictionary) Lookup(word string) []Entry {
	idx := d.index[word]
	out := make([]Entry, len(idx))
	for i, j := range idx {
		out[i] = d.entries[j]
	}
	return out
}

// Contains reports whether word has at least one pronunciation.
func (d *Dictionary) Contains(word string) bool {
	return len(d.index[word]) > 0
}

// Phones returns the phones for a word (first pronunciation).
func (d *Dictionary) Phones(word string) ([]phone.Phone, bool) {
	idx := d.index[word]
	if len(idx) == 0 {
		return nil, false
	}
	return d.entries[idx[0]].Phones, true
}

// Words returns all distinct words in the dictionary.
func (d *Dictionary) Words() []string {
	words := make([]string, 0, len(d.index))
	for w := range d.index {
		words = append(words, w)
	}
	return words
}
