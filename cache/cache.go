// Package cache remembers generated names and the availability of their
// domains, one CSV file per generation scheme.
package cache

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// Scheme names the method that generated a word. Each scheme has its own
// directory under the cache root.
type Scheme string

const (
	Phones  Scheme = "phones"  // phone model, spelled
	Letters Scheme = "letters" // letter model, used as sampled
)

// Schemes lists every scheme SaveAll and LoadAll handle.
var Schemes = []Scheme{Phones, Letters}

// Availability is the registration status of a domain.
type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
	Unknown     Availability = "unknown"
)

// DefaultTLD is used when a word is added without a TLD.
const DefaultTLD = ".com"

// DefaultRoot is the directory caches are kept under unless configured.
const DefaultRoot = "data/saved_words"

const fileName = "words.csv"

var header = []string{"Word", "TLD", "Availability"}

// ErrMalformed is returned when a cache file cannot be parsed.
var ErrMalformed = errors.New("cache: malformed file")

// Row is one word/TLD pair with its availability.
type Row struct {
	Word         string
	TLD          string
	Availability Availability
}

// Cache holds words per scheme. It is safe for concurrent use.
type Cache struct {
	root string
	log  zerolog.Logger

	mu    sync.RWMutex
	words map[Scheme]map[string]map[string]Availability
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for load and save events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Cache) {
		c.log = l
	}
}

// New creates an empty cache rooted at root. Nothing is read until Load.
func New(root string, opts ...Option) *Cache {
	if root == "" {
		root = DefaultRoot
	}
	c := &Cache{
		root:  root,
		log:   zerolog.Nop(),
		words: make(map[Scheme]map[string]map[string]Availability),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Root returns the directory the cache reads and writes.
func (c *Cache) Root() string { return c.root }

// Path returns the CSV file of a scheme.
func (c *Cache) Path(s Scheme) string {
	return filepath.Join(c.root, string(s), fileName)
}

// AddWord records the availability of word under tld. An empty tld means
// DefaultTLD and an empty availability means Unknown. A later call for the
// same word and tld overwrites the earlier status.
func (c *Cache) AddWord(s Scheme, word, tld string, a Availability) {
	if tld == "" {
		tld = DefaultTLD
	}
	if a == "" {
		a = Unknown
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.add(s, word, tld, a)
}

func (c *Cache) add(s Scheme, word, tld string, a Availability) {
	byWord, ok := c.words[s]
	if !ok {
		byWord = make(map[string]map[string]Availability)
		c.words[s] = byWord
	}
	tlds, ok := byWord[word]
	if !ok {
		tlds = make(map[string]Availability)
		byWord[word] = tlds
	}
	tlds[tld] = a
}

// Contains reports whether word is cached under scheme s for any TLD.
func (c *Cache) Contains(s Scheme, word string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.words[s][word]
	return ok
}

// Availability returns the status of word under tld.
func (c *Cache) Availability(s Scheme, word, tld string) (Availability, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.words[s][word][tld]
	return a, ok
}

// Words returns the sorted words cached under scheme s.
func (c *Cache) Words(s Scheme) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	words := make([]string, 0, len(c.words[s]))
	for w := range c.words[s] {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Rows returns every word/TLD pair of scheme s sorted by word then TLD.
func (c *Cache) Rows(s Scheme) []Row {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var rows []Row
	for w, tlds := range c.words[s] {
		for tld, a := range tlds {
			rows = append(rows, Row{Word: w, TLD: tld, Availability: a})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Word != rows[j].Word {
			return rows[i].Word < rows[j].Word
		}
		if rows[i].TLD != rows[j].TLD {
			return rows[i].TLD < rows[j].TLD
		}
		return rows[i].Availability < rows[j].Availability
	})
	return rows
}

// Save writes scheme s to its CSV file, creating the directory if needed.
func (c *Cache) Save(s Scheme) error {
	path := c.Path(s)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	rows := c.Rows(s)
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	c.log.Debug().Str("scheme", string(s)).Int("rows", len(rows)).Str("path", path).Msg("cache saved")
	return nil
}

// SaveAll writes every scheme in Schemes.
func (c *Cache) SaveAll() error {
	for _, s := range Schemes {
		if err := c.Save(s); err != nil {
			return err
		}
	}
	return nil
}

// Load merges the CSV file of scheme s into the cache. A missing file is
// not an error.
func (c *Cache) Load(s Scheme) error {
	path := c.Path(s)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		c.log.Debug().Str("scheme", string(s)).Msg("no cache file")
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := ReadCSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	c.mu.Lock()
	for _, r := range rows {
		c.add(s, r.Word, r.TLD, r.Availability)
	}
	c.mu.Unlock()
	c.log.Debug().Str("scheme", string(s)).Int("rows", len(rows)).Msg("cache loaded")
	return nil
}

// LoadAll loads every scheme in Schemes.
func (c *Cache) LoadAll() error {
	for _, s := range Schemes {
		if err := c.Load(s); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes the header followed by rows.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Word, r.TLD, string(r.Availability)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a cache file, skipping its header row.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("%w: line %d: expected %d fields, got %d",
				ErrMalformed, i+2, len(header), len(rec))
		}
		rows = append(rows, Row{Word: rec[0], TLD: rec[1], Availability: Availability(rec[2])})
	}
	return rows, nil
}
