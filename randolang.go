// Package randolang generates pronounceable made-up words. A Markov model of
// phone sequences is trained on a pronunciation dictionary, sampled, and the
// sampled phones are spelled back into English letters. Under the letters
// scheme the model is trained on spellings and samples are used as they are.
package randolang

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/randolang/randolang/cache"
	"github.com/randolang/randolang/internal/metrics"
	"github.com/randolang/randolang/language"
	"github.com/randolang/randolang/lexicon"
	"github.com/randolang/randolang/phone"
)

// DefaultMaxLength caps sampled words unless WithMaxLength is given.
const DefaultMaxLength = 10

// ErrAttemptsExhausted is returned by Batch when it runs out of attempts
// before collecting enough new words.
var ErrAttemptsExhausted = errors.New("randolang: attempts exhausted")

// ErrUnsupportedScheme is returned for a scheme the generator cannot sample.
var ErrUnsupportedScheme = errors.New("randolang: unsupported scheme")

// Word is one generated word.
type Word struct {
	Text      string
	Phones    []phone.Phone // letters under the letters scheme
	Truncated bool          // cut off at the maximum length
	LogProb   float64       // natural log probability of Phones as a complete word
}

// WordSet reports known words. *lexicon.Dictionary satisfies it.
type WordSet interface {
	Contains(word string) bool
}

// Generator samples words from a model. It is safe for concurrent use.
type Generator struct {
	model     *language.Model
	scheme    cache.Scheme
	maxLength int
	seed      int64
	workers   int
	log       zerolog.Logger
	metrics   *metrics.Metrics
	cache     *cache.Cache
	existing  WordSet

	mu      sync.Mutex
	sampler *language.Sampler
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed seeds the sampler. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithScheme selects how words are modelled: cache.Phones (the default)
// samples phones and spells them, cache.Letters samples letters directly.
// Batch caches words under the same scheme.
func WithScheme(s cache.Scheme) Option {
	return func(g *Generator) {
		g.scheme = s
	}
}

// WithMaxLength caps the number of phones in a word.
func WithMaxLength(n int) Option {
	return func(g *Generator) {
		g.maxLength = n
	}
}

// WithWorkers sets how many goroutines NewGeneratorFromFiles uses to build
// the model.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		g.workers = n
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) {
		g.log = l
	}
}

// WithMetrics records generator metrics with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(g *Generator) {
		g.metrics = metrics.For(reg)
	}
}

// WithCache makes Batch skip words already cached under the generator's
// scheme and record the words it returns.
func WithCache(c *cache.Cache) Option {
	return func(g *Generator) {
		g.cache = c
	}
}

// WithExisting makes Batch reject words in set, typically the dictionary
// the model was trained on.
func WithExisting(set WordSet) Option {
	return func(g *Generator) {
		g.existing = set
	}
}

func newGenerator(opts []Option) *Generator {
	g := &Generator{
		scheme:    cache.Phones,
		maxLength: DefaultMaxLength,
		workers:   runtime.NumCPU(),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.metrics == nil {
		g.metrics = metrics.For(nil)
	}
	if g.seed == 0 {
		g.seed = time.Now().UnixNano()
	}
	return g
}

// NewGenerator creates a Generator over a built model.
func NewGenerator(model *language.Model, opts ...Option) (*Generator, error) {
	g := newGenerator(opts)
	if err := g.init(model); err != nil {
		return nil, err
	}
	return g, nil
}

// NewGeneratorFromFiles builds a model of the given order from a CMUdict
// file, optionally restricted to the words of a vocabulary text. The letters
// scheme trains on the entries' words instead of their phones. Unless
// WithExisting is given, the full dictionary is used to reject real words.
func NewGeneratorFromFiles(dictPath, vocabPath string, order int, opts ...Option) (*Generator, error) {
	g := newGenerator(opts)
	if err := g.checkScheme(); err != nil {
		return nil, err
	}

	dict, err := lexicon.LoadFile(dictPath)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	entries := dict.Entries()
	if vocabPath != "" {
		vocab, err := lexicon.LoadVocabularyFile(vocabPath)
		if err != nil {
			return nil, fmt.Errorf("load vocabulary: %w", err)
		}
		entries = lexicon.Filter(entries, vocab)
		g.log.Debug().Int("entries", len(entries)).Int("vocabulary", len(vocab)).Msg("filtered dictionary")
	}
	if g.existing == nil {
		g.existing = dict
	}

	start := time.Now()
	var model *language.Model
	if g.scheme == cache.Letters {
		words := make([]string, len(entries))
		for i, e := range entries {
			words[i] = e.Word
		}
		model, err = language.FromWords(words, order)
	} else {
		model, err = language.BuildParallel(context.Background(), entries, order, g.workers)
	}
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}
	g.metrics.RecordModel(model.Transitions(), time.Since(start).Seconds())
	g.log.Info().
		Str("scheme", string(g.scheme)).
		Int("order", order).
		Int("entries", len(entries)).
		Int("transitions", model.Transitions()).
		Dur("took", time.Since(start)).
		Msg("model built")

	if err := g.init(model); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Generator) checkScheme() error {
	switch g.scheme {
	case cache.Phones, cache.Letters:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedScheme, g.scheme)
}

func (g *Generator) init(model *language.Model) error {
	if err := g.checkScheme(); err != nil {
		return err
	}
	if model == nil || model.Empty() {
		return language.ErrEmptyModel
	}
	if g.maxLength < 1 {
		return fmt.Errorf("%w: got %d", language.ErrInvalidLength, g.maxLength)
	}
	g.model = model
	g.sampler = language.NewSampler(model, g.seed)
	return nil
}

// Model returns the model words are sampled from.
func (g *Generator) Model() *language.Model { return g.model }

// Seed returns the seed the sampler was created with.
func (g *Generator) Seed() int64 { return g.seed }

// Scheme returns the scheme words are generated and cached under.
func (g *Generator) Scheme() cache.Scheme { return g.scheme }

// Generate samples one word and spells it.
func (g *Generator) Generate() (Word, error) {
	g.mu.Lock()
	s, err := g.sampler.Sample(g.maxLength)
	g.mu.Unlock()
	if err != nil {
		return Word{}, err
	}

	text := phone.Join(s.Phones)
	if g.scheme == cache.Phones {
		text, err = lexicon.PhonesToWord(s.Phones)
		if err != nil {
			g.metrics.RecordSpellingError()
			return Word{}, fmt.Errorf("spell %v: %w", s.Phones, err)
		}
	}
	g.metrics.RecordGenerated(len(s.Phones), s.Truncated)
	return Word{
		Text:      text,
		Phones:    s.Phones,
		Truncated: s.Truncated,
		LogProb:   g.model.LogProb(s.Phones),
	}, nil
}

// Batch generates n distinct words that are neither existing nor cached.
// It stops after maxAttempts samples (100*n when maxAttempts <= 0) and then
// returns the words found so far with ErrAttemptsExhausted. Returned words
// are added to the cache, if any, with unknown availability.
func (g *Generator) Batch(ctx context.Context, n, maxAttempts int) ([]Word, error) {
	if n <= 0 {
		return nil, nil
	}
	if maxAttempts <= 0 {
		maxAttempts = 100 * n
	}

	words := make([]Word, 0, n)
	seen := make(map[string]bool, n)
	attempts := 0
	for ; len(words) < n && attempts < maxAttempts; attempts++ {
		if err := ctx.Err(); err != nil {
			return words, err
		}
		w, err := g.Generate()
		if err != nil {
			if errors.Is(err, phone.ErrUnknownPhone) {
				g.log.Warn().Err(err).Msg("skipping unspellable sample")
				continue
			}
			return words, err
		}
		if reason := g.reject(w.Text, seen); reason != "" {
			g.metrics.RecordRejected(reason)
			g.log.Debug().Str("word", w.Text).Str("reason", reason).Msg("rejected")
			continue
		}
		seen[w.Text] = true
		words = append(words, w)
		if g.cache != nil {
			g.cache.AddWord(g.scheme, w.Text, cache.DefaultTLD, cache.Unknown)
		}
	}

	g.log.Info().Int("words", len(words)).Int("attempts", attempts).Msg("batch generated")
	if len(words) < n {
		return words, fmt.Errorf("%w: %d of %d words after %d attempts",
			ErrAttemptsExhausted, len(words), n, attempts)
	}
	return words, nil
}

func (g *Generator) reject(text string, seen map[string]bool) string {
	switch {
	case text == "":
		return metrics.ReasonEmpty
	case seen[text]:
		return metrics.ReasonDuplicate
	case g.existing != nil && g.existing.Contains(text):
		return metrics.ReasonExisting
	case g.cache != nil && g.cache.Contains(g.scheme, text):
		return metrics.ReasonCached
	}
	return ""
}
