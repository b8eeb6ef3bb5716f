package language

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/randolang/randolang/phone"
)

// Sampler draws phone sequences from a model by weighted random walks.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	model *Model
	rng   *rand.Rand
}

// Sample is one generated phone sequence.
type Sample struct {
	Phones    []phone.Phone
	Truncated bool // max length reached before STOP was drawn
}

// NewSampler creates a sampler over m seeded with seed.
func NewSampler(m *Model, seed int64) *Sampler {
	return &Sampler{model: m, rng: rand.New(rand.NewSource(seed))}
}

// Next draws the phone following prior, which must hold exactly Order()
// phones. Each candidate is chosen with probability count/total.
func (s *Sampler) Next(prior []phone.Phone) (phone.Phone, error) {
	counts, err := s.model.leaf(prior)
	if err != nil {
		return "", err
	}
	return draw(s.rng, counts), nil
}

func draw(rng *rand.Rand, counts map[phone.Phone]int) phone.Phone {
	keys := make([]phone.Phone, 0, len(counts))
	total := 0
	for p, c := range counts {
		keys = append(keys, p)
		total += c
	}
	// map order is random; sort so a seed reproduces the same walk
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	r := rng.Intn(total)
	for _, p := range keys {
		r -= counts[p]
		if r < 0 {
			return p
		}
	}
	return keys[len(keys)-1]
}

// Sample walks the model from an all-START context until STOP is drawn or
// maxLength phones have been produced.
func (s *Sampler) Sample(maxLength int) (Sample, error) {
	if maxLength < 1 {
		return Sample{}, fmt.Errorf("%w: got %d", ErrInvalidLength, maxLength)
	}
	order := s.model.Order()
	prior := make([]phone.Phone, order)
	for i := range prior {
		prior[i] = phone.Start
	}

	var out []phone.Phone
	for i := 0; i < maxLength; i++ {
		next, err := s.Next(prior)
		if err != nil {
			return Sample{}, err
		}
		if next == phone.Stop {
			return Sample{Phones: out}, nil
		}
		out = append(out, next)
		copy(prior, prior[1:])
		prior[order-1] = next
	}
	return Sample{Phones: out, Truncated: true}, nil
}

// Generate returns the phones of one sampled sequence.
func (s *Sampler) Generate(maxLength int) ([]phone.Phone, error) {
	sm, err := s.Sample(maxLength)
	if err != nil {
		return nil, err
	}
	return sm.Phones, nil
}

// GenerateWord returns a sampled sequence as its phones joined lower-cased.
// Use lexicon.PhonesToWord on Generate's result for an English spelling.
func (s *Sampler) GenerateWord(maxLength int) (string, error) {
	phones, err := s.Generate(maxLength)
	if err != nil {
		return "", err
	}
	return phone.Join(phones), nil
}
