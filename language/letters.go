package language

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randolang/randolang/phone"
)

// ErrNotLetters is returned for a word holding anything but ASCII letters.
var ErrNotLetters = errors.New("language: word is not letters only")

// Letters splits word into lower-case single-letter tokens so that a model
// can be trained on spellings instead of pronunciations.
func Letters(word string) ([]phone.Phone, error) {
	if word == "" {
		return nil, fmt.Errorf("%w: empty word", ErrNotLetters)
	}
	word = strings.ToLower(word)
	out := make([]phone.Phone, 0, len(word))
	for i := 0; i < len(word); i++ {
		c := word[i]
		if c < 'a' || c > 'z' {
			return nil, fmt.Errorf("%w: %q", ErrNotLetters, word)
		}
		out = append(out, phone.Phone(word[i:i+1]))
	}
	return out, nil
}

// AddLetters adds the transitions of word spelled letter by letter. Tokens
// are not checked against the phone inventory.
func (m *Model) AddLetters(word string) error {
	seq, err := Letters(word)
	if err != nil {
		return err
	}
	ts, err := Transitions(seq, m.order)
	if err != nil {
		return err
	}
	for _, t := range ts {
		if err := m.Add(t); err != nil {
			return err
		}
	}
	return nil
}

// FromWords builds a letter model of the given order. Words that are not
// letters only, such as "o'clock", are skipped, and so are repeats.
func FromWords(words []string, order int) (*Model, error) {
	m, err := NewModel(order)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if seen[w] {
			continue
		}
		seen[w] = true
		if err := m.AddLetters(w); errors.Is(err, ErrNotLetters) {
			continue
		} else if err != nil {
			return nil, err
		}
	}
	return m, nil
}
