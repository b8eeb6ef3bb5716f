// Package language implements a variable-order Markov model over phone
// sequences: transition extraction, a counting model, and a weighted sampler.
package language

import (
	"errors"
	"fmt"

	"github.com/randolang/randolang/phone"
)

var (
	ErrInvalidOrder   = errors.New("language: order must be >= 1")
	ErrOrderMismatch  = errors.New("language: order mismatch")
	ErrEmptyModel     = errors.New("language: empty model")
	ErrIrregularModel = errors.New("language: irregular model structure")
	ErrUnknownContext = errors.New("language: unknown context")
	ErrInvalidLength  = errors.New("language: max length must be >= 1")
)

// Transition is an n-gram of order+1 phones: the context followed by the next phone.
type Transition []phone.Phone

// Context returns the conditioning phones of t.
func (t Transition) Context() []phone.Phone { return t[:len(t)-1] }

// Next returns the predicted phone of t.
func (t Transition) Next() phone.Phone { return t[len(t)-1] }

// Transitions returns the windows of order+1 phones over phones padded with
// order START sentinels on the left and order STOP sentinels on the right.
// The result always holds len(phones)+order transitions.
//
//	[K UH T], 1 -> [START K] [K UH] [UH T] [T STOP]
//	[K UH T], 2 -> [START START K] [START K UH] [K UH T] [UH T STOP] [T STOP STOP]
func Transitions(phones []phone.Phone, order int) ([]Transition, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, order)
	}
	seq := make([]phone.Phone, 0, len(phones)+2*order)
	for i := 0; i < order; i++ {
		seq = append(seq, phone.Start)
	}
	seq = append(seq, phones...)
	for i := 0; i < order; i++ {
		seq = append(seq, phone.Stop)
	}

	n := len(phones) + order
	out := make([]Transition, n)
	for i := 0; i < n; i++ {
		t := make(Transition, order+1)
		copy(t, seq[i:i+order+1])
		out[i] = t
	}
	return out, nil
}
