package language

import (
	"fmt"
	"maps"
	"strings"

	"github.com/randolang/randolang/internal/mathutil"
	"github.com/randolang/randolang/phone"
)

// node is either an internal context node or a leaf distribution.
// Exactly one of children and counts is non-nil.
type node struct {
	children map[phone.Phone]*node
	counts   map[phone.Phone]int
}

func newNode(leaf bool) *node {
	if leaf {
		return &node{counts: make(map[phone.Phone]int)}
	}
	return &node{children: make(map[phone.Phone]*node)}
}

func (n *node) isLeaf() bool { return n.counts != nil }

// Model is a transition model of fixed order. Every path from the root
// traverses exactly order context phones before reaching a leaf that maps a
// next phone to its occurrence count.
type Model struct {
	order int
	root  *node
}

// UnknownContextError reports a context with no path in the model.
type UnknownContextError struct {
	Context []phone.Phone
}

func (e *UnknownContextError) Error() string {
	parts := make([]string, len(e.Context))
	for i, p := range e.Context {
		parts[i] = string(p)
	}
	return fmt.Sprintf("language: unknown context [%s]", strings.Join(parts, " "))
}

func (e *UnknownContextError) Unwrap() error { return ErrUnknownContext }

// NewModel creates an empty model of the given order.
func NewModel(order int) (*Model, error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, order)
	}
	return &Model{order: order, root: newNode(false)}, nil
}

// Order returns the number of context phones the model conditions on.
func (m *Model) Order() int { return m.order }

// Empty reports whether no transition has been added.
func (m *Model) Empty() bool { return len(m.root.children) == 0 }

// Add merges one transition into the model, incrementing the count of its
// next phone under its context. Other entries are left untouched.
func (m *Model) Add(t Transition) error {
	return m.addCount(t, 1)
}

func (m *Model) addCount(t Transition, count int) error {
	if len(t) != m.order+1 {
		return fmt.Errorf("%w: transition of length %d for order %d", ErrOrderMismatch, len(t), m.order)
	}
	n := m.root
	for depth, p := range t[:m.order] {
		child, ok := n.children[p]
		if !ok {
			child = newNode(depth+1 == m.order)
			n.children[p] = child
		}
		n = child
	}
	n.counts[t[m.order]] += count
	return nil
}

// AddSequence cleans and validates a raw phone sequence and adds all of its
// transitions. An invalid sequence leaves the model unchanged.
func (m *Model) AddSequence(raw []phone.Phone) error {
	seq := phone.Clean(raw)
	if err := phone.Validate(seq); err != nil {
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

// Merge adds every count of other into m. Both models must share an order.
// Merging is commutative and associative.
func (m *Model) Merge(other *Model) error {
	if other.order != m.order {
		return fmt.Errorf("%w: merge order %d into order %d", ErrOrderMismatch, other.order, m.order)
	}
	mergeNode(m.root, other.root)
	return nil
}

func mergeNode(dst, src *node) {
	if src.isLeaf() {
		for p, c := range src.counts {
			dst.counts[p] += c
		}
		return
	}
	for p, sc := range src.children {
		dc, ok := dst.children[p]
		if !ok {
			dc = newNode(sc.isLeaf())
			dst.children[p] = dc
		}
		mergeNode(dc, sc)
	}
}

// leaf returns the distribution stored under ctx without copying it.
func (m *Model) leaf(ctx []phone.Phone) (map[phone.Phone]int, error) {
	if len(ctx) != m.order {
		return nil, fmt.Errorf("%w: context of length %d for order %d", ErrOrderMismatch, len(ctx), m.order)
	}
	n := m.root
	for _, p := range ctx {
		child, ok := n.children[p]
		if !ok {
			return nil, &UnknownContextError{Context: append([]phone.Phone(nil), ctx...)}
		}
		n = child
	}
	return n.counts, nil
}

// Lookup returns a copy of the next-phone distribution for ctx.
func (m *Model) Lookup(ctx []phone.Phone) (map[phone.Phone]int, error) {
	counts, err := m.leaf(ctx)
	if err != nil {
		return nil, err
	}
	return maps.Clone(counts), nil
}

// Contexts returns the number of distinct contexts (leaves).
func (m *Model) Contexts() int {
	n := 0
	m.walk(func(Transition, int) bool { return true }, func() { n++ })
	return n
}

// Transitions returns the total number of observed transitions.
func (m *Model) Transitions() int {
	total := 0
	m.walk(func(_ Transition, c int) bool {
		total += c
		return true
	}, nil)
	return total
}

// walk visits every (transition, count) pair depth first. onLeaf, if set, is
// called once per leaf before its entries are visited.
func (m *Model) walk(visit func(Transition, int) bool, onLeaf func()) {
	prefix := make([]phone.Phone, 0, m.order+1)
	var rec func(n *node) bool
	rec = func(n *node) bool {
		if n.isLeaf() {
			if onLeaf != nil {
				onLeaf()
			}
			for p, c := range n.counts {
				t := make(Transition, len(prefix)+1)
				copy(t, prefix)
				t[len(prefix)] = p
				if !visit(t, c) {
					return false
				}
			}
			return true
		}
		for p, child := range n.children {
			prefix = append(prefix, p)
			ok := rec(child)
			prefix = prefix[:len(prefix)-1]
			if !ok {
				return false
			}
		}
		return true
	}
	rec(m.root)
}

// LogProb returns the natural log probability of phones under the model,
// including the boundary transitions. Scoring ends at the first STOP, as
// sampling does. Unseen transitions yield mathutil.LogZero.
func (m *Model) LogProb(phones []phone.Phone) float64 {
	ts, err := Transitions(phones, m.order)
	if err != nil {
		return mathutil.LogZero
	}
	total := 0.0
	for _, t := range ts {
		counts, err := m.leaf(t.Context())
		if err != nil {
			return mathutil.LogZero
		}
		sum := 0
		for _, c := range counts {
			sum += c
		}
		lp := mathutil.LogRatio(counts[t.Next()], sum)
		if lp == mathutil.LogZero {
			return mathutil.LogZero
		}
		total += lp
		if t.Next() == phone.Stop {
			break
		}
	}
	return total
}
