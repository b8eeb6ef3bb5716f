package language

import (
	"fmt"
	"math"
	"sort"

	"github.com/randolang/randolang/phone"
)

// Nested returns the model as nested maps keyed by phone name, the innermost
// level mapping a next phone to its count, e.g. for order 1:
//
//	{"START": {"B": 1}, "B": {"UW": 2}}
func (m *Model) Nested() map[string]any {
	return nestedNode(m.root)
}

func nestedNode(n *node) map[string]any {
	out := make(map[string]any)
	if n.isLeaf() {
		for p, c := range n.counts {
			out[string(p)] = c
		}
		return out
	}
	for p, child := range n.children {
		out[string(p)] = nestedNode(child)
	}
	return out
}

// OrderFromNested infers the order of a nested transition map: the number of
// mapping levels met when following one key at a time from the root until a
// level holding counts is reached.
func OrderFromNested(nested map[string]any) (int, error) {
	depth := 0
	cur := nested
	for {
		if len(cur) == 0 {
			return 0, ErrEmptyModel
		}
		v := cur[firstKey(cur)]
		child, ok := v.(map[string]any)
		if !ok {
			break
		}
		depth++
		cur = child
	}
	if depth == 0 {
		return 0, fmt.Errorf("%w: counts at the root", ErrInvalidOrder)
	}
	return depth, nil
}

// FromNested builds a model from nested maps. Every path must have the same
// depth and every count must be a positive integer.
func FromNested(nested map[string]any) (*Model, error) {
	order, err := OrderFromNested(nested)
	if err != nil {
		return nil, err
	}
	m, err := NewModel(order)
	if err != nil {
		return nil, err
	}
	prefix := make(Transition, 0, order+1)
	if err := m.fillNested(nested, prefix); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) fillNested(level map[string]any, prefix Transition) error {
	if len(level) == 0 {
		return fmt.Errorf("%w: empty mapping under %v", ErrIrregularModel, prefix)
	}
	for k, v := range level {
		path := append(prefix, phone.Phone(k))
		if len(prefix) < m.order {
			child, ok := v.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: expected mapping at %v", ErrIrregularModel, path)
			}
			if err := m.fillNested(child, path); err != nil {
				return err
			}
			continue
		}
		c, ok := toCount(v)
		if !ok {
			return fmt.Errorf("%w: expected positive count at %v, got %v", ErrIrregularModel, path, v)
		}
		t := make(Transition, len(path))
		copy(t, path)
		if err := m.addCount(t, c); err != nil {
			return err
		}
	}
	return nil
}

func toCount(v any) (int, bool) {
	switch c := v.(type) {
	case int:
		return c, c > 0
	case int64:
		return int(c), c > 0
	case float64:
		if c > 0 && c == math.Trunc(c) {
			return int(c), true
		}
	}
	return 0, false
}

func firstKey(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}
