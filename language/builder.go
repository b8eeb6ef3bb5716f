package language

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/randolang/randolang/lexicon"
)

// FromEntries builds a model of the given order from dictionary entries.
// Each entry's phones are cleaned of stress markers before extraction. The
// result does not depend on entry order.
func FromEntries(entries []lexicon.Entry, order int) (*Model, error) {
	return fromEntries(entries, order, 0)
}

func fromEntries(entries []lexicon.Entry, order, offset int) (*Model, error) {
	m, err := NewModel(order)
	if err != nil {
		return nil, err
	}
	for i, e := range entries {
		if err := m.AddSequence(e.Phones); err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", offset+i, e.Word, err)
		}
	}
	return m, nil
}

// BuildParallel splits entries across workers, builds one partial model per
// worker and merges the partials. The result equals FromEntries on the same
// entries.
func BuildParallel(ctx context.Context, entries []lexicon.Entry, order, workers int) (*Model, error) {
	if workers <= 1 || len(entries) < 2*workers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return FromEntries(entries, order)
	}

	chunk := (len(entries) + workers - 1) / workers
	partials := make([]*Model, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(entries) {
			break
		}
		hi := min(lo+chunk, len(entries))
		w := w
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := fromEntries(entries[lo:hi], order, lo)
			if err != nil {
				return err
			}
			partials[w] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out, err := NewModel(order)
	if err != nil {
		return nil, err
	}
	for _, p := range partials {
		if p == nil {
			continue
		}
		if err := out.Merge(p); err != nil {
			return nil, err
		}
	}
	return out, nil
}
