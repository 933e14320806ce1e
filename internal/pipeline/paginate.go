package pipeline

import (
	"context"
	"log/slog"
)

// State tracks where a single paginated query currently is.
type State int

const (
	StateFetching State = iota
	StateAccumulating
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "FETCHING"
	case StateAccumulating:
		return "ACCUMULATING"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// PageFunc fetches and normalizes one page of a query. Pages are numbered
// from 1.
type PageFunc[T any] func(ctx context.Context, page int) ([]T, error)

// Paginator drives one logical query page by page. All cursor state lives
// in the Paginator value, so interleaved queries never observe each other.
type Paginator[T any] struct {
	fetch    PageFunc[T]
	governor *Governor
	maxPages int
	state    State
}

func NewPaginator[T any](fetch PageFunc[T], governor *Governor, maxPages int) *Paginator[T] {
	return &Paginator[T]{fetch: fetch, governor: governor, maxPages: maxPages, state: StateFetching}
}

// Run advances the cursor until a page yields zero records or the safety
// cap is reached. On a fetch error the records accumulated from earlier
// pages are returned alongside the error instead of being discarded.
func (p *Paginator[T]) Run(ctx context.Context) ([]T, error) {
	var batch []T
	for page := 1; ; page++ {
		if p.maxPages > 0 && page > p.maxPages {
			slog.Warn("Stopping pagination at safety cap", "maxPages", p.maxPages, "records", len(batch))
			p.state = StateDone
			return batch, nil
		}

		p.state = StateFetching
		records, err := p.fetch(ctx, page)
		if err != nil {
			p.state = StateFailed
			return batch, err
		}
		if len(records) == 0 {
			p.state = StateDone
			return batch, nil
		}

		p.state = StateAccumulating
		batch = append(batch, records...)

		if err := p.governor.WaitPage(ctx); err != nil {
			p.state = StateFailed
			return batch, err
		}
	}
}

// State reports the phase the last Run left the paginator in.
func (p *Paginator[T]) State() State {
	return p.state
}
