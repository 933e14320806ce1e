package pipeline

import (
	"context"
	"errors"
	"testing"
)

// unthrottled suits tests: a zero interval makes both limiters unlimited.
func unthrottled() *Governor { return NewGovernor(0, 0) }

func TestPaginatorRun(t *testing.T) {
	t.Run("accumulates until an empty page", func(t *testing.T) {
		pages := map[int][]string{
			1: {"a", "b"},
			2: {"c"},
			3: {},
		}
		var fetched []int
		p := NewPaginator(func(_ context.Context, page int) ([]string, error) {
			fetched = append(fetched, page)
			return pages[page], nil
		}, unthrottled(), 0)

		batch, err := p.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(batch) != 3 {
			t.Errorf("Run() = %d records, want 3", len(batch))
		}
		if len(fetched) != 3 || fetched[2] != 3 {
			t.Errorf("fetched pages = %v, want [1 2 3]", fetched)
		}
		if p.State() != StateDone {
			t.Errorf("State() = %v, want DONE", p.State())
		}
	})

	t.Run("failure keeps the partial batch", func(t *testing.T) {
		fetchErr := errors.New("connection reset")
		p := NewPaginator(func(_ context.Context, page int) ([]string, error) {
			if page == 3 {
				return nil, fetchErr
			}
			return []string{"x", "y"}, nil
		}, unthrottled(), 0)

		batch, err := p.Run(context.Background())
		if !errors.Is(err, fetchErr) {
			t.Fatalf("Run() error = %v, want %v", err, fetchErr)
		}
		if len(batch) != 4 {
			t.Errorf("Run() = %d records, want the 4 from pages 1-2", len(batch))
		}
		if p.State() != StateFailed {
			t.Errorf("State() = %v, want FAILED", p.State())
		}
	})

	t.Run("failure on the first page yields an empty batch", func(t *testing.T) {
		p := NewPaginator(func(_ context.Context, page int) ([]string, error) {
			return nil, errors.New("boom")
		}, unthrottled(), 0)

		batch, err := p.Run(context.Background())
		if err == nil {
			t.Fatal("Run() expected error")
		}
		if len(batch) != 0 {
			t.Errorf("Run() = %d records, want 0", len(batch))
		}
	})

	t.Run("stops at the page cap", func(t *testing.T) {
		var fetched int
		p := NewPaginator(func(_ context.Context, page int) ([]string, error) {
			fetched++
			return []string{"r"}, nil // the source never runs dry
		}, unthrottled(), 5)

		batch, err := p.Run(context.Background())
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if fetched != 5 {
			t.Errorf("fetched %d pages, want 5", fetched)
		}
		if len(batch) != 5 {
			t.Errorf("Run() = %d records, want 5", len(batch))
		}
		if p.State() != StateDone {
			t.Errorf("State() = %v, want DONE", p.State())
		}
	})
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateFetching, "FETCHING"},
		{StateAccumulating, "ACCUMULATING"},
		{StateDone, "DONE"},
		{StateFailed, "FAILED"},
		{State(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
