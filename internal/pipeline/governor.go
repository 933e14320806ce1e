package pipeline

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Governor spaces outbound requests on two independent axes: successive
// pages of one query, and successive queries of a batch run. Both limiters
// carry a burst of one so the first request of a run is never delayed.
type Governor struct {
	page  *rate.Limiter
	query *rate.Limiter
}

func NewGovernor(pageDelay, queryDelay time.Duration) *Governor {
	return &Governor{
		page:  rate.NewLimiter(rate.Every(pageDelay), 1),
		query: rate.NewLimiter(rate.Every(queryDelay), 1),
	}
}

// WaitPage blocks until the next page fetch is allowed.
func (g *Governor) WaitPage(ctx context.Context) error {
	return g.page.Wait(ctx)
}

// WaitQuery blocks until the next catalog-id query is allowed.
func (g *Governor) WaitQuery(ctx context.Context) error {
	return g.query.Wait(ctx)
}
