package pricing

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"stockwatch/internal/alertengine"
)

// QuoteMany quotes every distinct company name once, at most concurrency at a
// time, and returns the quotes keyed by company name. Every requested name has
// an entry; names that could not be quoted carry a failed quote.
func QuoteMany(ctx context.Context, q Quoter, companyNames []string, concurrency int) map[string]alertengine.PriceQuote {
	if concurrency < 1 {
		concurrency = 1
	}

	quotes := make(map[string]alertengine.PriceQuote, len(companyNames))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(concurrency)

	seen := make(map[string]struct{}, len(companyNames))
	for _, name := range companyNames {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		name := name
		g.Go(func() error {
			var quote alertengine.PriceQuote
			if err := ctx.Err(); err != nil {
				quote = alertengine.FailedQuote(name, err)
			} else {
				quote = q.Quote(ctx, name)
			}
			mu.Lock()
			quotes[name] = quote
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return quotes
}
