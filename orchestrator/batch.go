package orchestrator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Batch extracts one token per input with at most workers extractions in
// flight. Results keep input order. The first failure cancels the rest.
func Batch(ctx context.Context, b *Builder, inputs []Input, workers int) ([]EToken, error) {
	if workers < 1 {
		workers = 1
	}
	out := make([]EToken, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tok, err := b.Extract(ctx, in)
			if err != nil {
				return fmt.Errorf("input %d: %w", i, err)
			}
			out[i] = tok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
