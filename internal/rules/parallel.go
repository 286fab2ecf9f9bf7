package rules

import (
	"context"

	"golang.org/x/sync/errgroup"

	"verdict/internal/dataset"
)

// ValidateParallel evaluates rules on up to workers goroutines. Results are
// identical to Validate and in the same order. The only error is ctx's, when
// it is done before every rule has been evaluated. workers <= 1 evaluates
// sequentially.
func ValidateParallel(ctx context.Context, ds *dataset.Dataset, rs []Rule, workers int) ([]ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers <= 1 || len(rs) < 2 {
		return Validate(ds, rs), nil
	}

	out := make([]ValidationResult, len(rs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, r := range rs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = Evaluate(ds, r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
