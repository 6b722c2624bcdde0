package jobs

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// groupByWallet splits items into per-wallet groups, keeping the input order
// inside each group and ordering groups by first appearance.
func groupByWallet[T any](items []T, walletID func(T) string) [][]T {
	index := make(map[string]int)
	var groups [][]T
	for _, item := range items {
		id := walletID(item)
		i, ok := index[id]
		if !ok {
			i = len(groups)
			index[id] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], item)
	}
	return groups
}

// forEachGroup runs fn for every group with at most limit groups in flight.
// Groups not yet started when ctx is done are skipped.
func forEachGroup[T any](ctx context.Context, limit int, groups [][]T, fn func(ctx context.Context, group []T)) error {
	g := new(errgroup.Group)
	g.SetLimit(limit)
	for _, group := range groups {
		if ctx.Err() != nil {
			break
		}
		group := group
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			fn(ctx, group)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}
