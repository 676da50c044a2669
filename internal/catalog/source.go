package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Source produces the catalog once, at startup.
type Source interface {
	Load(ctx context.Context) ([]Item, error)
}

var errNoSources = errors.New("catalog: no sources configured")

// LoadAll loads every source concurrently and concatenates the results in source order.
// Names must be unique across the combined catalog.
func LoadAll(ctx context.Context, sources ...Source) ([]Item, error) {
	if len(sources) == 0 {
		return nil, errNoSources
	}

	results := make([][]Item, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			items, err := src.Load(gctx)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}

	out := make([]Item, 0, total)
	seen := make(map[string]struct{}, total)
	for _, items := range results {
		for _, it := range items {
			if _, dup := seen[it.Name()]; dup {
				return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidRecord, it.Name())
			}
			seen[it.Name()] = struct{}{}
			out = append(out, it)
		}
	}
	return out, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
