package pricing

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/farepath/pkg/errors"
	"github.com/matzehuels/farepath/pkg/itin"
)

// runTasks builds every fare market path, at most cfg.Workers at a time.
// The last path is built on the calling goroutine. Each task writes only
// its own result slot, so results keep the input order.
func (m *Matrix) runTasks(ctx context.Context, paths []*itin.FareMarketPath) ([][]*PUPath, error) {
	results := make([][]*PUPath, len(paths))

	if m.cfg.Workers <= 1 {
		for i, fmp := range paths {
			r, err := m.buildTask(ctx, i, fmp)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Workers)

	last := len(paths) - 1
	for i, fmp := range paths[:last] {
		g.Go(func() error {
			r, err := m.buildTask(gctx, i, fmp)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	r, err := m.buildTask(gctx, last, paths[last])
	if err != nil {
		cancel()
		// a worker failure cancels gctx; report the cause, not the abort
		if gerr := g.Wait(); gerr != nil && errors.Is(err, errors.ErrCodeAborted) {
			return nil, gerr
		}
		return nil, err
	}
	results[last] = r

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// buildTask builds the main path, its side trips and their combinations.
func (m *Matrix) buildTask(ctx context.Context, i int, fmp *itin.FareMarketPath) (out []*PUPath, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeInternal, "build pu path %d: %v", i, r)
		}
		if err != nil {
			m.logger.Error("build pu path failed", "path", i, "err", err)
		}
	}()

	main, err := m.newSearch(ctx, fmp, fmp.Markets).run()
	if err != nil {
		return nil, err
	}
	if len(main) == 0 || len(fmp.SideTrips) == 0 {
		return main, nil
	}

	combos, ok, err := m.buildSideTrips(ctx, fmp)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return combineSideTrips(main, combos), nil
}
