package checker

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/August26/proxytaster/internal/events"
	"github.com/August26/proxytaster/internal/model"
)

// Run checks every proxy and returns the ones that worked, in no
// particular order.
//
// At most Config.Workers checks are in flight at once. A check that fails
// with a fatal error (see TooManyOpenFilesError) aborts the run: checks still
// waiting for a worker are dropped, checks already in flight finish on their
// own, and Run returns the proxies collected so far together with the error.
// run.end is only emitted for a run that completed.
func (c *Checker) Run(ctx context.Context, proxies []model.ProxyAddress) ([]*model.WorkedProxy, error) {
	c.bus.Emit(events.RunStartEvent{
		Name:    events.RunStart,
		Proxies: proxies,
		Workers: c.cfg.Workers,
	})

	var (
		mu     sync.Mutex
		worked = make([]*model.WorkedProxy, 0)
	)

	// gateCtx only guards admission; in-flight checks keep using ctx so an
	// aborted run does not cut them off.
	g, gateCtx := errgroup.WithContext(ctx)
	for _, p := range proxies {
		g.Go(func() error {
			if err := c.gate.Acquire(gateCtx, 1); err != nil {
				return err
			}
			defer c.gate.Release(1)

			w, err := c.Check(ctx, p.Address, p.Protocol)
			if err != nil {
				return err
			}
			if w != nil {
				mu.Lock()
				worked = append(worked, w)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return worked, err
	}

	c.bus.Emit(events.RunEndEvent{
		Name:    events.RunEnd,
		Proxies: worked,
	})
	return worked, nil
}
