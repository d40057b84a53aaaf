package checker

import (
	"context"

	"github.com/August26/proxytaster/internal/events"
	"github.com/August26/proxytaster/internal/model"
)

// Check finds a working protocol for address.
//
// With a known protocol, or an address prefixed with "protocol://", only that
// protocol is probed, and only if it is a candidate. Otherwise the candidates
// are probed one by one in precedence order until one works.
// The result is nil when nothing worked; errors are those of Probe, plus the
// context error when ctx ends before the check could finish.
func (c *Checker) Check(ctx context.Context, address string, known model.Protocol) (*model.WorkedProxy, error) {
	c.bus.Emit(events.StartEvent{
		Name:     events.CheckStart,
		Protocol: known,
		Address:  address,
	})

	worked, err := c.check(ctx, address, known)

	switch {
	case err != nil:
		// Already reported by the probe that failed.
	case worked != nil:
		c.bus.Emit(events.SuccessEvent{
			Name:     events.CheckSuccess,
			Protocol: worked.Protocol,
			Proxy:    worked,
		})
	default:
		c.emitError(events.CheckError, known, address, events.LevelNotWorking, "proxy "+address+" does not work", nil)
	}

	c.bus.Emit(events.EndEvent{
		Name:   events.CheckEnd,
		Result: worked,
	})
	return worked, err
}

func (c *Checker) check(ctx context.Context, address string, known model.Protocol) (*model.WorkedProxy, error) {
	prefixed, rest, hasScheme := model.SplitScheme(address)
	if hasScheme {
		address = rest
	}

	if known == "" && hasScheme {
		known = prefixed
	}

	if known != "" {
		if !model.ContainsProtocol(c.candidates, known) {
			return nil, nil
		}
		worked, err := c.Probe(ctx, known, address)
		if worked == nil && err == nil {
			// Cut off in flight, not a dead proxy.
			return nil, ctx.Err()
		}
		return worked, err
	}

	for _, p := range c.candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		worked, err := c.Probe(ctx, p, address)
		if err != nil || worked != nil {
			return worked, err
		}
	}
	return nil, ctx.Err()
}
