package logging

import (
	"log/slog"

	"github.com/August26/proxytaster/internal/events"
)

// Subscribe logs checker events with logger.
//
// Fatal errors go to Error, recoverable ones to Warn, proxies that do not
// work and successes to Info; probe traffic and skipped probes only show up
// at Debug.
func Subscribe(bus *events.Bus, logger *slog.Logger) {
	bus.On(events.RunStart, func(e events.Event) {
		ev := e.(events.RunStartEvent)
		logger.Info("run started", "proxies", len(ev.Proxies), "workers", ev.Workers)
	})

	bus.On(events.RunEnd, func(e events.Event) {
		ev := e.(events.RunEndEvent)
		logger.Info("run finished", "worked", len(ev.Proxies))
	})

	bus.On(events.ExceptStart, func(e events.Event) {
		ev := e.(events.StartEvent)
		logger.Debug("probing", "protocol", ev.Protocol, "address", ev.Address)
	})

	bus.On(events.CheckSuccess, func(e events.Event) {
		ev := e.(events.SuccessEvent)
		logger.Info("proxy works",
			"proxy", ev.Proxy.URL,
			"status", ev.Proxy.Status,
			"country", ev.Proxy.Country,
		)
		logger.Debug("diagnostic response",
			"proxy", ev.Proxy.URL,
			"latency", ev.Proxy.Latency,
			"body", ev.Proxy.Body,
		)
	})

	bus.On(events.CheckError, func(e events.Event) {
		ev := e.(events.ErrorEvent)
		logger.Info("proxy does not work", "address", ev.Address)
	})

	bus.On(events.Error, func(e events.Event) {
		ev := e.(events.ErrorEvent)
		attrs := []any{"protocol", ev.Protocol, "address", ev.Address, "level", ev.Level}

		switch ev.Level {
		case events.LevelFatal:
			logger.Error(ev.Message, attrs...)
		case events.LevelRecoverable:
			logger.Warn(ev.Message, attrs...)
		case events.LevelSkipped:
			logger.Debug(ev.Message, attrs...)
		}
		// not-working is logged from check.error.
	})
}
