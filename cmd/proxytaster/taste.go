package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/August26/proxytaster/internal/analytics"
	"github.com/August26/proxytaster/internal/checker"
	"github.com/August26/proxytaster/internal/config"
	"github.com/August26/proxytaster/internal/events"
	"github.com/August26/proxytaster/internal/geo"
	"github.com/August26/proxytaster/internal/logging"
	"github.com/August26/proxytaster/internal/model"
	"github.com/August26/proxytaster/internal/output"
)

// runTaste checks proxies, prints the ones that passed the filters to w and
// saves them. Proxies found before an interrupt or a fatal error are still
// printed and saved.
func runTaste(ctx context.Context, w io.Writer, cfg *config.Config, proxies []model.ProxyAddress, logger *slog.Logger, opts ...checker.Option) error {
	checkerCfg, err := cfg.Checker()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	var resolver model.IPResolver
	if cfg.GeoIPDB != "" {
		r, err := geo.Open(cfg.GeoIPDB)
		if err != nil {
			return err
		}
		defer r.Close()
		resolver = r
	}

	bus := events.NewBus()
	logging.Subscribe(bus, logger)

	c := checker.New(checkerCfg, append([]checker.Option{checker.WithBus(bus)}, opts...)...)

	logger.Info("starting proxytaster",
		"proxies", len(proxies),
		"workers", checkerCfg.Workers,
		"protocols", checkerCfg.Candidates(),
		"timeout", checkerCfg.Timeout,
		"endpoint", checkerCfg.Endpoint,
	)

	start := time.Now()
	worked, runErr := c.Run(ctx, proxies)
	duration := time.Since(start)

	geo.Enrich(resolver, worked)
	stats := analytics.Compute(proxies, worked, duration)

	kept := output.Apply(worked,
		output.CountryFilter(cfg.Countries),
		output.StatusFilter(cfg.StatusCodes),
	)
	slices.SortFunc(kept, func(a, b *model.WorkedProxy) int {
		return strings.Compare(a.URL, b.URL)
	})

	if err := save(w, cfg, kept, stats, logger); err != nil {
		return err
	}

	switch {
	case runErr == nil:
		return nil
	case errors.Is(runErr, checker.ErrTooManyOpenFiles):
		return fmt.Errorf("%w\nlower --workers (currently %d) or raise the open files limit (ulimit -n)",
			runErr, checkerCfg.Workers)
	case errors.Is(runErr, context.Canceled):
		logger.Warn("interrupted, partial results kept", "worked", len(worked))
		return nil
	default:
		return runErr
	}
}

// save prints kept to w and writes the --out and --append files.
func save(w io.Writer, cfg *config.Config, kept []*model.WorkedProxy, stats model.RunStats, logger *slog.Logger) error {
	format := cfg.OutputFormat()

	if err := output.Write(w, format, kept, stats); err != nil {
		return fmt.Errorf("failed to print results: %w", err)
	}

	targets := []struct {
		path       string
		appendMode bool
	}{
		{cfg.Out, false},
		{cfg.Append, true},
	}
	for _, t := range targets {
		if t.path == "" {
			continue
		}
		if err := output.SaveFile(t.path, format, kept, stats, t.appendMode); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Info("results written", "path", t.path, "format", format, "count", len(kept))
	}
	return nil
}
