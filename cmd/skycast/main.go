// Package main is the skycast command-line entrypoint.
//
// One-shot mode runs a single refresh cycle for the given coordinate and
// prints the combined daily forecast plus any active alerts. Watch mode
// (-watch) keeps running, re-checking on an interval through the debounced
// LoadIfNeeded path, the way a periodic background trigger would drive the
// refresh core on a device.
//
// This file handles dependency wiring only; all business logic lives in the
// internal packages.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skycast/internal/config"
	"skycast/internal/external"
	"skycast/internal/forecasts"
	"skycast/internal/notifications"
	"skycast/internal/refresh"
	"skycast/internal/store"
	"skycast/internal/types"
)

func main() {
	var (
		lat   = flag.Float64("lat", 39.90, "latitude in decimal degrees")
		lon   = flag.Float64("lon", -75.17, "longitude in decimal degrees")
		label = flag.String("label", "", "display label for this location")
		watch = flag.Duration("watch", 0, "re-check interval; 0 runs a single refresh")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "skycast: %v\n", err)
		os.Exit(1)
	}

	logger := types.NewLogger(cfg.LogLevel)

	settings, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open settings store", "path", cfg.Store.Path, "error", err)
		os.Exit(1)
	}
	defer settings.Close()

	baseClient := external.NewBaseClient(
		&http.Client{Timeout: cfg.Weather.Timeout},
		"weather-api",
		cfg.Weather.UserAgent,
		cfg.Weather.Accept,
		external.WithAPIKey(cfg.Weather.APIKey),
	)
	gateway := forecasts.NewGateway(baseClient, cfg.Weather.BaseURL, logger)

	ledger := notifications.NewLedger(settings, cfg.Notify.LedgerCapacity, logger)
	dispatcher := notifications.NewDispatcher(
		ledger,
		&terminalSink{},
		cfg.Notify.Enabled,
		logger,
		notifications.WithNotifyCap(cfg.Notify.MaxPerRefresh),
	)

	service := refresh.NewService(gateway, dispatcher, logger,
		refresh.WithLocationLabel(*label),
		refresh.WithDebouncer(refresh.Debouncer{Threshold: cfg.Refresh.DebounceDegrees}),
	)

	// Aborting via Ctrl-C cancels in-flight requests; the reconciler treats
	// that as a cancellation, not a failure.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	coord := types.Coordinate{Lat: *lat, Lon: *lon}

	service.Refresh(ctx, coord)
	render(service.State())

	if *watch <= 0 {
		if service.State().ErrorMessage != "" {
			os.Exit(1)
		}
		return
	}

	ticker := time.NewTicker(*watch)
	defer ticker.Stop()

	logger.Info("watching location", "coordinate", coord.String(), "interval", watch.String())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			service.LoadIfNeeded(ctx, coord)
			render(service.State())
		}
	}
}

// render prints the current refresh state as a plain-text report.
func render(state refresh.State) {
	if state.ErrorMessage != "" {
		fmt.Println(state.ErrorMessage)
		return
	}

	for _, day := range forecasts.CombineDaily(state.Periods) {
		line := fmt.Sprintf("%-15s %s", day.Name, day.Day.ShortForecast)
		if day.Day.Temperature != nil {
			line += fmt.Sprintf("  high %d%s", *day.Day.Temperature, day.Day.TemperatureUnit)
		}
		if day.Night != nil && day.Night.Temperature != nil {
			line += fmt.Sprintf("  low %d%s", *day.Night.Temperature, day.Night.TemperatureUnit)
		}
		fmt.Println(line)
	}

	for _, alert := range state.Alerts {
		fmt.Printf("! %s: %s\n", alert.Event, alert.Headline)
	}
}

// terminalSink delivers notifications by printing them. It always reports
// delivery as accepted.
type terminalSink struct{}

func (terminalSink) Notify(_ context.Context, title, body, _ string) (bool, error) {
	fmt.Printf("*** %s\n    %s\n", title, body)
	return true, nil
}
