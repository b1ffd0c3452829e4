package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/panelkit/panelkit/internal/auth"
	"github.com/panelkit/panelkit/internal/config"
	"github.com/panelkit/panelkit/internal/logging"
	"github.com/panelkit/panelkit/internal/panel"
)

func main() {
	configPath := flag.String("config", "cmd/paneld/paneld.toml", "path to paneld config file")
	flag.Parse()

	logging.ConfigureRuntime("paneld")

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "paneld: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadPanelConfig(configPath)
	if err != nil {
		return err
	}

	records, err := loadRecords(cfg.Dataset)
	if err != nil {
		return err
	}

	slicer := panel.NewSlicer(records)
	for _, sb := range cfg.SliceBys {
		if _, err := slicer.AddSliceBy(sb.ID, sb.Dimension); err != nil {
			return err
		}
	}
	for _, agg := range cfg.Aggregations {
		err := slicer.RegisterAggregation(panel.Aggregation{
			ID:      agg.ID,
			Name:    agg.Name,
			Kind:    panel.AggregationKind(agg.Kind),
			Measure: agg.Measure,
		})
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []panel.Option
	if cfg.AuthToken != "" {
		opts = append(opts, panel.WithAuth(auth.StaticToken{Token: cfg.AuthToken}))
	}
	svc := panel.NewService(slicer, log.Logger, opts...)
	log.Info().Str("addr", cfg.Addr).Int("records", slicer.Len()).Msg("paneld_listening")
	return svc.Run(ctx, cfg.Addr)
}

// loadRecords reads a JSON array of records, or seeds a small demo dataset
// when no path is configured.
func loadRecords(path string) ([]panel.Record, error) {
	if path == "" {
		return demoRecords(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset load failed (%s): %w", path, err)
	}
	var records []panel.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("dataset parse failed (%s): %w", path, err)
	}
	return records, nil
}

func demoRecords() []panel.Record {
	rows := []struct {
		category string
		month    string
		amount   float64
	}{
		{"groceries", "2026-01", 412.50},
		{"groceries", "2026-02", 388.10},
		{"transport", "2026-01", 96.00},
		{"transport", "2026-02", 120.25},
		{"dining", "2026-01", 210.75},
		{"dining", "2026-02", 184.30},
	}
	records := make([]panel.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, panel.Record{
			Dimensions: map[string]string{"category": row.category, "month": row.month},
			Measures:   map[string]float64{"amount": row.amount},
		})
	}
	return records
}
