package main

import (
	"fmt"

	"github.com/contactkeval/backtestlab/internal/config"
	"github.com/contactkeval/backtestlab/internal/data"
)

func buildProvider(cfg config.DataSource) (data.Provider, error) {
	switch cfg.Kind {
	case "csv":
		return data.NewCSVProvider(cfg.CSVPath), nil
	case "http":
		return data.NewHTTPProvider(cfg.HTTPBaseURL, cfg.HTTPAPIKey), nil
	case "synthetic":
		return data.NewSyntheticProvider(cfg.SyntheticSeed), nil
	default:
		return nil, fmt.Errorf("main: unknown data source kind %q", cfg.Kind)
	}
}
