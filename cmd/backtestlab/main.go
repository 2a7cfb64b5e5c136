// Command backtestlab is the CLI entry point for the backtesting engine,
// optimizer, and walk-forward harness: run / optimize / walkforward /
// serve.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/contactkeval/backtestlab/internal/backtest"
	"github.com/contactkeval/backtestlab/internal/config"
	"github.com/contactkeval/backtestlab/internal/logger"
	"github.com/contactkeval/backtestlab/internal/metrics"
	"github.com/contactkeval/backtestlab/internal/model"
	"github.com/contactkeval/backtestlab/internal/optimize"
	"github.com/contactkeval/backtestlab/internal/report"
	"github.com/contactkeval/backtestlab/internal/series"
	"github.com/contactkeval/backtestlab/internal/strategy"
	"github.com/contactkeval/backtestlab/internal/walkforward"
)

func main() {
	configPath := flag.String("config", "configs/sma-crossover.json", "path to JSON config")
	listenAddr := flag.String("listen", ":8080", "REST server listen address (serve mode only)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	logger.SetVerbosity(cfg.Verbosity)

	if cfg.Mode == "serve" {
		serve(cfg, *listenAddr)
		return
	}

	m := metrics.Register(prometheus.DefaultRegisterer)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		logger.Errorf("creating output dir %s: %v", cfg.OutputDir, err)
		os.Exit(1)
	}

	start := time.Now()
	trades, err := runOnce(cfg, m)
	m.BacktestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		logger.Errorf("%s failed: %v", cfg.Mode, err)
		os.Exit(1)
	}

	_ = report.WriteJSON(trades, cfg.OutputDir)
	_ = report.WriteCSV(trades, cfg.OutputDir)
	logger.Infof("[done] %s finished in %v, wrote %d trades to %s", cfg.Mode, time.Since(start), len(trades), cfg.OutputDir)
}

func loadBars(cfg *config.Config) (series.Series[model.Bar], error) {
	prov, err := buildProvider(cfg.DataSource)
	if err != nil {
		return nil, err
	}
	from, err := cfg.DataSource.FromTime()
	if err != nil {
		return nil, err
	}
	to, err := cfg.DataSource.ToTime()
	if err != nil {
		return nil, err
	}
	bars, err := prov.GetDailyBars(cfg.DataSource.Symbol, from, to)
	if err != nil {
		return nil, err
	}
	return series.New(bars), nil
}

func buildStrategy(cfg *config.Config) (strategy.Strategy, error) {
	strat, err := lookupStrategy(cfg.Strategy)
	if err != nil {
		return strategy.Strategy{}, err
	}
	for k, v := range cfg.Parameters {
		strat.Parameters[k] = v
	}
	return strat, nil
}

func buildParameterDefs(cfg *config.Config) []strategy.ParameterDefinition {
	defs := make([]strategy.ParameterDefinition, len(cfg.ParameterDefs))
	for i, d := range cfg.ParameterDefs {
		defs[i] = strategy.ParameterDefinition{
			Name:          d.Name,
			StartingValue: d.StartingValue,
			EndingValue:   d.EndingValue,
			StepSize:      d.StepSize,
		}
	}
	return defs
}

func optimizeOptionsFrom(cfg *config.Config, m *metrics.Metrics) optimize.Options {
	dir := optimize.Max
	if cfg.Optimize.SearchDirection == "min" {
		dir = optimize.Min
	}
	return optimize.Options{
		SearchDirection:   dir,
		RecordAllResults:  cfg.Optimize.RecordAllResults,
		RandomSeed:        cfg.Optimize.RandomSeed,
		NumStartingPoints: cfg.Optimize.NumStartingPoints,
		BacktestOptions:   backtest.Options{RecordStopPrice: cfg.RecordStopPrice, RecordRisk: cfg.RecordRisk},
		Metrics:           m,
	}
}

func runOnce(cfg *config.Config, m *metrics.Metrics) ([]model.Trade, error) {
	input, err := loadBars(cfg)
	if err != nil {
		return nil, err
	}
	strat, err := buildStrategy(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Mode {
	case "run":
		return backtest.Run(strat, input, backtest.Options{RecordStopPrice: cfg.RecordStopPrice, RecordRisk: cfg.RecordRisk})

	case "optimize":
		objective, err := optimize.ExpressionObjective(cfg.Optimize.Objective)
		if err != nil {
			return nil, err
		}
		defs := buildParameterDefs(cfg)
		opts := optimizeOptionsFrom(cfg, m)
		var res optimize.Result
		if cfg.Optimize.Type == "hill-climb" {
			res, err = optimize.HillClimb(strat, defs, objective, input, opts)
		} else {
			res, err = optimize.Grid(strat, defs, objective, input, opts)
		}
		if err != nil {
			return nil, err
		}
		logger.Infof("best metric=%v params=%v", res.BestResult.Metric, res.BestParameterValues)
		return res.BestResult.Trades, nil

	case "walkforward":
		objective, err := optimize.ExpressionObjective(cfg.Optimize.Objective)
		if err != nil {
			return nil, err
		}
		defs := buildParameterDefs(cfg)
		wfOpts := walkforward.Options{
			OptimizeOptions: optimizeOptionsFrom(cfg, m),
			BacktestOptions: backtest.Options{RecordStopPrice: cfg.RecordStopPrice, RecordRisk: cfg.RecordRisk},
			RandomSeed:      cfg.Optimize.RandomSeed,
			Metrics:         m,
		}
		if cfg.Optimize.Type == "hill-climb" {
			wfOpts.Optimizer = walkforward.HillClimbSearch
		}
		res, err := walkforward.Run(strat, defs, objective, input, cfg.WalkForward.InSampleSize, cfg.WalkForward.OutSampleSize, wfOpts)
		if err != nil {
			return nil, err
		}
		return res.Trades, nil

	default:
		return nil, fmt.Errorf("main: unreachable mode %q", cfg.Mode)
	}
}

func serve(cfg *config.Config, addr string) {
	reg := prometheus.DefaultRegisterer
	m := metrics.Register(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("/run", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		trades, err := runOnce(cfg, m)
		m.BacktestDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(trades)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg.(prometheus.Gatherer), promhttp.HandlerOpts{}))

	logger.Infof("starting REST server on %s", addr)
	logger.Errorf("%v", http.ListenAndServe(addr, mux))
}
