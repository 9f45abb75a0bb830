package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"git.solver4all.com/azaryc2s/twotsp"
	"git.solver4all.com/azaryc2s/twotsp/internal/logging"
	"git.solver4all.com/azaryc2s/twotsp/internal/observability"
	"git.solver4all.com/azaryc2s/twotsp/milp"
)

type config struct {
	Addr         string
	MetricsAddr  string
	SolveTimeout time.Duration
	MaxCities    int
	NodeLimit    int
}

func loadConfig() (config, error) {
	cfg := config{
		Addr:         envOr("TWOTSP_ADDR", ":8080"),
		MetricsAddr:  envOr("TWOTSP_METRICS_ADDR", ":9090"),
		SolveTimeout: 30 * time.Second,
		MaxCities:    200,
	}
	if v := os.Getenv("TWOTSP_SOLVE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("TWOTSP_SOLVE_TIMEOUT: invalid duration %q", v)
		}
		cfg.SolveTimeout = d
	}
	if v := os.Getenv("TWOTSP_MAX_CITIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2 {
			return cfg, fmt.Errorf("TWOTSP_MAX_CITIES: invalid city count %q", v)
		}
		cfg.MaxCities = n
	}
	if v := os.Getenv("TWOTSP_NODE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("TWOTSP_NODE_LIMIT: invalid node limit %q", v)
		}
		cfg.NodeLimit = n
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	loadErr := godotenv.Load()

	log := logging.NewFromEnv()
	ctx := context.Background()
	if loadErr != nil {
		log.Debug(ctx, "no .env file loaded", logging.Error(loadErr))
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Error(ctx, "invalid configuration", logging.Error(err))
		os.Exit(1)
	}

	collector, err := observability.NewSolverCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.Error(err))
		os.Exit(1)
	}
	metricsSrv := serveMetrics(cfg.MetricsAddr, collector, log)

	s := &server{
		exact: twotsp.NewExactSolver(&milp.BranchAndBound{NodeLimit: cfg.NodeLimit},
			twotsp.WithWarmStart(true),
			twotsp.WithLogger(log)),
		metrics:      collector,
		log:          log,
		solveTimeout: cfg.SolveTimeout,
		maxCities:    cfg.MaxCities,
	}
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: newRouter(s),
	}

	log.Info(ctx, "starting split server",
		logging.String("addr", cfg.Addr),
		logging.Duration("solve_timeout", cfg.SolveTimeout),
		logging.Int("max_cities", cfg.MaxCities))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "http server exited", logging.Error(err))
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down split server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "http shutdown incomplete", logging.Error(err))
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
}

func serveMetrics(addr string, collector *observability.SolverCollector, log logging.Logger) *http.Server {
	if collector == nil || addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(context.Background(), "metrics server exited", logging.Error(err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
