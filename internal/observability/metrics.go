// Package observability holds the Prometheus metrics of the split service.
package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"git.solver4all.com/azaryc2s/twotsp"
)

// Solve outcomes used as the "outcome" label.
const (
	OutcomeOK         = "ok"
	OutcomeInvalid    = "invalid"
	OutcomeInfeasible = "infeasible"
	OutcomeTimeout    = "timeout"
	OutcomeError      = "error"
)

// SolverCollector bundles the metrics recorded around tour solves and the
// HTTP front end.
type SolverCollector struct {
	gatherer prometheus.Gatherer

	Solves         *prometheus.CounterVec
	SolveDurations *prometheus.HistogramVec
	InstanceCities prometheus.Histogram
	HTTPRequests   *prometheus.CounterVec
}

// NewSolverCollector registers the metrics against reg, defaulting to the
// global registry when nil. Registering twice returns the existing metrics.
func NewSolverCollector(reg prometheus.Registerer) (*SolverCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	solves, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twotsp_solves_total",
		Help: "Tour solves, labeled by algorithm and outcome.",
	}, []string{"algorithm", "outcome"}), "twotsp_solves_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "twotsp_solve_duration_seconds",
		Help:    "Wall time of tour solves including the split.",
		Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 5, 15, 60, 300},
	}, []string{"algorithm"}), "twotsp_solve_duration_seconds")
	if err != nil {
		return nil, err
	}

	cities, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "twotsp_instance_cities",
		Help:    "Number of cities per solved instance.",
		Buckets: []float64{2, 5, 10, 15, 20, 30, 50, 100, 200},
	}), "twotsp_instance_cities")
	if err != nil {
		return nil, err
	}

	requests, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twotsp_http_requests_total",
		Help: "Handled HTTP requests, labeled by route and status code.",
	}, []string{"route", "code"}), "twotsp_http_requests_total")
	if err != nil {
		return nil, err
	}

	return &SolverCollector{
		gatherer:       gatherer,
		Solves:         solves,
		SolveDurations: durations,
		InstanceCities: cities,
		HTTPRequests:   requests,
	}, nil
}

// Outcome classifies the error of a solve.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return OutcomeTimeout
	case errors.Is(err, twotsp.ErrInvalidInstance), errors.Is(err, twotsp.ErrUnknownCity), errors.Is(err, twotsp.ErrInvalidTour), errors.Is(err, twotsp.ErrUnknownAlgorithm):
		return OutcomeInvalid
	case errors.Is(err, twotsp.ErrInfeasible):
		return OutcomeInfeasible
	default:
		return OutcomeError
	}
}

// ObserveSolve records one solve of an instance with the given number of
// cities.
func (c *SolverCollector) ObserveSolve(algorithm string, cities int, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	c.Solves.WithLabelValues(algorithm, Outcome(err)).Inc()
	c.SolveDurations.WithLabelValues(algorithm).Observe(elapsed.Seconds())
	if cities > 0 {
		c.InstanceCities.Observe(float64(cities))
	}
}

// Middleware counts requests per matched route.
func (c *SolverCollector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		if c == nil {
			return
		}
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.HTTPRequests.WithLabelValues(route, strconv.Itoa(ctx.Writer.Status())).Inc()
	}
}

// Handler exposes the gathered metrics.
func (c *SolverCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
