package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.solver4all.com/azaryc2s/twotsp"
)

func TestObserveSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSolverCollector(reg)
	require.NoError(t, err)

	c.ObserveSolve("greedy", 14, 3*time.Millisecond, nil)
	c.ObserveSolve("exact", 14, time.Second, fmt.Errorf("%w: node 3", twotsp.ErrSolver))
	c.ObserveSolve("exact", 1, 0, fmt.Errorf("%w: one city", twotsp.ErrInvalidInstance))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Solves.WithLabelValues("greedy", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Solves.WithLabelValues("exact", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Solves.WithLabelValues("exact", OutcomeInvalid)))
	assert.Equal(t, uint64(2), histogramSampleCount(t, reg, "twotsp_solve_duration_seconds", map[string]string{"algorithm": "exact"}))
	assert.Equal(t, uint64(3), histogramSampleCount(t, reg, "twotsp_instance_cities", nil))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(nil))
	assert.Equal(t, OutcomeTimeout, Outcome(fmt.Errorf("%w: %w", twotsp.ErrSolver, context.DeadlineExceeded)))
	assert.Equal(t, OutcomeInfeasible, Outcome(twotsp.ErrInfeasible))
	assert.Equal(t, OutcomeInvalid, Outcome(twotsp.ErrUnknownCity))
	assert.Equal(t, OutcomeError, Outcome(errors.New("boom")))
}

func TestRegisterTwiceReusesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewSolverCollector(reg)
	require.NoError(t, err)
	b, err := NewSolverCollector(reg)
	require.NoError(t, err)
	assert.Same(t, a.Solves, b.Solves)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	c, err := NewSolverCollector(reg)
	require.NoError(t, err)

	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/health", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	for _, path := range []string{"/health", "/health", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("/health", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.HTTPRequests.WithLabelValues("unmatched", "404")))

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "twotsp_http_requests_total")
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()
	metrics, err := gatherer.Gather()
	require.NoError(t, err)
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
