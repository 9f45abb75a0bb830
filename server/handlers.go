package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"git.solver4all.com/azaryc2s/twotsp"
	"git.solver4all.com/azaryc2s/twotsp/internal/logging"
	"git.solver4all.com/azaryc2s/twotsp/internal/observability"
)

const requestIDHeader = "X-Request-ID"

var errTooManyCities = errors.New("too many cities")

type server struct {
	exact        *twotsp.ExactSolver
	metrics      *observability.SolverCollector
	log          logging.Logger
	solveTimeout time.Duration
	maxCities    int
}

type solveRequest struct {
	Cities         []twotsp.City `json:"cities" binding:"required"`
	EdgeWeightType string        `json:"edge_weight_type"`
	// Depot defaults to the first city.
	Depot     *int   `json:"depot"`
	Algorithm string `json:"algorithm"`
	Objective string `json:"objective"`
}

type tourResponse struct {
	Algorithm string `json:"algorithm"`
	Optimal   bool   `json:"optimal"`
	Depot     int    `json:"depot"`
	Tour      []int  `json:"tour"`
	TSPLength int    `json:"tsp_length"`
}

type splitResponse struct {
	twotsp.SplitResult
	Algorithm  string `json:"algorithm"`
	Optimal    bool   `json:"optimal"`
	Objective  string `json:"objective"`
	Depot      int    `json:"depot"`
	Tour       []int  `json:"tour"`
	Bottleneck int    `json:"bottleneck"`
}

func newRouter(s *server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", requestIDHeader}
	r.Use(cors.New(config))

	r.Use(s.requestLogger())
	r.Use(s.metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	api := r.Group("/api")
	api.POST("/split", s.handleSplit)
	api.POST("/tour", s.handleTour)
	return r
}

// requestLogger attaches a request id and a logger carrying it to the
// request context.
func (s *server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if incoming := c.GetHeader(requestIDHeader); incoming != "" {
			ctx = logging.ContextWithRequestID(ctx, incoming)
		}
		ctx, id := logging.EnsureRequestID(ctx)
		reqLog := s.log.With(
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path))
		ctx = logging.ContextWithLogger(ctx, reqLog)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()
		reqLog.Debug(ctx, "request handled",
			logging.Int("status", c.Writer.Status()),
			logging.Duration("elapsed", time.Since(start)))
	}
}

func (s *server) handleTour(c *gin.Context) {
	plan, depot, ok := s.solve(c, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tourResponse{
		Algorithm: plan.Algorithm,
		Optimal:   plan.Optimal,
		Depot:     depot,
		Tour:      plan.Tour,
		TSPLength: plan.Split.TourLength,
	})
}

func (s *server) handleSplit(c *gin.Context) {
	plan, depot, ok := s.solve(c, true)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, splitResponse{
		SplitResult: plan.Split,
		Algorithm:   plan.Algorithm,
		Optimal:     plan.Optimal,
		Objective:   plan.objective,
		Depot:       depot,
		Tour:        plan.Tour,
		Bottleneck:  plan.Split.Bottleneck(),
	})
}

type servedPlan struct {
	twotsp.Plan
	objective string
}

// solve decodes the request, runs the planner under the solve timeout and
// writes the error response itself when it fails.
func (s *server) solve(c *gin.Context, split bool) (servedPlan, int, bool) {
	ctx := c.Request.Context()
	log := logging.FromContext(ctx, s.log)

	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return servedPlan{}, 0, false
	}
	algorithm := strings.ToLower(req.Algorithm)
	if algorithm == "" {
		algorithm = twotsp.AlgorithmGreedy
	}

	objective, err := twotsp.ParseObjective(req.Objective)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return servedPlan{}, 0, false
	}
	inst, depot, err := s.buildInstance(req)
	if err != nil {
		s.metrics.ObserveSolve(algorithm, len(req.Cities), 0, err)
		s.writeError(c, err)
		return servedPlan{}, 0, false
	}

	solveCtx, cancel := context.WithTimeout(ctx, s.solveTimeout)
	defer cancel()
	planner := &twotsp.Planner{Exact: s.exact, Objective: objective}

	start := time.Now()
	var plan twotsp.Plan
	if split {
		plan, err = planner.Plan(solveCtx, inst, depot, algorithm)
	} else {
		var tour twotsp.Tour
		tour, plan.Optimal, err = planner.Tour(solveCtx, inst, depot, algorithm)
		if err == nil {
			plan.Algorithm, plan.Tour = algorithm, tour
			plan.Split.TourLength, err = inst.TourLength(tour)
		}
	}
	elapsed := time.Since(start)
	s.metrics.ObserveSolve(algorithm, inst.Len(), elapsed, err)
	if err != nil {
		log.Warn(ctx, "solve failed",
			logging.String("algorithm", algorithm),
			logging.Int("cities", inst.Len()),
			logging.Error(err))
		s.writeError(c, err)
		return servedPlan{}, 0, false
	}
	log.Info(ctx, "solved",
		logging.String("algorithm", algorithm),
		logging.Int("cities", inst.Len()),
		logging.Int("tsp_length", plan.Split.TourLength),
		logging.Duration("elapsed", elapsed))
	return servedPlan{Plan: plan, objective: objective.String()}, depot, true
}

func (s *server) buildInstance(req solveRequest) (*twotsp.Instance, int, error) {
	if s.maxCities > 0 && len(req.Cities) > s.maxCities {
		return nil, 0, fmt.Errorf("%w: %d cities, at most %d allowed", errTooManyCities, len(req.Cities), s.maxCities)
	}
	edgeWeightType := req.EdgeWeightType
	if edgeWeightType == "" {
		edgeWeightType = twotsp.Geo
	}
	if edgeWeightType == twotsp.Explicit {
		return nil, 0, fmt.Errorf("%w: explicit weights need a matrix", twotsp.ErrInvalidInstance)
	}
	metric, err := twotsp.MetricFor(edgeWeightType)
	if err != nil {
		return nil, 0, err
	}
	inst, err := twotsp.NewInstanceWithMetric(req.Cities, metric)
	if err != nil {
		return nil, 0, err
	}
	depot := req.Cities[0].ID
	if req.Depot != nil {
		depot = *req.Depot
	}
	return inst, depot, nil
}

func (s *server) writeError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errTooManyCities):
		code = http.StatusRequestEntityTooLarge
	default:
		switch observability.Outcome(err) {
		case observability.OutcomeInvalid:
			code = http.StatusBadRequest
		case observability.OutcomeInfeasible:
			code = http.StatusUnprocessableEntity
		case observability.OutcomeTimeout:
			code = http.StatusGatewayTimeout
		}
	}
	c.JSON(code, gin.H{
		"error":      err.Error(),
		"request_id": logging.RequestIDFromContext(c.Request.Context()),
	})
}
