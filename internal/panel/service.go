package panel

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/panelkit/panelkit/internal/auth"
	"github.com/panelkit/panelkit/internal/observability"
)

// rowsBody mirrors the sliceby client's rows request.
type rowsBody struct {
	SliceKey any `json:"slice_key"`
	Start    int `json:"start"`
	End      int `json:"end"`
}

// aggregateBody mirrors the sliceby client's aggregate request.
type aggregateBody struct {
	AggregationID string `json:"aggregation_id"`
	AcceptsDP     bool   `json:"accepts_dp"`
}

// Service serves the sliceby API over one Slicer.
type Service struct {
	slicer    *Slicer
	router    *gin.Engine
	validator auth.Validator
}

// Option configures a Service at construction time.
type Option func(*Service)

// WithAuth guards the sliceby routes with a token validator. Health and
// metrics stay open.
func WithAuth(v auth.Validator) Option {
	return func(s *Service) {
		s.validator = v
	}
}

// NewService wires routes and middleware around a slicer.
func NewService(slicer *Slicer, logger zerolog.Logger, opts ...Option) *Service {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.RequestLogger(logger))
	router.Use(observability.RequestMetricsMiddleware())

	s := &Service{slicer: slicer, router: router}
	for _, opt := range opts {
		opt(s)
	}
	s.registerRoutes()
	return s
}

// Router exposes the underlying engine, mainly for tests.
func (s *Service) Router() *gin.Engine {
	return s.router
}

func (s *Service) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "panel-api",
			"records": s.slicer.Len(),
		})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	guarded := s.router.Group("/", auth.Middleware(s.validator))
	guarded.GET("/sliceby/:id/info", s.handleInfo)
	guarded.POST("/sliceby/:id/rows", s.handleRows)
	guarded.POST("/sliceby/:id/aggregate/", s.handleAggregate)
}

func (s *Service) handleInfo(c *gin.Context) {
	id := c.Param("id")
	info, err := s.slicer.Info(id)
	if err != nil {
		observability.RecordSliceQuery(id, "info", false)
		writeSlicerError(c, err)
		return
	}
	observability.RecordSliceQuery(id, "info", true)
	c.JSON(http.StatusOK, info)
}

func (s *Service) handleRows(c *gin.Context) {
	id := c.Param("id")
	var body rowsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		observability.RecordSliceQuery(id, "rows", false)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := s.slicer.Rows(id, sliceKeyString(body.SliceKey), body.Start, body.End)
	if err != nil {
		observability.RecordSliceQuery(id, "rows", false)
		writeSlicerError(c, err)
		return
	}
	observability.RecordSliceQuery(id, "rows", true)
	c.JSON(http.StatusOK, page)
}

func (s *Service) handleAggregate(c *gin.Context) {
	id := c.Param("id")
	var body aggregateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		observability.RecordSliceQuery(id, "aggregate", false)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := s.slicer.Aggregate(id, body.AggregationID)
	if err != nil {
		observability.RecordSliceQuery(id, "aggregate", false)
		writeSlicerError(c, err)
		return
	}
	observability.RecordSliceQuery(id, "aggregate", true)
	c.JSON(http.StatusOK, result)
}

// sliceKeyString normalizes a JSON slice key (string or number) to the
// slicer's string keyspace. JSON numbers decode as float64.
func sliceKeyString(key any) string {
	switch v := key.(type) {
	case string:
		return v
	case float64:
		return formatNumericKey(v)
	default:
		return ""
	}
}

func formatNumericKey(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeSlicerError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrUnknownSliceBy), errors.Is(err, ErrUnknownAggregation):
		status = http.StatusNotFound
	case errors.Is(err, ErrUnknownSliceKey):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// Run serves the API until the context is cancelled, then shuts down
// gracefully.
func (s *Service) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
