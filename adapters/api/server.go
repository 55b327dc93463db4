// Package api serves the public JSON API over gin.
package api

import (
	"net/http"
	"time"

	"luckystat/app"
	"luckystat/internal/errors"
	"luckystat/internal/metrics"
	"luckystat/ports"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// maxImportBytes bounds an uploaded export bundle
const maxImportBytes = 1 << 20

// Services groups the application services the handlers call
type Services struct {
	Generation *app.GenerationService
	Stats      *app.StatsService
	Transfer   *app.TransferService
}

// Server owns the gin engine and its handlers
type Server struct {
	router   *gin.Engine
	services Services
	clock    ports.Clock
	log      logrus.FieldLogger
	limiter  *RateLimiter
}

// Option configures a Server
type Option func(*Server)

// WithRateLimit throttles the write routes per client; rps <= 0 leaves them open
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 {
			s.limiter = NewRateLimiter(rps, burst)
		}
	}
}

// NewServer builds the engine and registers every route
func NewServer(services Services, clock ports.Clock, log logrus.FieldLogger, opts ...Option) *Server {
	if clock == nil {
		clock = ports.SystemClock
	}
	s := &Server{
		router:   gin.New(),
		services: services,
		clock:    clock,
		log:      log.WithField("component", "api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router.Use(gin.Recovery(), s.observe())
	s.routes()
	return s
}

// Handler exposes the engine for http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	v1 := s.router.Group("/api/v1")

	v1.GET("/week", s.getWeek)

	results := v1.Group("/results")
	results.GET("/current", s.getCurrent)
	results.GET("/current/sheet", s.getCurrentSheet)
	results.GET("/current/ranks", s.getRanks(false))
	results.GET("/last-week", s.getLastWeek)
	results.GET("/last-week/ranks", s.getRanks(true))

	v1.GET("/stats", s.getStats)
	v1.GET("/draws", s.getDraws)
	v1.GET("/export", s.getExport)

	writes := v1.Group("")
	if s.limiter != nil {
		writes.Use(s.limiter.Middleware())
	}
	writes.POST("/preview", s.postPreview)
	writes.POST("/stats/draws", s.postDraw)
	writes.POST("/import", s.postImport)
}

// observe logs each request and records its metrics under the route pattern
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		metrics.RecordHTTPRequest(c.Request.Method, c.FullPath(), status, elapsed)

		entry := s.log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   status,
			"duration": elapsed.String(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("error", c.Errors.Last().Error())
		}
		if status >= http.StatusInternalServerError {
			entry.Error("request failed")
			return
		}
		entry.Debug("request served")
	}
}

// respondError maps an AppError code onto the HTTP status and a JSON body
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := errors.HTTPStatus(err)
	body := gin.H{"code": errors.GetCode(err)}
	if status >= http.StatusInternalServerError {
		body["error"] = http.StatusText(status)
	} else {
		body["error"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}
