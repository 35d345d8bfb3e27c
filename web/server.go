// Package web exposes the scrape pipeline over HTTP: starting jobs,
// polling progress, paging through results and downloading exports.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ytscraper/config"
	"ytscraper/internal/retry"
	"ytscraper/storage"
	"ytscraper/youtube"
)

// Pipeline is the slice of the scrape client the handlers need. The
// production implementation is *youtube.Client; tests substitute a fake.
type Pipeline interface {
	Scrape(ctx context.Context, channelURL, startDate, endDate string) (*youtube.ScrapeResult, error)
	Progress() *youtube.Progress
}

// Server wires the HTTP layer: echo routes, the job registry and the
// session store.
type Server struct {
	echo     *echo.Echo
	cfg      *config.Config
	sessions *storage.SessionStore
	jobs     *jobRegistry
	logger   zerolog.Logger

	// jobRetention is how long a finished job stays in the registry so
	// clients can still read its final progress; afterwards progress polls
	// fall through to the session.
	jobRetention time.Duration

	// newPipeline builds a pipeline per scrape request; replaced in tests.
	newPipeline func(ctx context.Context, apiKey string) (Pipeline, error)
}

// NewServer builds a server around the given config and session store.
func NewServer(cfg *config.Config, sessions *storage.SessionStore) *Server {
	s := &Server{
		cfg:          cfg,
		sessions:     sessions,
		jobs:         newJobRegistry(),
		logger:       log.With().Str("component", "web").Logger(),
		jobRetention: time.Hour,
	}
	s.newPipeline = func(ctx context.Context, apiKey string) (Pipeline, error) {
		client, err := youtube.NewClient(ctx, apiKey)
		if err != nil {
			return nil, err
		}
		client.RetryConfig = retry.Config{MaxAttempts: cfg.MaxRetries, Backoff: cfg.RetryBackoff}
		client.SetRateLimit(cfg.RateLimit, cfg.RateBurst)
		client.SetLogger(log.With().Str("component", "youtube").Logger())
		return client, nil
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.requestLogger())
	e.Use(metricsMiddleware())

	e.POST("/api/scrape", s.handleScrape)
	e.GET("/api/progress/:id", s.handleProgress)
	e.GET("/api/results/:id", s.handleResults)
	e.POST("/api/export", s.handleExport)
	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo = e
	return s
}

// Start runs the server until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("listening")
	err := s.echo.Start(s.cfg.ListenAddr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogMethod:  true,
		LogURI:     true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			evt := s.logger.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = s.logger.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
