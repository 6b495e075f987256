package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"stock-report-builder/internal/app"
)

// Options configure the dashboard HTTP server.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the single-user dashboard: one page that drives the whole
// fetch-transform-render-export cycle. The most recent report is kept
// in memory so the chart and export endpoints can serve it back.
type Server struct {
	app    *app.App
	opts   Options
	logger zerolog.Logger
	echo   *echo.Echo

	mu     sync.Mutex
	latest *app.Report
}

// New wires the echo instance, middleware, and routes.
func New(application *app.App, opts Options, logger zerolog.Logger) *Server {
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		app:    application,
		opts:   opts,
		logger: logger.With().Str("component", "server").Logger(),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = &templateRenderer{tmpl: dashboardTemplate}
	e.Server.ReadTimeout = opts.ReadTimeout
	e.Server.WriteTimeout = opts.WriteTimeout

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			evt := s.logger.Info()
			if v.Error != nil {
				evt = s.logger.Error().Err(v.Error)
			}
			evt.Int("status", v.Status).Str("uri", v.URI).Msg("request")
			return nil
		},
	}))

	e.GET("/health", s.Health)
	e.GET("/", s.Dashboard)
	e.GET("/chart/:kind", s.Chart)
	e.GET("/export/:format", s.Export)

	s.echo = e
	return s
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.opts.Addr).Msg("dashboard listening")
	return s.echo.Start(s.opts.Addr)
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(ctx)
}

// Run serves the dashboard until the context is cancelled or a signal
// arrives, then drains connections.
func Run(ctx context.Context, application *app.App, opts Options, logger zerolog.Logger) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := New(application, opts, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		srv.logger.Info().Msg("shutting down")
		return srv.Shutdown(context.Background())
	}
}

func (s *Server) setLatest(report *app.Report) {
	s.mu.Lock()
	s.latest = report
	s.mu.Unlock()
}

func (s *Server) getLatest() *app.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}
