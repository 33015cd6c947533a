package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/username/vacation-days/internal/format"
	"github.com/username/vacation-days/internal/vacation"
	"go.uber.org/zap"
)

// Options configures the HTTP server
type Options struct {
	Addr             string
	CORSOrigins      []string
	ShutdownTimeout  time.Duration
	IncludeHolHamoed bool        // default when the request omits holHamoed
	Language         format.Lang // default when the request names no language
}

// Server serves the vacation calculator over HTTP
type Server struct {
	calc   *vacation.Calculator
	opts   Options
	logger *zap.Logger
	engine *gin.Engine
}

// New creates a new Server
func New(calc *vacation.Calculator, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Language == "" {
		opts.Language = format.LangEnglish
	}

	s := &Server{
		calc:   calc,
		opts:   opts,
		logger: logger,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AccessLog(s.logger), Recovery(s.logger), cors.New(s.corsConfig()))

	r.GET("/healthz", s.health)

	api := r.Group("/api")
	api.GET("/vacation", s.getVacation)
	api.GET("/holidays", s.getHolidays)

	r.NoRoute(NotFound)

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodOptions}
	cfg.ExposeHeaders = []string{requestIDHeader}

	origins := s.opts.CORSOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server started", zap.String("addr", s.opts.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("server %s: %w", s.opts.Addr, err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server",
			zap.String("addr", s.opts.Addr),
			zap.Duration("grace", s.opts.ShutdownTimeout))
	}

	// ctx is already done, shut down under a fresh deadline
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server %s shutdown failed: %w", s.opts.Addr, err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}
