// Package api exposes the position-size calculator and the trade journal
// over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/auth"
	"github.com/rustyeddy/tradejournal/calcstate"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/market"
	"github.com/rustyeddy/tradejournal/pkg/id"
)

type Options struct {
	RateLimit   float64 // requests/second per client IP; 0 disables
	RateBurst   int
	CORSOrigins []string
	// SecureCookie marks the session cookie Secure; set it behind TLS.
	SecureCookie bool
}

type Server struct {
	journal *journal.Service
	catalog *market.Catalog
	calc    calcstate.Store
	tokens  *auth.Tokens
	log     *zap.Logger
	ids     *id.Generator
	opts    Options
	engine  *gin.Engine
}

func NewServer(svc *journal.Service, catalog *market.Catalog, calc calcstate.Store, tokens *auth.Tokens, log *zap.Logger, opts Options) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		journal: svc,
		catalog: catalog,
		calc:    calc,
		tokens:  tokens,
		log:     log.Named("api"),
		ids:     id.NewGenerator(nil),
		opts:    opts,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log), requestMetrics())
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	if s.opts.RateLimit > 0 {
		v1.Use(newRateLimiter(s.opts.RateLimit, s.opts.RateBurst).middleware())
	}
	v1.Use(s.identify())
	{
		v1.GET("/instruments", s.listInstruments)

		v1.POST("/sizing", s.computeSizing)
		v1.GET("/sizing/state", s.getSizingState)
		v1.DELETE("/sizing/state", s.clearSizingState)

		v1.POST("/pnl", s.previewPnL)

		trades := v1.Group("/trades", requireIdentity())
		{
			trades.GET("", s.listTrades)
			trades.POST("", s.createTrade)
			trades.GET("/stats", s.tradeStats)
			trades.GET("/export", s.exportTrades)
			trades.GET("/report", s.tradeReport)
			trades.GET("/:id", s.getTrade)
			trades.PUT("/:id", s.updateTrade)
			trades.DELETE("/:id", s.deleteTrade)
		}
	}

	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
