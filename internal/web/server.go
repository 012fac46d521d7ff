package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dvalero/meffhist/internal/domain"
	"go.uber.org/zap"
)

type Server struct {
	router *http.ServeMux
	server *http.Server
	source domain.QuoteSource
	repo   domain.QuoteRepository // nil when persistence is disabled
	logger *zap.Logger
}

func NewServer(
	port int,
	source domain.QuoteSource,
	repo domain.QuoteRepository,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router: http.NewServeMux(),
		source: source,
		repo:   repo,
		logger: logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Quotes
	s.router.HandleFunc("GET /api/quotes", s.handleQuotes)

	// Options
	s.router.HandleFunc("GET /api/options", s.handleOptions)

	// Ticker listing
	s.router.HandleFunc("GET /api/tickers", s.handleTickers)

	// Stored quotes
	s.router.HandleFunc("GET /api/stored", s.handleStored)

	// Status
	s.router.HandleFunc("GET /status", s.handleStatus)
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
