package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dvalero/meffhist/internal/domain"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}
	from, err := time.Parse(dateLayout, r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "invalid from date", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(dateLayout, r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "invalid to date", http.StatusBadRequest)
		return
	}

	quotes, err := s.source.GetHistoricalQuotes(r.Context(), ticker, from, to)
	if err != nil {
		s.writeError(w, "Failed to get historical quotes", err)
		return
	}
	s.writeJSON(w, quotes)
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}
	day, err := time.Parse(dateLayout, r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	quotes, err := s.source.GetOptions(r.Context(), ticker, day)
	if err != nil {
		s.writeError(w, "Failed to get options", err)
		return
	}
	s.writeJSON(w, quotes)
}

func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	tickers, err := s.source.GetTickerList(r.Context())
	if err != nil {
		s.writeError(w, "Failed to get ticker list", err)
		return
	}
	s.writeJSON(w, tickers)
}

func (s *Server) handleStored(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		http.Error(w, "storage is not configured", http.StatusNotFound)
		return
	}
	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}
	from, err := time.Parse(dateLayout, r.URL.Query().Get("from"))
	if err != nil {
		http.Error(w, "invalid from date", http.StatusBadRequest)
		return
	}
	to, err := time.Parse(dateLayout, r.URL.Query().Get("to"))
	if err != nil {
		http.Error(w, "invalid to date", http.StatusBadRequest)
		return
	}

	quotes, err := s.repo.ListQuotes(r.Context(), ticker, from, to)
	if err != nil {
		s.writeError(w, "Failed to list stored quotes", err)
		return
	}
	s.writeJSON(w, quotes)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, zap.Error(err))

	var transferErr *domain.TransferError
	switch {
	case errors.Is(err, domain.ErrUnsupportedPeriod):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &transferErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, msg, http.StatusInternalServerError)
	}
}
