// Package api exposes the hedging service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/dyike/QuantHedge/consts"
	"github.com/dyike/QuantHedge/internal/graph"
	"github.com/dyike/QuantHedge/internal/service"
	"github.com/dyike/QuantHedge/models"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const Version = "1.0.0"

// HedgingService is what the handlers need from the service layer.
type HedgingService interface {
	RunCycle(ctx context.Context, prompt string, events chan<- graph.StageEvent) *models.CycleReport
	Portfolio() service.PortfolioView
	History(ctx context.Context, limit int) ([]models.CycleRecord, error)
}

type Server struct {
	httpServer *http.Server
	svc        HedgingService
	logger     *zap.Logger
	now        func() time.Time
}

func NewServer(addr string, svc HedgingService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{svc: svc, logger: logger.Named("api"), now: time.Now}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests, allowCORS)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/portfolio", s.handlePortfolio).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	return r
}

// ListenAndServe blocks until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("api server listening", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type analyzeRequest struct {
	Prompt string `json:"prompt"`
}

// POST /api/analyze runs one hedging cycle.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status":    consts.CycleError,
			"message":   "Internal server error",
			"error":     "invalid request body: " + err.Error(),
			"timestamp": s.timestamp(),
		})
		return
	}
	if req.Prompt == "" {
		req.Prompt = service.DefaultPrompt
	}

	report := s.svc.RunCycle(r.Context(), req.Prompt, nil)
	status := http.StatusOK
	if report.Status == consts.CycleError {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, report)
}

// GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"message":   "QuantHedge API is running",
		"timestamp": s.timestamp(),
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "QuantHedge Autonomous Hedging API",
		"version": Version,
		"endpoints": map[string]string{
			"analyze":   "/api/analyze",
			"health":    "/api/health",
			"portfolio": "/api/portfolio",
			"history":   "/api/history",
		},
	})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Portfolio())
}

// GET /api/history?limit=N
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"status": consts.CycleError,
				"error":  "limit must be a positive integer",
			})
			return
		}
		limit = n
	}
	recs, err := s.svc.History(r.Context(), limit)
	if err != nil {
		s.logger.Error("history query failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status": consts.CycleError,
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cycles": recs,
		"count":  len(recs),
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func allowCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		next.ServeHTTP(w, r)
	})
}
