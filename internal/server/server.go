package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/tiptally/tiptally/internal/common"
	"github.com/tiptally/tiptally/internal/export"
	"github.com/tiptally/tiptally/internal/parse"
	"github.com/tiptally/tiptally/internal/repository"
	"github.com/tiptally/tiptally/internal/vision"
)

// TipParser is what the parse endpoint needs from the chat pipeline.
type TipParser interface {
	Parse(ctx context.Context, userKey, text string) (parse.ParsedTipEntry, error)
}

// VisionAnalyzer is what the vision endpoints need from the extractor.
type VisionAnalyzer interface {
	AnalyzeEarningsScreenshot(ctx context.Context, imagePath string) vision.ExtractedEarnings
	AnalyzeReceipt(ctx context.Context, imagePath string) vision.ExtractedReceipt
	Mode() string
}

type Server struct {
	parser    TipParser
	extractor VisionAnalyzer
	store     repository.Store
	exporter  *export.Service
	logger    *slog.Logger
	mux       *http.ServeMux
}

func New(parser TipParser, extractor VisionAnalyzer, store repository.Store, exporter *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		parser:    parser,
		extractor: extractor,
		store:     store,
		exporter:  exporter,
		logger:    logger,
		mux:       http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) Router() http.Handler { return s.withRequestID(s.mux) }

func (s *Server) routes() {
	s.mux.HandleFunc("/v1/parse", s.handleParse)
	s.mux.HandleFunc("/v1/vision/earnings", s.handleVisionEarnings)
	s.mux.HandleFunc("/v1/vision/receipt", s.handleVisionReceipt)
	s.mux.HandleFunc("/v1/jobs", s.handleJobs)
	s.mux.HandleFunc("/v1/entries", s.handleEntries)
	s.mux.HandleFunc("/v1/entries/summary", s.handleEntrySummary)
	s.mux.HandleFunc("/v1/export.xlsx", s.handleExport)
	s.mux.HandleFunc("/healthz", s.handleHealthz)
}

// withRequestID tags every request with a request id for log correlation
// and stashes the caller identity for the handlers.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx := common.WithRequestID(r.Context(), rid)
		ctx = common.WithUserKey(ctx, r.Header.Get("X-User-Key"))
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userKey resolves the caller identity. There is no auth layer; the key is
// whatever the client presents, falling back to a shared anonymous bucket.
func userKey(r *http.Request) string {
	return common.UserKeyFromContext(r.Context())
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := map[string]string{"status": "ok", "vision_mode": s.extractor.Mode()}
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			s.logger.Error("healthz database ping failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
			return
		}
		status["database"] = "ok"
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeAppError maps domain errors onto HTTP statuses.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := common.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"req_id", common.RequestIDFromContext(r.Context()),
			"error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
