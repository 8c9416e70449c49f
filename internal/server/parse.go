package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tiptally/tiptally/internal/parse"
)

type parseRequest struct {
	Text string `json:"text"`
}

type parseResponse struct {
	Entry       parse.ParsedTipEntry `json:"entry"`
	Disposition parse.Disposition    `json:"disposition"`
}

type rateLimitedResponse struct {
	Error     string `json:"error"`
	ResetInMS int64  `json:"reset_in_ms"`
}

// POST /v1/parse
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: expected JSON {text}")
		return
	}

	entry, err := s.parser.Parse(r.Context(), userKey(r), req.Text)
	if err != nil {
		var rl *parse.RateLimitedError
		if errors.As(err, &rl) {
			writeJSON(w, http.StatusTooManyRequests, rateLimitedResponse{
				Error:     "too many parse requests, slow down",
				ResetInMS: rl.ResetIn.Milliseconds(),
			})
			return
		}
		s.writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, parseResponse{
		Entry:       entry,
		Disposition: parse.DispositionFor(entry),
	})
}
