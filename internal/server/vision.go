package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tiptally/tiptally/constants"
)

// maxUploadBytes caps multipart form memory; the image size itself is
// gated again by the extractor.
const maxUploadBytes = 32 << 20

// POST /v1/vision/earnings
func (s *Server) handleVisionEarnings(w http.ResponseWriter, r *http.Request) {
	path, cleanup, ok := s.receiveImage(w, r)
	if !ok {
		return
	}
	defer cleanup()

	result := s.extractor.AnalyzeEarningsScreenshot(r.Context(), path)
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":   s.extractor.Mode(),
		"result": result,
	})
}

// POST /v1/vision/receipt
func (s *Server) handleVisionReceipt(w http.ResponseWriter, r *http.Request) {
	path, cleanup, ok := s.receiveImage(w, r)
	if !ok {
		return
	}
	defer cleanup()

	result := s.extractor.AnalyzeReceipt(r.Context(), path)
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":   s.extractor.Mode(),
		"result": result,
	})
}

// receiveImage pulls the uploaded "image" file into a temp path the
// extractor can read. The bool reports whether the caller should proceed.
func (s *Server) receiveImage(w http.ResponseWriter, r *http.Request) (string, func(), bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return "", nil, false
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: expected multipart form with an image file")
		return "", nil, false
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing image file")
		return "", nil, false
	}
	defer file.Close()

	ext := constants.NormalizeExt(filepath.Ext(header.Filename))
	if _, ok := constants.AllowedImageExtensions[ext]; !ok {
		writeError(w, http.StatusBadRequest, "unsupported image type")
		return "", nil, false
	}

	tmp, err := os.CreateTemp("", "tiptally-upload-*."+ext)
	if err != nil {
		s.logger.Error("failed to create temp file", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return "", nil, false
	}
	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		s.logger.Error("failed to buffer upload", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return "", nil, false
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		s.logger.Error("failed to close temp file", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return "", nil, false
	}

	path := tmp.Name()
	s.logger.Debug("buffered uploaded image", "upload_id", uuid.NewString(), "path", path, "bytes", header.Size)
	return path, func() { _ = os.Remove(path) }, true
}
