package server

import (
	"encoding/json"
	"net/http"

	"github.com/tiptally/tiptally/internal/common"
	"github.com/tiptally/tiptally/internal/entity"
)

type createJobRequest struct {
	Name         string   `json:"name"`
	HourlyRate   *float64 `json:"hourly_rate,omitempty"`
	DefaultShift *string  `json:"default_shift,omitempty"`
}

// /v1/jobs
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createJob(w, r)
	case http.MethodGet:
		s.listJobs(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: expected JSON {name, hourly_rate?, default_shift?}")
		return
	}

	v := common.NewValidator()
	v.Field("name", req.Name, common.Required, common.MaxLength(120))
	if err := v.Error(); err != nil {
		s.writeAppError(w, r, err)
		return
	}

	job := &entity.Job{
		UserKey:      userKey(r),
		Name:         req.Name,
		HourlyRate:   req.HourlyRate,
		DefaultShift: req.DefaultShift,
	}
	if err := s.store.Jobs().Create(r.Context(), job); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.Jobs().List(r.Context(), userKey(r))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if jobs == nil {
		jobs = []*entity.Job{}
	}
	writeJSON(w, http.StatusOK, jobs)
}
