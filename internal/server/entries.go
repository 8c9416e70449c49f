package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/tiptally/tiptally/constants"
	"github.com/tiptally/tiptally/internal/common"
	"github.com/tiptally/tiptally/internal/entity"
	"github.com/tiptally/tiptally/internal/repository"
)

type createEntryRequest struct {
	JobID       *string  `json:"job_id,omitempty"`
	EntryDate   string   `json:"entry_date"`
	TipsEarned  float64  `json:"tips_earned"`
	HoursWorked float64  `json:"hours_worked"`
	ShiftType   *string  `json:"shift_type,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	Source      string   `json:"source,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	NeedsReview bool     `json:"needs_review,omitempty"`
}

// /v1/entries
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createEntry(w, r)
	case http.MethodGet:
		s.listEntries(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request: expected JSON tip entry")
		return
	}

	// Bounds are enforced here again regardless of what the parse or vision
	// pipeline reported. Nothing outside them is ever persisted.
	v := common.NewValidator()
	v.Field("entry_date", req.EntryDate, common.Required, common.DateYMD)
	v.Field("tips_earned", req.TipsEarned, common.TipAmount)
	v.Field("hours_worked", req.HoursWorked, common.HoursWorked)
	if req.JobID != nil {
		v.Field("job_id", *req.JobID, common.UUID)
	}
	if err := v.Error(); err != nil {
		s.writeAppError(w, r, err)
		return
	}

	source := req.Source
	if source == "" {
		source = string(constants.SourceManual)
	}
	if !constants.ValidEntrySource(source) {
		writeError(w, http.StatusBadRequest, "invalid source")
		return
	}

	var shift *string
	if req.ShiftType != nil {
		if canonical, ok := constants.CanonicalizeShift(*req.ShiftType); ok {
			sv := string(canonical)
			shift = &sv
		} else {
			writeError(w, http.StatusBadRequest, "invalid shift_type")
			return
		}
	}

	entryDate, _ := time.Parse("2006-01-02", req.EntryDate)
	entry := &entity.TipEntry{
		UserKey:     userKey(r),
		EntryDate:   entryDate,
		TipsEarned:  req.TipsEarned,
		HoursWorked: req.HoursWorked,
		ShiftType:   shift,
		Notes:       req.Notes,
		Source:      source,
		Confidence:  req.Confidence,
		NeedsReview: req.NeedsReview,
	}
	if req.JobID != nil {
		id, _ := uuid.Parse(*req.JobID)
		if _, err := s.store.Jobs().GetByID(r.Context(), id); err != nil {
			s.writeAppError(w, r, err)
			return
		}
		entry.JobID = &id
	}

	if err := s.store.Entries().Create(r.Context(), entry); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	filter, err := entryFilterFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := s.store.Entries().List(r.Context(), userKey(r), filter)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*entity.TipEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// GET /v1/entries/summary
func (s *Server) handleEntrySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	filter, err := entryFilterFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	summaries, err := s.store.Entries().Summarize(r.Context(), userKey(r), filter)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []*entity.JobSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

// entryFilterFromQuery reads job_id, from and to query parameters.
func entryFilterFromQuery(values url.Values) (repository.EntryFilter, error) {
	var filter repository.EntryFilter
	if raw := values.Get("job_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, common.NewAppError(common.CodeInvalidInput, "invalid job_id", err)
		}
		filter.JobID = &id
	}
	if raw := values.Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, common.NewAppError(common.CodeInvalidInput, "invalid from date, expected YYYY-MM-DD", err)
		}
		filter.FromDate = &t
	}
	if raw := values.Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, common.NewAppError(common.CodeInvalidInput, "invalid to date, expected YYYY-MM-DD", err)
		}
		filter.ToDate = &t
	}
	return filter, nil
}
