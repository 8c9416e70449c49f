package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tiptally/tiptally/internal/common"
	"github.com/tiptally/tiptally/internal/entity"
	"github.com/tiptally/tiptally/internal/parse"
	"github.com/tiptally/tiptally/internal/repository"
	"github.com/tiptally/tiptally/internal/vision"
)

// memStore is a small in-memory Store used to isolate handler logic.
type memStore struct {
	mu      sync.Mutex
	jobs    map[uuid.UUID]*entity.Job
	entries []*entity.TipEntry
}

func newMemStore() *memStore {
	return &memStore{jobs: make(map[uuid.UUID]*entity.Job)}
}

func (m *memStore) Jobs() repository.JobRepository         { return (*memJobs)(m) }
func (m *memStore) Entries() repository.TipEntryRepository { return (*memEntries)(m) }
func (m *memStore) Ping(context.Context) error             { return nil }
func (m *memStore) Close()                                 {}

type memJobs memStore

func (m *memJobs) Create(_ context.Context, job *entity.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	m.jobs[job.ID] = job
	return nil
}

func (m *memJobs) GetByID(_ context.Context, id uuid.UUID) (*entity.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, common.NewAppError(common.CodeNotFound, "job not found", nil)
	}
	return job, nil
}

func (m *memJobs) List(_ context.Context, userKey string) ([]*entity.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Job
	for _, j := range m.jobs {
		if j.UserKey == userKey {
			out = append(out, j)
		}
	}
	return out, nil
}

type memEntries memStore

func (m *memEntries) Create(_ context.Context, e *entity.TipEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memEntries) List(_ context.Context, userKey string, _ repository.EntryFilter) ([]*entity.TipEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.TipEntry
	for _, e := range m.entries {
		if e.UserKey == userKey {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEntries) Summarize(_ context.Context, userKey string, _ repository.EntryFilter) ([]*entity.JobSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byJob := map[uuid.UUID]*entity.JobSummary{}
	var out []*entity.JobSummary
	for _, e := range m.entries {
		if e.UserKey != userKey || e.JobID == nil {
			continue
		}
		s, ok := byJob[*e.JobID]
		if !ok {
			s = &entity.JobSummary{JobID: e.JobID}
			byJob[*e.JobID] = s
			out = append(out, s)
		}
		s.EntryCount++
		s.TotalTips += e.TipsEarned
		s.TotalHours += e.HoursWorked
	}
	return out, nil
}

// stubParser scripts parse results for handler tests.
type stubParser struct {
	entry parse.ParsedTipEntry
	err   error
}

func (s *stubParser) Parse(context.Context, string, string) (parse.ParsedTipEntry, error) {
	return s.entry, s.err
}

func newTestServer(t *testing.T, parser TipParser) (*Server, *memStore) {
	t.Helper()
	store := newMemStore()
	extractor := vision.NewExtractor(vision.MockBackend{}, slog.New(slog.DiscardHandler))
	return New(parser, extractor, store, nil, slog.New(slog.DiscardHandler)), store
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandleParseOK(t *testing.T) {
	parser := &stubParser{entry: parse.ParsedTipEntry{
		TipsEarned: 85, HoursWorked: 5, ShiftType: "dinner", Confidence: 0.95,
	}}
	srv, _ := newTestServer(t, parser)

	w := postJSON(t, srv.Router(), "/v1/parse", map[string]string{"text": "Made $85 in 5 hours tonight"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Entry       parse.ParsedTipEntry `json:"entry"`
		Disposition string               `json:"disposition"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Entry.TipsEarned != 85 || resp.Disposition != "accept" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestHandleParseRateLimited(t *testing.T) {
	parser := &stubParser{err: &parse.RateLimitedError{ResetIn: 42 * time.Second}}
	srv, _ := newTestServer(t, parser)

	w := postJSON(t, srv.Router(), "/v1/parse", map[string]string{"text": "anything"})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}

	var resp struct {
		Error     string `json:"error"`
		ResetInMS int64  `json:"reset_in_ms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ResetInMS != 42000 {
		t.Errorf("reset_in_ms = %d, want 42000", resp.ResetInMS)
	}
	if resp.Error == "" {
		t.Error("429 body needs a user-facing message")
	}
}

func TestHandleParseRejectsBadBody(t *testing.T) {
	srv, _ := newTestServer(t, &stubParser{})
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestJobsCreateAndList(t *testing.T) {
	srv, _ := newTestServer(t, &stubParser{})

	w := postJSON(t, srv.Router(), "/v1/jobs", map[string]any{"name": "Corner Bar", "hourly_rate": 7.25})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/jobs", nil)
	lw := httptest.NewRecorder()
	srv.Router().ServeHTTP(lw, req)
	if lw.Code != http.StatusOK {
		t.Fatalf("list status = %d", lw.Code)
	}
	var jobs []*entity.Job
	if err := json.Unmarshal(lw.Body.Bytes(), &jobs); err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 || jobs[0].Name != "Corner Bar" {
		t.Errorf("jobs = %+v", jobs)
	}
}

func TestJobsCreateRequiresName(t *testing.T) {
	srv, _ := newTestServer(t, &stubParser{})
	w := postJSON(t, srv.Router(), "/v1/jobs", map[string]any{"hourly_rate": 7.25})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestEntriesCreateValidatesBounds(t *testing.T) {
	srv, store := newTestServer(t, &stubParser{})

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			name: "valid entry",
			body: map[string]any{"entry_date": "2026-08-27", "tips_earned": 85.0, "hours_worked": 5.0, "shift_type": "dinner"},
			want: http.StatusCreated,
		},
		{
			name: "tips over cap",
			body: map[string]any{"entry_date": "2026-08-27", "tips_earned": 100001.0, "hours_worked": 5.0},
			want: http.StatusBadRequest,
		},
		{
			name: "zero hours",
			body: map[string]any{"entry_date": "2026-08-27", "tips_earned": 85.0, "hours_worked": 0.0},
			want: http.StatusBadRequest,
		},
		{
			name: "bad date",
			body: map[string]any{"entry_date": "yesterday", "tips_earned": 85.0, "hours_worked": 5.0},
			want: http.StatusBadRequest,
		},
		{
			name: "unknown shift label",
			body: map[string]any{"entry_date": "2026-08-27", "tips_earned": 85.0, "hours_worked": 5.0, "shift_type": "third watch"},
			want: http.StatusBadRequest,
		},
		{
			name: "unknown source",
			body: map[string]any{"entry_date": "2026-08-27", "tips_earned": 85.0, "hours_worked": 5.0, "source": "TELEPATHY"},
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, srv.Router(), "/v1/entries", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}

	if len(store.entries) != 1 {
		t.Errorf("persisted entries = %d, want only the valid one", len(store.entries))
	}
}

func TestEntryRejectsUnknownJob(t *testing.T) {
	srv, _ := newTestServer(t, &stubParser{})
	body := map[string]any{
		"entry_date": "2026-08-27", "tips_earned": 85.0, "hours_worked": 5.0,
		"job_id": uuid.NewString(),
	}
	w := postJSON(t, srv.Router(), "/v1/entries", body)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, &stubParser{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "ok" || resp["vision_mode"] != "mock" {
		t.Errorf("healthz = %v", resp)
	}
}
