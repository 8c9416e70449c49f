package server

import (
	"net/http"
)

// GET /v1/export.xlsx?job_id=&from=&to=
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	filter, err := entryFilterFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.exporter.ExportEntriesXLSX(r.Context(), userKey(r), filter.JobID, filter.FromDate, filter.ToDate)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="tips.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
