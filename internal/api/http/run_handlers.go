package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/HalatsynZakhar/TeacherTest/internal/testgen"
)

// GET /api/runs?limit=20 — recent generation runs, newest first.
func RunsHandler(svc *testgen.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if s := r.URL.Query().Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				http.Error(w, "limit must be an integer", http.StatusBadRequest)
				return
			}
			limit = n
		}
		runs, err := svc.Runs(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

// GET /api/runs/{runID}/workbook — the key workbook kept for that run.
func RunWorkbookHandler(svc *testgen.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := chi.URLParam(r, "runID")
		rc, err := svc.Workbook(runID)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="keys-`+runID+`.xlsx"`)
		_, _ = io.Copy(w, rc)
	}
}
