package http

import (
	"encoding/json"
	"net/http"

	"github.com/HalatsynZakhar/TeacherTest/internal/testgen"
	"github.com/HalatsynZakhar/TeacherTest/pkg/monitoring"
)

// POST /api/checks  { "variant_number": 3, "answers": ["A", "BC", "kyiv"] }
//
// Splitting a pasted comma-separated line into the answers list is the
// client's job; the engine takes one string per question as-is.
func CheckHandler(svc *testgen.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			VariantNumber int      `json:"variant_number"`
			Answers       []string `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		res, err := svc.Check(r.Context(), req.VariantNumber, req.Answers)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		monitoring.ChecksScored.Inc()
		writeJSON(w, http.StatusOK, res)
	}
}
