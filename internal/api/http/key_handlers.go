package http

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/HalatsynZakhar/TeacherTest/internal/testgen"
)

// GET /api/keys
func ListKeysHandler(svc *testgen.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.Keys(r.Context())
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// GET /api/keys/{variantNumber}
func GetKeyHandler(svc *testgen.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "variantNumber")
		vn, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "variant number must be an integer", http.StatusBadRequest)
			return
		}
		e, err := svc.Key(r.Context(), vn)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// GET /api/keys/export — the whole key set as an xlsx download.
func ExportKeysHandler(svc *testgen.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Buffered so a render failure can still become a clean error
		// response instead of a half-written file.
		var buf bytes.Buffer
		if err := svc.ExportKeys(r.Context(), &buf); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		serveWorkbook(w, "answer-keys.xlsx", &buf)
	}
}

// POST /api/keys/import — multipart "keys" xlsx replaces the stored set.
func ImportKeysHandler(svc *testgen.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "bad multipart form", http.StatusBadRequest)
			return
		}
		f, _, err := r.FormFile("keys")
		if err != nil {
			http.Error(w, `missing "keys" file`, http.StatusBadRequest)
			return
		}
		defer f.Close()

		n, err := svc.ImportKeys(r.Context(), f)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"imported": n})
	}
}
