package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HalatsynZakhar/TeacherTest/internal/answerkey"
	"github.com/HalatsynZakhar/TeacherTest/internal/scoring"
	"github.com/HalatsynZakhar/TeacherTest/internal/storage"
	"github.com/HalatsynZakhar/TeacherTest/internal/variant"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps the engine's error taxonomy onto HTTP statuses: input
// defects are the caller's fault (400), unknown variants and missing
// workbooks are 404, anything else is a server problem.
func statusFor(err error) int {
	switch {
	case errors.Is(err, answerkey.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, variant.ErrNoVariants),
		errors.Is(err, variant.ErrEmptyBank),
		errors.Is(err, variant.ErrBadOrderMode),
		errors.Is(err, variant.ErrTooFewOptions),
		errors.Is(err, variant.ErrLetterUnmapped),
		errors.Is(err, answerkey.ErrEmptyAnswer),
		errors.Is(err, answerkey.ErrBadWeight),
		errors.Is(err, answerkey.ErrCountMismatch),
		errors.Is(err, scoring.ErrAnswerCount),
		errors.Is(err, scoring.ErrWeightTotal):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
