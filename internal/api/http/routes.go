// Package http is the service surface: login, generation, key exchange
// and checking, all JSON over chi. Handlers stay thin; every rule lives
// in the engine packages underneath.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HalatsynZakhar/TeacherTest/internal/auth"
	"github.com/HalatsynZakhar/TeacherTest/internal/letters"
	"github.com/HalatsynZakhar/TeacherTest/internal/testgen"
)

type Deps struct {
	Service         *testgen.Service
	Auth            *auth.Service
	Alphabet        letters.Alphabet
	DefaultVariants int
}

// Mount wires the API onto r. Everything under /api requires a teacher
// token; login and the probes stay open.
func Mount(r chi.Router, d Deps) {
	r.Post("/auth/login", LoginHandler(d.Auth))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(d.Auth))
		pr.Use(auth.RequireRole(auth.RoleTeacher))

		pr.Route("/api", func(ar chi.Router) {
			ar.Post("/tests/generate", GenerateHandler(d.Service, d.Alphabet))
			ar.Post("/tests/generate/upload", GenerateUploadHandler(d.Service, d.Alphabet, d.DefaultVariants))

			ar.Get("/keys", ListKeysHandler(d.Service))
			ar.Get("/keys/export", ExportKeysHandler(d.Service))
			ar.Post("/keys/import", ImportKeysHandler(d.Service))
			ar.Get("/keys/{variantNumber}", GetKeyHandler(d.Service))

			ar.Post("/checks", CheckHandler(d.Service))

			ar.Get("/runs", RunsHandler(d.Service))
			ar.Get("/runs/{runID}/workbook", RunWorkbookHandler(d.Service))

			ar.Get("/bank/template", BankTemplateHandler())
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}
