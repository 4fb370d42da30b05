package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HalatsynZakhar/TeacherTest/internal/auth"
)

// POST /auth/login  { "username": "...", "password": "..." }
func LoginHandler(a *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		tok, err := a.Login(req.Username, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrBadCredentials) {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": tok})
	}
}
