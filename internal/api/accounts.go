package api

import (
	"encoding/json"
	"net/http"

	"github.com/dharsanguruparan/dbzmanager/internal/auth"
)

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid JSON body")
	}
	return nil
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFieldBytes)
	var in auth.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, err, "An error occurred during signup")
		return
	}
	u, err := s.auth.Register(r.Context(), in)
	if err != nil {
		s.fail(w, r, err, "An error occurred during signup")
		return
	}
	s.log.Info("user registered", "user_id", u.ID, "username", u.Username)
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"userId":  u.ID,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFieldBytes)
	var in auth.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, err, "An error occurred during login.")
		return
	}
	token, u, err := s.auth.Authenticate(r.Context(), in)
	if err != nil {
		s.fail(w, r, err, "An error occurred during login.")
		return
	}
	s.log.Info("user logged in", "user_id", u.ID)
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFrom(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{"user": id})
}
