package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dharsanguruparan/dbzmanager/internal/auth"
	"github.com/dharsanguruparan/dbzmanager/internal/repository"
	"github.com/dharsanguruparan/dbzmanager/internal/storage"
)

// httpError is an error with a client-facing status and message.
type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &httpError{status: http.StatusBadRequest, msg: msg}
}

type errorBody struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encode failure can only be a broken
	// connection.
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorBody{Error: msg})
}

// fail maps err onto the error envelope. Anything unrecognised is logged and
// reported as a 500 carrying fallback, never the underlying detail.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		he       *httpError
		ve       *auth.ValidationError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &he):
		respondError(w, he.status, he.msg)
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, ve.Msg)
	case errors.As(err, &tooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
	case errors.Is(err, auth.ErrConflict):
		respondError(w, http.StatusBadRequest, "Email or username already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "Invalid credentials.")
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidName):
		respondError(w, http.StatusNotFound, "File not found")
	default:
		s.log.Error(fallback,
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
		)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
