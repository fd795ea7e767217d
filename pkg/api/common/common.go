// Package common holds the request helpers shared by the API handlers:
// session resolution and JSON responses.
package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"statement_insight/pkg/core/session"
)

const (
	HeaderSessionID = "X-Session-ID"
	CookieSessionID = "sid"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Error kinds reported to clients.
const (
	KindStructuralInput     = "structural_input"
	KindMissingReferenceRow = "missing_reference_row"
	KindNoStatement         = "no_statement"
	KindNoSession           = "no_session"
	KindBadRequest          = "bad_request"
	KindInternal            = "internal"
)

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, kind string, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg, Kind: kind})
}

// RequestSessionID returns the id sent by the client, header first.
func RequestSessionID(r *http.Request) string {
	if id := r.Header.Get(HeaderSessionID); id != "" {
		return id
	}
	if c, err := r.Cookie(CookieSessionID); err == nil {
		return c.Value
	}
	return ""
}

// ResolveSession returns the caller's session, creating one when needed, and
// echoes its id in the response header and cookie.
func ResolveSession(w http.ResponseWriter, r *http.Request, store *session.Store) *session.Session {
	s, _ := store.GetOrCreate(RequestSessionID(r))
	w.Header().Set(HeaderSessionID, s.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     CookieSessionID,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// LookupSession returns the caller's existing session without creating one.
func LookupSession(r *http.Request, store *session.Store) (*session.Session, bool) {
	id := RequestSessionID(r)
	if id == "" {
		return nil, false
	}
	return store.Get(id)
}

// WriteSessionError maps session lifecycle errors to responses.
func WriteSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoStatement):
		WriteError(w, http.StatusNotFound, KindNoStatement, err.Error())
	case errors.Is(err, session.ErrSessionClosed):
		WriteError(w, http.StatusGone, KindNoSession, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, KindInternal, err.Error())
	}
}
