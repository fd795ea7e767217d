package session

import (
	"net/http"

	"statement_insight/pkg/api/common"
	coreSession "statement_insight/pkg/core/session"
)

// Handler tears sessions down.
type Handler struct {
	store *coreSession.Store
}

func NewHandler(store *coreSession.Store) *Handler {
	return &Handler{store: store}
}

// HandleDelete closes the caller's session and clears its cookie.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if id := common.RequestSessionID(r); id != "" {
		h.store.Delete(id)
	}
	http.SetCookie(w, &http.Cookie{Name: common.CookieSessionID, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}
