package narrative

import (
	"net/http"

	"statement_insight/pkg/api/common"
	coreNarrative "statement_insight/pkg/core/narrative"
	"statement_insight/pkg/core/session"
)

// Handler holds dependencies for the commentary endpoint
type Handler struct {
	store   *session.Store
	service *coreNarrative.Service
}

// NewHandler creates a new narrative handler
func NewHandler(store *session.Store, service *coreNarrative.Service) *Handler {
	return &Handler{store: store, service: service}
}

// HandleNarrative requests commentary for the session's statement. AI
// failures are answered with 200 and an "error" message.
func (h *Handler) HandleNarrative(w http.ResponseWriter, r *http.Request) {
	s, ok := common.LookupSession(r, h.store)
	if !ok {
		common.WriteError(w, http.StatusNotFound, common.KindNoStatement, session.ErrNoStatement.Error())
		return
	}
	a, err := s.Statement()
	if err != nil {
		common.WriteSessionError(w, err)
		return
	}

	common.WriteJSON(w, http.StatusOK, h.service.Commentary(r.Context(), a))
}
