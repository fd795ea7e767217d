package config

import (
	"encoding/json"
	"net/http"

	"statement_insight/pkg/api/common"
	"statement_insight/pkg/core/agent"
)

type Response struct {
	ActiveProvider     string   `json:"active_provider"`
	Available          []string `json:"available"`
	NarrativeProvider  string   `json:"narrative_provider"`
	ChatProvider       string   `json:"chat_provider"`
	NarrativeAvailable bool     `json:"narrative_available"`
	ChatAvailable      bool     `json:"chat_available"`
}

type SwitchRequest struct {
	Provider string `json:"provider"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	AgentMgr *agent.Manager
}

// NewHandler creates a new config handler
func NewHandler(agentMgr *agent.Manager) *Handler {
	return &Handler{
		AgentMgr: agentMgr,
	}
}

func (h *Handler) snapshot() Response {
	return Response{
		ActiveProvider:     h.AgentMgr.GetActiveProvider(),
		Available:          h.AgentMgr.ProviderNames(),
		NarrativeProvider:  h.AgentMgr.ProviderNameFor(agent.FeatureNarrative),
		ChatProvider:       h.AgentMgr.ProviderNameFor(agent.FeatureChat),
		NarrativeAvailable: h.AgentMgr.Available(agent.FeatureNarrative),
		ChatAvailable:      h.AgentMgr.Available(agent.FeatureChat),
	}
}

// HandleConfig reports the providers and whether the AI features can run.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, h.snapshot())
}

// HandleSwitch changes the global provider. Sessions keep the chat they
// already opened.
func (h *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	var req SwitchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, common.KindBadRequest, "Invalid request body")
		return
	}

	if err := h.AgentMgr.SetGlobalProvider(req.Provider); err != nil {
		common.WriteError(w, http.StatusBadRequest, common.KindBadRequest, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, h.snapshot())
}
