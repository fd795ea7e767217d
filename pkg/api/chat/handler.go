package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"statement_insight/pkg/api/common"
	"statement_insight/pkg/core/llm"
	"statement_insight/pkg/core/prompt"
	"statement_insight/pkg/core/session"
	"statement_insight/pkg/core/utils"
)

// MaxMessageLength bounds a single chat message.
const MaxMessageLength = 8000

type MessageRequest struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	HTML      string `json:"html,omitempty"`
}

type HistoryResponse struct {
	SessionID string     `json:"session_id,omitempty"`
	Turns     []llm.Turn `json:"turns"`
}

// Handler holds dependencies for chat endpoints
type Handler struct {
	store   *session.Store
	opener  session.ChatOpener
	prompts *prompt.Registry
}

// NewHandler creates a new chat handler
func NewHandler(store *session.Store, opener session.ChatOpener, prompts *prompt.Registry) *Handler {
	if prompts == nil {
		prompts = prompt.Get()
	}
	return &Handler{store: store, opener: opener, prompts: prompts}
}

// HandleMessage sends one message in the session's conversation.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, common.KindBadRequest, "Invalid request body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		common.WriteError(w, http.StatusBadRequest, common.KindBadRequest, "message is empty")
		return
	}
	if len(req.Message) > MaxMessageLength {
		common.WriteError(w, http.StatusBadRequest, common.KindBadRequest, fmt.Sprintf("message longer than %d bytes", MaxMessageLength))
		return
	}

	s := common.ResolveSession(w, r, h.store)
	system, err := h.prompts.GetSystemPrompt(prompt.PromptIDs.ChatAssistant)
	if err != nil {
		system = ""
	}

	reply, err := s.SendChat(r.Context(), h.opener, system, req.Message)
	if err != nil {
		writeChatError(w, err)
		return
	}

	resp := MessageResponse{SessionID: s.ID, Reply: reply}
	if html, err := utils.RenderMarkdownHTML(utils.CleanMarkdown(reply)); err == nil {
		resp.HTML = html
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

// HandleHistory returns the recorded turns, oldest first.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	s, ok := common.LookupSession(r, h.store)
	if !ok {
		common.WriteJSON(w, http.StatusOK, HistoryResponse{Turns: []llm.Turn{}})
		return
	}
	common.WriteJSON(w, http.StatusOK, HistoryResponse{SessionID: s.ID, Turns: s.ChatHistory()})
}

// HandleReset forgets the conversation; the next message starts a new one.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if s, ok := common.LookupSession(r, h.store); ok {
		s.ResetChat()
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeChatError(w http.ResponseWriter, err error) {
	fmt.Printf("[CHAT] turn failed: %v\n", err)

	var rse *llm.RemoteServiceError
	switch {
	case errors.As(err, &rse):
		common.WriteError(w, http.StatusBadGateway, string(rse.Kind), rse.UserMessage())
	case errors.Is(err, session.ErrSessionClosed):
		common.WriteSessionError(w, err)
	default:
		common.WriteError(w, http.StatusBadGateway, string(llm.KindService), llm.UserMessage(err))
	}
}
