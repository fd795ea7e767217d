// Package api wires the HTTP handlers into a chi router.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"statement_insight/pkg/api/chat"
	"statement_insight/pkg/api/common"
	"statement_insight/pkg/api/config"
	"statement_insight/pkg/api/narrative"
	sessionAPI "statement_insight/pkg/api/session"
	"statement_insight/pkg/api/statement"
	"statement_insight/pkg/core/agent"
	"statement_insight/pkg/core/analysis"
	coreNarrative "statement_insight/pkg/core/narrative"
	"statement_insight/pkg/core/prompt"
	"statement_insight/pkg/core/session"
)

// Deps are the long-lived objects shared by all handlers.
type Deps struct {
	Store          *session.Store
	Engine         *analysis.AnalysisEngine
	Agents         *agent.Manager
	Prompts        *prompt.Registry
	AllowedOrigins []string
}

// NewRouter builds the router with middleware and all routes.
func NewRouter(d Deps) chi.Router {
	if d.Prompts == nil {
		d.Prompts = prompt.Get()
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", common.HeaderSessionID},
		ExposedHeaders: []string{common.HeaderSessionID},
		MaxAge:         300,
	}))

	statementHandler := statement.NewHandler(d.Store, d.Engine)
	narrativeHandler := narrative.NewHandler(d.Store, coreNarrative.NewService(d.Agents, d.Prompts))
	chatHandler := chat.NewHandler(d.Store, d.Agents, d.Prompts)
	sessionHandler := sessionAPI.NewHandler(d.Store)
	configHandler := config.NewHandler(d.Agents)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/statement/upload", statementHandler.HandleUpload)
		r.Post("/statement/rows", statementHandler.HandleRows)
		r.Get("/statement", statementHandler.HandleGet)

		r.Post("/narrative", narrativeHandler.HandleNarrative)

		r.Post("/chat/message", chatHandler.HandleMessage)
		r.Get("/chat/history", chatHandler.HandleHistory)
		r.Delete("/chat/history", chatHandler.HandleReset)

		r.Delete("/session", sessionHandler.HandleDelete)

		r.Get("/config", configHandler.HandleConfig)
		r.Post("/config/switch", configHandler.HandleSwitch)
	})

	return r
}
