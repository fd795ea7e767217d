package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"statement_insight/pkg/api"
	"statement_insight/pkg/core/agent"
	"statement_insight/pkg/core/analysis"
	"statement_insight/pkg/core/config"
	"statement_insight/pkg/core/prompt"
	"statement_insight/pkg/core/session"
)

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	// Initialize Prompt Library
	// Determine resources path (relative to executable or working directory)
	resourcesPath := cfg.Resources
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
		fmt.Println("  Falling back to built-in prompts")
	}

	agentMgr := agent.NewManager(cfg.AI)
	if !agentMgr.Available(agent.FeatureNarrative) {
		fmt.Printf("[WARNING] no API key for provider %q: commentary and chat are disabled, uploads still work\n",
			agentMgr.ProviderNameFor(agent.FeatureNarrative))
	}

	router := api.NewRouter(api.Deps{
		Store:          session.NewStore(cfg.Server.SessionIdleTTL),
		Engine:         analysis.NewAnalysisEngineWithPolicy(cfg.LabelPolicy()),
		Agents:         agentMgr,
		Prompts:        prompt.Get(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	fmt.Printf("API server starting on %s...\n", cfg.Server.Addr)
	fmt.Println("  - POST   /api/statement/upload")
	fmt.Println("  - POST   /api/statement/rows")
	fmt.Println("  - GET    /api/statement")
	fmt.Println("  - POST   /api/narrative")
	fmt.Println("  - POST   /api/chat/message")
	fmt.Println("  - GET    /api/chat/history")
	fmt.Println("  - DELETE /api/session")
	fmt.Println("  - GET    /api/config")
	fmt.Println("  - POST   /api/config/switch")

	if err := http.ListenAndServe(cfg.Server.Addr, router); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
