package prompt

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the loaded prompts. Lookups fall back to the built-in
// defaults when a prompt was not loaded from disk.
type Registry struct {
	prompts map[string]*PromptTemplate
	mu      sync.RWMutex
}

var globalRegistry *Registry
var once sync.Once

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{prompts: make(map[string]*PromptTemplate)}
}

// Get returns the global registry singleton
func Get() *Registry {
	once.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}

// Register adds a prompt template to the registry, replacing any prompt with
// the same ID.
func (r *Registry) Register(pt *PromptTemplate) error {
	if pt.ID == "" {
		return fmt.Errorf("prompt ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prompts[pt.ID] = pt
	return nil
}

// GetPrompt retrieves a prompt by ID, loaded prompts first, then built-ins.
func (r *Registry) GetPrompt(id string) (*PromptTemplate, error) {
	r.mu.RLock()
	p, ok := r.prompts[id]
	r.mu.RUnlock()

	if ok {
		return p, nil
	}
	if p, ok := builtins[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("prompt not found: %s", id)
}

// GetSystemPrompt is a convenience method to get only the system prompt string
func (r *Registry) GetSystemPrompt(id string) (string, error) {
	pt, err := r.GetPrompt(id)
	if err != nil {
		return "", err
	}
	return pt.SystemPrompt, nil
}

// Render looks up a prompt and executes its user template with vars.
func (r *Registry) Render(id string, vars map[string]interface{}) (system, user string, err error) {
	pt, err := r.GetPrompt(id)
	if err != nil {
		return "", "", err
	}
	ctx := NewContext()
	for k, v := range vars {
		ctx.Set(k, v)
	}
	user, err = RenderUserPrompt(pt, ctx)
	if err != nil {
		return "", "", fmt.Errorf("render %s: %w", id, err)
	}
	return pt.SystemPrompt, user, nil
}

// ListPrompts returns all registered prompt IDs in sorted order
func (r *Registry) ListPrompts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.prompts))
	for id := range r.prompts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered prompts
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.prompts)
}

// Clear removes all registered prompts; built-ins stay available.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = make(map[string]*PromptTemplate)
}
