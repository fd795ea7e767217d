package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRegistry_BuiltinFallback(t *testing.T) {
	r := NewRegistry()

	sys, user, err := r.Render(PromptIDs.NarrativeCommentary, map[string]interface{}{"Data": "| a | b |"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(sys, "financial analyst") {
		t.Errorf("Expected analyst system prompt, got %q", sys)
	}
	if !strings.Contains(user, "3-4 paragraphs") || !strings.Contains(user, "| a | b |") {
		t.Errorf("Unexpected user prompt: %q", user)
	}

	if _, err := r.GetPrompt("does.not.exist"); err == nil {
		t.Error("Expected error for unknown prompt")
	}
}

func TestRegistry_RequiredVariable(t *testing.T) {
	r := NewRegistry()
	if _, _, err := r.Render(PromptIDs.NarrativeCommentary, nil); err == nil {
		t.Error("Expected error when Data is missing")
	}
}

func TestRegistry_OverrideAndClear(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&PromptTemplate{ID: PromptIDs.ChatAssistant, SystemPrompt: "custom"}); err != nil {
		t.Fatal(err)
	}
	if got, _ := r.GetSystemPrompt(PromptIDs.ChatAssistant); got != "custom" {
		t.Errorf("Expected override, got %q", got)
	}

	r.Clear()
	if got, _ := r.GetSystemPrompt(PromptIDs.ChatAssistant); got == "custom" {
		t.Error("Expected built-in after Clear")
	}
	if err := r.Register(&PromptTemplate{}); err == nil {
		t.Error("Expected error for empty ID")
	}
}

func TestLoadDirectory(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "prompts", "narrative")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	jsonFile := `{"system_prompt": "json system", "user_prompt_template": "Data: {{.Data}}"}`
	if err := os.WriteFile(filepath.Join(dir, "commentary.json"), []byte(jsonFile), 0o644); err != nil {
		t.Fatal(err)
	}
	hjsonFile := "{\n  # comments are allowed\n  id: chat.assistant\n  system_prompt: hjson system\n}\n"
	if err := os.WriteFile(filepath.Join(base, "prompts", "assistant.hjson"), []byte(hjsonFile), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadDirectory(base); err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if r.Count() != 2 {
		t.Fatalf("Expected 2 prompts, got %d: %v", r.Count(), r.ListPrompts())
	}

	pt, err := r.GetPrompt("narrative.commentary")
	if err != nil {
		t.Fatal(err)
	}
	if pt.Category != "narrative" || pt.SystemPrompt != "json system" {
		t.Errorf("Unexpected prompt: %+v", pt)
	}

	if got, _ := r.GetSystemPrompt("chat.assistant"); got != "hjson system" {
		t.Errorf("Expected hjson prompt, got %q", got)
	}
}

func TestLoadDirectory_Missing(t *testing.T) {
	if err := NewRegistry().LoadDirectory(t.TempDir()); err == nil {
		t.Error("Expected error for missing prompts directory")
	}
}

func TestGenerateIDFromPath(t *testing.T) {
	base := filepath.Join("res", "prompts")
	got := generateIDFromPath(filepath.Join(base, "narrative", "commentary.hjson"), base)
	if got != "narrative.commentary" {
		t.Errorf("Expected narrative.commentary, got %s", got)
	}
	if c := detectCategory(filepath.Join(base, "top.json"), base); c != "default" {
		t.Errorf("Expected default category, got %s", c)
	}
}
