package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"statement_insight/pkg/core/utils"
)

// LoadFromDirectory loads prompt files into the global registry.
// Expected structure:
//
//	baseDir/
//	  prompts/
//	    narrative/
//	      commentary.json
//	    chat/
//	      assistant.hjson
func LoadFromDirectory(baseDir string) error {
	return Get().LoadDirectory(baseDir)
}

// LoadDirectory loads baseDir/prompts into r.
func (r *Registry) LoadDirectory(baseDir string) error {
	promptDir := filepath.Join(baseDir, "prompts")
	if err := loadPrompts(r, promptDir); err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}

	fmt.Printf("[prompt.Loader] Loaded %d prompts from %s\n", r.Count(), baseDir)
	return nil
}

// loadPrompts recursively loads all .json and .hjson files from dir
func loadPrompts(r *Registry, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("prompts directory not found: %s", dir)
	}

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		ext := filepath.Ext(path)
		if info.IsDir() || (ext != ".json" && ext != ".hjson") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		// Hjson lets multi-line prompts be written without escaping.
		if ext == ".hjson" {
			converted, err := utils.ParseHJSON(string(data))
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
			data = []byte(converted)
		}

		var pt PromptTemplate
		if err := json.Unmarshal(data, &pt); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}

		// Auto-generate ID from path if not specified
		if pt.ID == "" {
			pt.ID = generateIDFromPath(path, dir)
		}

		// Auto-detect category from folder name if not specified
		if pt.Category == "" {
			pt.Category = detectCategory(path, dir)
		}

		if err := r.Register(&pt); err != nil {
			return fmt.Errorf("failed to register %s: %w", pt.ID, err)
		}

		return nil
	})
}

// generateIDFromPath creates a prompt ID from the file path
// e.g., "prompts/narrative/commentary.json" -> "narrative.commentary"
func generateIDFromPath(path string, baseDir string) string {
	relPath, _ := filepath.Rel(baseDir, path)
	relPath = strings.TrimSuffix(relPath, filepath.Ext(relPath))
	relPath = strings.ReplaceAll(relPath, string(filepath.Separator), ".")
	return relPath
}

// detectCategory extracts the category from the folder structure
func detectCategory(path string, baseDir string) string {
	relPath, _ := filepath.Rel(baseDir, path)
	parts := strings.Split(relPath, string(filepath.Separator))
	if len(parts) > 1 {
		return parts[0]
	}
	return "default"
}

// RenderUserPrompt executes the user prompt template with the given context.
// Missing variables fall back to their declared defaults.
func RenderUserPrompt(pt *PromptTemplate, ctx *PromptExecutionContext) (string, error) {
	if pt.UserPromptTmpl == "" {
		return "", nil
	}

	vars := make(map[string]interface{}, len(pt.Variables))
	for _, v := range pt.Variables {
		if _, ok := ctx.Variables[v.Name]; !ok {
			if v.Required && v.Default == "" {
				return "", fmt.Errorf("missing required variable %s", v.Name)
			}
			vars[v.Name] = v.Default
		}
	}
	for k, v := range ctx.Variables {
		vars[k] = v
	}

	tmpl, err := template.New(pt.ID).Parse(pt.UserPromptTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
