package utils

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// CleanMarkdown strips surrounding whitespace and an outer code fence that
// models sometimes wrap their whole answer in.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") && len(cleaned) >= 6 {
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "```")
		// Drop an info string such as "markdown" on the opening fence
		if nl := strings.IndexByte(cleaned, '\n'); nl >= 0 && !strings.ContainsAny(cleaned[:nl], " \t") {
			cleaned = cleaned[nl+1:]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	return cleaned
}

// RenderMarkdownHTML converts a model reply to HTML for display. Raw HTML in
// the input is not passed through (goldmark's default is to omit it).
func RenderMarkdownHTML(input string) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(input), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
