// Package narrative asks the configured text-generation backend for a
// written commentary on an analyzed statement.
package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"statement_insight/pkg/core/agent"
	"statement_insight/pkg/core/analysis"
	"statement_insight/pkg/core/llm"
	"statement_insight/pkg/core/prompt"
	"statement_insight/pkg/core/report"
	"statement_insight/pkg/core/utils"
)

// Generator sends one prompt for a feature. *agent.Manager implements it.
type Generator interface {
	ExecutePrompt(ctx context.Context, agentType string, rawPrompt string, rawSystemPrompt string, options map[string]interface{}) (string, error)
}

// Result is either the commentary or the message explaining why there is none.
type Result struct {
	Text  string        `json:"text,omitempty"`
	HTML  string        `json:"html,omitempty"`
	Error string        `json:"error,omitempty"`
	Kind  llm.ErrorKind `json:"kind,omitempty"`
}

// Failed reports whether the request produced no commentary.
func (r *Result) Failed() bool { return r.Error != "" }

type Service struct {
	gen     Generator
	prompts *prompt.Registry
}

func NewService(gen Generator, prompts *prompt.Registry) *Service {
	if prompts == nil {
		prompts = prompt.Get()
	}
	return &Service{gen: gen, prompts: prompts}
}

// BuildSummary serializes the analysis into the text block sent to the model:
// the full enriched table followed by the headline indicators.
func BuildSummary(a *analysis.StatementAnalysis) string {
	growth := report.NotAvailable
	if a.CurrentAssetsGrowth != nil {
		growth = report.FormatPercent(*a.CurrentAssetsGrowth)
	}
	liq := report.BuildLiquidity(a.Liquidity)

	var sb strings.Builder
	sb.WriteString("Full analysis table:\n\n")
	sb.WriteString(report.MarkdownTable(a.Rows))
	sb.WriteString("\nHeadline indicators:\n\n")
	sb.WriteString(report.KeyValueTable("Indicator", "Value", [][2]string{
		{"Current assets growth (%)", growth},
		{"Current ratio (prior year)", liq.Prior},
		{"Current ratio (current year)", liq.Current},
	}))
	return sb.String()
}

// Commentary requests the analyst commentary. Failures never escape as
// errors: they are returned as a Result carrying a display message.
func (s *Service) Commentary(ctx context.Context, a *analysis.StatementAnalysis) *Result {
	system, user, err := s.prompts.Render(prompt.PromptIDs.NarrativeCommentary, map[string]interface{}{
		"Data": BuildSummary(a),
	})
	if err != nil {
		return failure(err)
	}

	text, err := s.gen.ExecutePrompt(ctx, agent.FeatureNarrative, user, system, nil)
	if err != nil {
		return failure(err)
	}
	if strings.TrimSpace(text) == "" {
		return failure(&llm.RemoteServiceError{Provider: "narrative", Kind: llm.KindEmptyResponse})
	}

	res := &Result{Text: text}
	if html, err := utils.RenderMarkdownHTML(utils.CleanMarkdown(text)); err == nil {
		res.HTML = html
	} else {
		fmt.Printf("[WARNING] narrative markdown render failed: %v\n", err)
	}
	return res
}

func failure(err error) *Result {
	fmt.Printf("[NARRATIVE] request failed: %v\n", err)

	res := &Result{Error: llm.UserMessage(err)}
	var rse *llm.RemoteServiceError
	if errors.As(err, &rse) {
		res.Kind = rse.Kind
	}
	return res
}
