package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statement_insight/pkg/core/agent"
	"statement_insight/pkg/core/analysis"
	"statement_insight/pkg/core/calc"
	"statement_insight/pkg/core/llm"
	"statement_insight/pkg/core/prompt"
)

type fakeGenerator struct {
	reply   string
	err     error
	feature string
	prompt  string
	system  string
}

func (f *fakeGenerator) ExecutePrompt(ctx context.Context, agentType, rawPrompt, rawSystemPrompt string, options map[string]interface{}) (string, error) {
	f.feature, f.prompt, f.system = agentType, rawPrompt, rawSystemPrompt
	return f.reply, f.err
}

func analyze(t *testing.T, rows []calc.StatementRow) *analysis.StatementAnalysis {
	t.Helper()
	a, err := analysis.NewAnalysisEngine().Analyze("bs.xlsx", rows)
	require.NoError(t, err)
	return a
}

func fullStatement(t *testing.T) *analysis.StatementAnalysis {
	return analyze(t, []calc.StatementRow{
		{Label: "TOTAL ASSETS", PriorValue: 1000, CurrentValue: 1200},
		{Label: "CURRENT ASSETS", PriorValue: 400, CurrentValue: 600},
		{Label: "CURRENT LIABILITIES", PriorValue: 200, CurrentValue: 300},
	})
}

func TestBuildSummary(t *testing.T) {
	s := BuildSummary(fullStatement(t))

	assert.Contains(t, s, "| TOTAL ASSETS | 1,000 | 1,200 | 20.00% | 100.00% | 100.00% |")
	assert.Contains(t, s, "| Current assets growth (%) | 50.00% |")
	assert.Contains(t, s, "| Current ratio (prior year) | 2.00 |")
	assert.Contains(t, s, "| Current ratio (current year) | 2.00 |")
}

func TestBuildSummary_NotAvailable(t *testing.T) {
	s := BuildSummary(analyze(t, []calc.StatementRow{{Label: "TOTAL ASSETS", PriorValue: 1, CurrentValue: 2}}))

	assert.Contains(t, s, "| Current assets growth (%) | N/A |")
	assert.Contains(t, s, "| Current ratio (prior year) | N/A |")
	assert.Contains(t, s, "| Current ratio (current year) | N/A |")
}

func TestCommentary_Success(t *testing.T) {
	gen := &fakeGenerator{reply: "**Growth** was strong.\n\nLiquidity is stable."}
	res := NewService(gen, prompt.NewRegistry()).Commentary(context.Background(), fullStatement(t))

	require.False(t, res.Failed(), res.Error)
	assert.Equal(t, gen.reply, res.Text)
	assert.Contains(t, res.HTML, "<strong>Growth</strong>")

	assert.Equal(t, agent.FeatureNarrative, gen.feature)
	assert.Contains(t, gen.system, "financial analyst")
	assert.Contains(t, gen.prompt, "current liquidity")
	assert.Contains(t, gen.prompt, "| CURRENT ASSETS | 400 | 600 | 50.00% | 40.00% | 50.00% |")
}

func TestCommentary_FailuresBecomeMessages(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
		kind llm.ErrorKind
		msg  string
	}{
		{
			name: "missing key",
			gen:  &fakeGenerator{err: &llm.RemoteServiceError{Provider: "gemini", Kind: llm.KindCredentialMissing}},
			kind: llm.KindCredentialMissing,
			msg:  "no API key",
		},
		{
			name: "quota",
			gen:  &fakeGenerator{err: &llm.RemoteServiceError{Provider: "gemini", Kind: llm.KindQuotaExceeded}},
			kind: llm.KindQuotaExceeded,
			msg:  "quota",
		},
		{
			name: "blank reply",
			gen:  &fakeGenerator{reply: "  \n"},
			kind: llm.KindEmptyResponse,
			msg:  "empty response",
		},
		{
			name: "unclassified",
			gen:  &fakeGenerator{err: errors.New("provider gemini not found")},
			msg:  "AI request failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewService(tt.gen, prompt.NewRegistry()).Commentary(context.Background(), fullStatement(t))
			require.True(t, res.Failed())
			assert.Empty(t, res.Text)
			assert.Equal(t, tt.kind, res.Kind)
			assert.True(t, strings.Contains(res.Error, tt.msg), "message %q", res.Error)
		})
	}
}
