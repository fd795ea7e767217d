package analysis

import (
	"errors"
	"fmt"
	"time"

	"statement_insight/pkg/core/calc"
)

// ErrEmptyStatement is returned when there are no rows to analyze.
var ErrEmptyStatement = errors.New("statement has no rows")

// AnalysisEngine runs the ratio calculations over an uploaded statement.
type AnalysisEngine struct {
	policy calc.LabelPolicy
	now    func() time.Time
}

// NewAnalysisEngine creates an engine using the default label policy.
func NewAnalysisEngine() *AnalysisEngine {
	return NewAnalysisEngineWithPolicy(calc.DefaultLabelPolicy)
}

// NewAnalysisEngineWithPolicy creates an engine with a custom label policy.
func NewAnalysisEngineWithPolicy(policy calc.LabelPolicy) *AnalysisEngine {
	return &AnalysisEngine{policy: policy, now: time.Now}
}

// Analyze enriches the rows and derives the liquidity metric.
// A missing total-assets row aborts the analysis; missing liquidity rows only
// produce a warning.
func (e *AnalysisEngine) Analyze(source string, rows []calc.StatementRow) (*StatementAnalysis, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyStatement
	}

	// A. Growth + Common-Size (fatal on missing reference row)
	enriched, err := e.policy.Enrich(rows)
	if err != nil {
		return nil, fmt.Errorf("enrich %s: %w", source, err)
	}

	result := &StatementAnalysis{
		SourceName: source,
		AnalyzedAt: e.now(),
		Rows:       enriched,
		Liquidity:  e.policy.ComputeCurrentRatio(enriched),
		Matches:    e.policy.MatchAll(enriched),
	}

	// B. Diagnostics
	for _, m := range result.Matches {
		switch {
		case !m.Found() && m.Kind != calc.RefTotalAssets:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%v: no %s row, current ratio unavailable", calc.ErrMissingLiquidityRow, m.Kind))
		case m.Ambiguous():
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%d rows match %s, using the first one (%q)", m.Count, m.Kind, m.Label))
		}

		// C. Headline growth for the narrative
		if m.Kind == calc.RefCurrentAssets && m.Found() {
			g := enriched[m.Index].GrowthPct
			result.CurrentAssetsGrowth = &g
		}
	}

	for _, w := range result.Warnings {
		fmt.Printf("[ANALYSIS] %s: %s\n", source, w)
	}

	return result, nil
}
