package analysis

import (
	"statement_insight/pkg/core/calc"
	"time"
)

// StatementAnalysis is the enriched view of one uploaded statement.
// It is built once per upload and treated as read-only afterwards.
type StatementAnalysis struct {
	SourceName string    `json:"source_name"`
	AnalyzedAt time.Time `json:"analyzed_at"`

	// 1. Rows with growth and common-size percentages, in statement order
	Rows []calc.StatementRow `json:"rows"`

	// 2. Liquidity (current ratio); Available=false when the rows are missing
	Liquidity calc.CurrentRatio `json:"liquidity"`

	// 3. Headline growth of the current-assets line, nil when absent
	CurrentAssetsGrowth *float64 `json:"current_assets_growth,omitempty"`

	// 4. Diagnostics
	Matches  []calc.ReferenceMatch `json:"matches"`
	Warnings []string              `json:"warnings,omitempty"`
}

// HasLiquidity reports whether the current ratio could be computed.
func (a *StatementAnalysis) HasLiquidity() bool {
	return a != nil && a.Liquidity.Available
}
