package report

import (
	"statement_insight/pkg/core/analysis"
	"statement_insight/pkg/core/calc"
)

// Column describes one display column. Columns are always emitted in the
// same order.
type Column struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Format string `json:"format"` // "text", "amount" or "percent"
}

// Columns is the fixed display order of the enriched table.
var Columns = []Column{
	{Key: "label", Title: "Line item", Format: "text"},
	{Key: "prior_value", Title: "Prior year", Format: "amount"},
	{Key: "current_value", Title: "Current year", Format: "amount"},
	{Key: "growth_pct", Title: "Growth (%)", Format: "percent"},
	{Key: "prior_share_pct", Title: "Prior-year share (%)", Format: "percent"},
	{Key: "current_share_pct", Title: "Current-year share (%)", Format: "percent"},
}

// TableRow carries both the formatted cells and the raw numbers.
type TableRow struct {
	Cells []string          `json:"cells"`
	Raw   calc.StatementRow `json:"raw"`
}

// Table is the payload for the tabular display.
type Table struct {
	Columns []Column   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// LiquiditySummary is the payload for the two current-ratio metrics.
type LiquiditySummary struct {
	Available bool   `json:"available"`
	Prior     string `json:"prior"`
	Current   string `json:"current"`
	Delta     string `json:"delta"`
}

// View bundles everything the rendering surface needs for one statement.
type View struct {
	Source    string           `json:"source"`
	Table     Table            `json:"table"`
	Liquidity LiquiditySummary `json:"liquidity"`
	Warnings  []string         `json:"warnings,omitempty"`
}

// FormatRow renders one enriched row in column order.
func FormatRow(r calc.StatementRow) []string {
	return []string{
		r.Label,
		FormatAmount(r.PriorValue),
		FormatAmount(r.CurrentValue),
		FormatPercent(r.GrowthPct),
		FormatPercent(r.PriorSharePct),
		FormatPercent(r.CurrentSharePct),
	}
}

// BuildTable formats the enriched rows.
func BuildTable(rows []calc.StatementRow) Table {
	t := Table{Columns: Columns, Rows: make([]TableRow, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, TableRow{Cells: FormatRow(r), Raw: r})
	}
	return t
}

// BuildLiquidity formats the current ratio, or N/A placeholders.
func BuildLiquidity(c calc.CurrentRatio) LiquiditySummary {
	if !c.Available {
		return LiquiditySummary{Prior: NotAvailable, Current: NotAvailable, Delta: NotAvailable}
	}
	return LiquiditySummary{
		Available: true,
		Prior:     FormatRatio(c.Prior),
		Current:   FormatRatio(c.Current),
		Delta:     FormatRatio(c.Delta()),
	}
}

// BuildView assembles the display payload for an analysis.
func BuildView(a *analysis.StatementAnalysis) View {
	return View{
		Source:    a.SourceName,
		Table:     BuildTable(a.Rows),
		Liquidity: BuildLiquidity(a.Liquidity),
		Warnings:  a.Warnings,
	}
}
