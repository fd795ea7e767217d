// Package calc provides the deterministic ratio calculations for an uploaded
// financial statement: growth, common-size composition and the current ratio.
// Nothing in this package performs I/O or holds session state.
package calc

import "math"

// Epsilon replaces a zero denominator so that divisions saturate to a large
// finite value instead of failing.
const Epsilon = 1e-9

// =============================================================================
// STATEMENT DATA STRUCTURES
// =============================================================================

// StatementRow is one line item of the uploaded statement.
// Label, PriorValue and CurrentValue come from the input (already coerced to
// numbers); the three percentage fields are filled in by Enrich.
type StatementRow struct {
	Label        string  `json:"label"`
	PriorValue   float64 `json:"prior_value"`
	CurrentValue float64 `json:"current_value"`

	GrowthPct       float64 `json:"growth_pct"`        // (current - prior) / prior * 100
	PriorSharePct   float64 `json:"prior_share_pct"`   // prior / total assets (prior) * 100
	CurrentSharePct float64 `json:"current_share_pct"` // current / total assets (current) * 100
}

// CurrentRatio is current assets / current liabilities for both periods.
// When either reference row is missing, Available is false and both values
// are zero.
type CurrentRatio struct {
	Prior     float64 `json:"prior"`
	Current   float64 `json:"current"`
	Available bool    `json:"available"`
}

// Delta is the change of the ratio between the two periods.
func (c CurrentRatio) Delta() float64 {
	return saturate(c.Current - c.Prior)
}

// ReferenceMatch records which row satisfied a reference label.
// Index is -1 when no row matched. Count > 1 means the label was ambiguous
// and the first row (statement order) was used.
type ReferenceMatch struct {
	Kind  ReferenceKind `json:"kind"`
	Index int           `json:"index"`
	Label string        `json:"label,omitempty"`
	Count int           `json:"count"`
}

// Found reports whether a row matched.
func (m ReferenceMatch) Found() bool {
	return m.Index >= 0
}

// Ambiguous reports whether more than one row matched.
func (m ReferenceMatch) Ambiguous() bool {
	return m.Count > 1
}

// safeDivisor substitutes Epsilon for a zero denominator.
func safeDivisor(v float64) float64 {
	if v == 0 {
		return Epsilon
	}
	return v
}

// saturate keeps a result finite: an overflow to ±Inf becomes
// ±math.MaxFloat64 and NaN becomes 0.
func saturate(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	}
	return v
}
