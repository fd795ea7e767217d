package calc

import (
	"strings"
)

// ReferenceKind names a line item the calculations depend on.
type ReferenceKind string

const (
	RefTotalAssets        ReferenceKind = "total_assets"
	RefCurrentAssets      ReferenceKind = "current_assets"
	RefCurrentLiabilities ReferenceKind = "current_liabilities"
)

// LabelPolicy maps each reference kind to the label fragments that identify it.
//
// Matching is a case-insensitive (Unicode) substring test. Rows are scanned in
// statement order and the first row containing any of the aliases wins; the
// alias order only matters for reporting which alias matched. Beware that
// substring matching is loose: "NON-CURRENT ASSETS" contains "CURRENT ASSETS".
// Such collisions are not corrected, they are reported through
// ReferenceMatch.Count.
type LabelPolicy struct {
	Aliases map[ReferenceKind][]string
}

// DefaultLabelPolicy knows the English labels and the Vietnamese labels used by
// local balance-sheet templates.
var DefaultLabelPolicy = LabelPolicy{
	Aliases: map[ReferenceKind][]string{
		RefTotalAssets:        {"TOTAL ASSETS", "TỔNG CỘNG TÀI SẢN"},
		RefCurrentAssets:      {"CURRENT ASSETS", "TÀI SẢN NGẮN HẠN"},
		RefCurrentLiabilities: {"CURRENT LIABILITIES", "NỢ NGẮN HẠN"},
	},
}

// WithAliases returns a copy of the policy with extra aliases appended for the
// given kind. The receiver is not modified.
func (p LabelPolicy) WithAliases(kind ReferenceKind, aliases ...string) LabelPolicy {
	out := LabelPolicy{Aliases: make(map[ReferenceKind][]string, len(p.Aliases)+1)}
	for k, v := range p.Aliases {
		out.Aliases[k] = append([]string(nil), v...)
	}
	for _, a := range aliases {
		if strings.TrimSpace(a) == "" {
			continue
		}
		out.Aliases[kind] = append(out.Aliases[kind], a)
	}
	return out
}

// Matches reports whether label identifies the given reference kind.
func (p LabelPolicy) Matches(kind ReferenceKind, label string) bool {
	upper := strings.ToUpper(label)
	for _, alias := range p.Aliases[kind] {
		if alias == "" {
			continue
		}
		if strings.Contains(upper, strings.ToUpper(alias)) {
			return true
		}
	}
	return false
}

// Match finds the first row identifying kind and counts every matching row.
func (p LabelPolicy) Match(rows []StatementRow, kind ReferenceKind) ReferenceMatch {
	m := ReferenceMatch{Kind: kind, Index: -1}
	for i, row := range rows {
		if !p.Matches(kind, row.Label) {
			continue
		}
		if m.Index < 0 {
			m.Index = i
			m.Label = row.Label
		}
		m.Count++
	}
	return m
}

// MatchAll runs Match for every reference kind in a fixed order.
func (p LabelPolicy) MatchAll(rows []StatementRow) []ReferenceMatch {
	kinds := []ReferenceKind{RefTotalAssets, RefCurrentAssets, RefCurrentLiabilities}
	matches := make([]ReferenceMatch, 0, len(kinds))
	for _, k := range kinds {
		matches = append(matches, p.Match(rows, k))
	}
	return matches
}
