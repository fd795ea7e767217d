package calc

// Enrich computes growth and common-size (share of total assets) percentages
// for every row using DefaultLabelPolicy.
func Enrich(rows []StatementRow) ([]StatementRow, error) {
	return DefaultLabelPolicy.Enrich(rows)
}

// Enrich returns a new slice with GrowthPct, PriorSharePct and CurrentSharePct
// filled in. Row order and count are preserved and the input is not modified.
//
// The total-assets row is located with the policy; when it is missing the
// whole enrichment fails with *MissingReferenceRowError and nil rows.
func (p LabelPolicy) Enrich(rows []StatementRow) ([]StatementRow, error) {
	ref := p.Match(rows, RefTotalAssets)
	if !ref.Found() {
		return nil, &MissingReferenceRowError{
			Kind:    RefTotalAssets,
			Aliases: p.Aliases[RefTotalAssets],
		}
	}

	totalPrior := safeDivisor(rows[ref.Index].PriorValue)
	totalCurrent := safeDivisor(rows[ref.Index].CurrentValue)

	out := make([]StatementRow, len(rows))
	for i, row := range rows {
		row.GrowthPct = Growth(row.PriorValue, row.CurrentValue)
		row.PriorSharePct = saturate(row.PriorValue / totalPrior * 100)
		row.CurrentSharePct = saturate(row.CurrentValue / totalCurrent * 100)
		out[i] = row
	}
	return out, nil
}

// Growth is the period-over-period change in percent with a zero-guarded
// prior value. Overflow saturates to ±math.MaxFloat64.
func Growth(prior, current float64) float64 {
	return saturate((current - prior) / safeDivisor(prior) * 100)
}
