package calc

// ComputeCurrentRatio computes current assets / current liabilities for both
// periods using DefaultLabelPolicy.
func ComputeCurrentRatio(rows []StatementRow) CurrentRatio {
	return DefaultLabelPolicy.ComputeCurrentRatio(rows)
}

// ComputeCurrentRatio never fails: a missing current-assets or
// current-liabilities row yields an unavailable ratio for both periods.
func (p LabelPolicy) ComputeCurrentRatio(rows []StatementRow) CurrentRatio {
	assets := p.Match(rows, RefCurrentAssets)
	liabs := p.Match(rows, RefCurrentLiabilities)
	if !assets.Found() || !liabs.Found() {
		return CurrentRatio{}
	}

	a, l := rows[assets.Index], rows[liabs.Index]
	return CurrentRatio{
		Prior:     saturate(a.PriorValue / safeDivisor(l.PriorValue)),
		Current:   saturate(a.CurrentValue / safeDivisor(l.CurrentValue)),
		Available: true,
	}
}
