package calc

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingReferenceRow is matched (errors.Is) by *MissingReferenceRowError.
	ErrMissingReferenceRow = errors.New("missing reference row")

	// ErrMissingLiquidityRow marks the non-fatal absence of a current-assets or
	// current-liabilities row.
	ErrMissingLiquidityRow = errors.New("missing liquidity row")
)

// MissingReferenceRowError is returned by Enrich when no row identifies total
// assets. Composition percentages cannot be computed without it.
type MissingReferenceRowError struct {
	Kind    ReferenceKind
	Aliases []string
}

func (e *MissingReferenceRowError) Error() string {
	return fmt.Sprintf("no line item matching %q found (%s)", e.Aliases, e.Kind)
}

func (e *MissingReferenceRowError) Is(target error) bool {
	return target == ErrMissingReferenceRow
}
