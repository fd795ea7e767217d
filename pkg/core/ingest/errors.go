package ingest

import (
	"errors"
	"fmt"
)

// ErrStructuralInput is matched (errors.Is) by *StructuralInputError.
var ErrStructuralInput = errors.New("structural input error")

// StructuralInputError reports an upload that does not have the expected
// three-column shape or cannot be read at all. Processing of the upload stops.
type StructuralInputError struct {
	Source string
	Reason string
	Err    error
}

func (e *StructuralInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Reason)
}

func (e *StructuralInputError) Unwrap() error { return e.Err }

func (e *StructuralInputError) Is(target error) bool {
	return target == ErrStructuralInput
}

func structural(source, reason string, err error) error {
	return &StructuralInputError{Source: source, Reason: reason, Err: err}
}
