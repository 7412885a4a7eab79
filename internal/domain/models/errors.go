package models

import "fmt"

// InsufficientDataError signals that a calculation has fewer
// observations than it needs. Recoverable per ticker.
type InsufficientDataError struct {
	Op   string
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need %d observations, have %d", e.Op, e.Need, e.Have)
}

// ModelNotFoundError signals a missing pretrained artifact.
type ModelNotFoundError struct {
	Model string
	Path  string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("%s: pretrained model not found at %s", e.Model, e.Path)
}

// ModelFitError signals numerical non-convergence during model fitting.
type ModelFitError struct {
	Model  string
	Reason string
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("%s: fit failed: %s", e.Model, e.Reason)
}

// NarrativeServiceError signals that the external text-generation call
// could not produce a result. Always recovered via the rule-based
// fallback; never surfaced to API callers.
type NarrativeServiceError struct {
	Reason   string
	Attempts int
}

func (e *NarrativeServiceError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("narrative service: %s after %d attempts", e.Reason, e.Attempts)
	}
	return fmt.Sprintf("narrative service: %s", e.Reason)
}
