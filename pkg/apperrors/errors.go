package apperrors

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrInputInvalid indicates malformed learner input, rejected before any
	// collaborator call.
	ErrInputInvalid = errors.New("invalid learner input")

	// ErrAnalysisUnavailable indicates both the goal-analysis LLM call and its
	// heuristic fallback failed. Nothing downstream runs when this is returned.
	ErrAnalysisUnavailable = errors.New("goal analysis unavailable")

	// ErrPersistenceFailed indicates the pathway was computed but could not be
	// stored. The computed artifact is returned alongside this error so callers
	// can retry persistence without recomputation.
	ErrPersistenceFailed = errors.New("pathway persistence failed")
)
