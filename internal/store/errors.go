package store

import (
	"errors"
)

// Sentinel errors returned by store operations. Callers classify
// failures with errors.Is; the message carries the offending id.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrValidation        = errors.New("validation failed")
)

// BatchFailure records why a single item in a batch operation failed.
type BatchFailure struct {
	ItemID string `json:"itemId"`
	Reason string `json:"reason"`
}

// BatchResult is the aggregate outcome of a batch status change. Batch
// operations are fail-soft: one failing item never blocks the rest.
type BatchResult struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

// AllOK reports whether every item in the batch succeeded.
func (r *BatchResult) AllOK() bool {
	return len(r.Failed) == 0
}
