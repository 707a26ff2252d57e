// Package dataset holds the shared, clone-cheap data model: imputed
// matrices, primary and replicate weights, and the grouping spec that
// the builder and replication engine operate over.
package dataset

import "errors"

// Sentinel errors surfaced by Validate and by the estimator option
// parsers. Callers should use errors.Is.
var (
	// ErrShapeMismatch covers any violation of the shape invariants in
	// spec.md §3: mismatched M across X/W/R, mismatched N, or an
	// out-of-range column selection.
	ErrShapeMismatch = errors.New("dataset: shape mismatch")
	// ErrEmptyData means no imputations were supplied.
	ErrEmptyData = errors.New("dataset: no data")
	// ErrUnknownOption means the option map contains a key the selected
	// estimator does not recognize.
	ErrUnknownOption = errors.New("dataset: unknown option")
	// ErrBadOptionValue means an option value failed its declared grammar.
	ErrBadOptionValue = errors.New("dataset: invalid option value")
)
