package domain

import "errors"

var (
	// ErrMalformedDate marks a row whose date field could not be parsed.
	// Row-level: the row is dropped and counted, the batch continues.
	ErrMalformedDate = errors.New("malformed date")

	// ErrMissingField marks a row lacking a required field.
	ErrMissingField = errors.New("missing required field")

	// ErrZeroVariance marks a constant series or regression column.
	// Column-level: the column yields an empty result, other columns proceed.
	ErrZeroVariance = errors.New("zero variance")

	// ErrNoOverlap marks disjoint date ranges between anomalies and events,
	// or between the event panel and the currency panel.
	ErrNoOverlap = errors.New("no overlapping dates")

	// ErrIncompleteResult marks a missing upstream stage output. Fatal:
	// the assembler refuses to emit a partial report that could be read
	// as "no anomalies found".
	ErrIncompleteResult = errors.New("incomplete pipeline result")
)
