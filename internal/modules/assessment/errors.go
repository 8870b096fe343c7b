package assessment

import "errors"

// Engine error taxonomy. Callers classify with errors.Is; all wrapped errors
// carry the concrete reason in their message.
var (
	// ErrInvalidInput marks malformed or impossible facts (deposit <= 0,
	// date in the future, negative debt). Non-recoverable client error.
	ErrInvalidInput = errors.New("invalid property facts")

	// ErrUnverifiedDocuments is returned when the upstream cross-document
	// check did not confirm both documents describe the same property.
	// The engine refuses to score unverified fact sets.
	ErrUnverifiedDocuments = errors.New("documents not verified as matching")
)
