package document

import "errors"

// Errors returned by document operations.
var (
	// ErrReadOnly indicates an edit was attempted on a read-only document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrNotFound indicates a document was not found.
	ErrNotFound = errors.New("document not found")

	// ErrNoActiveDocument indicates no document has focus.
	ErrNoActiveDocument = errors.New("no active document")
)
