package analysis

import (
	"errors"
	"fmt"
)

// Hard failures: input and extraction problems the service cannot paper over.
// These map to client-facing errors and abort the run without storing a record.
var (
	// ErrNoInput indicates no file or text was supplied.
	ErrNoInput = errors.New("no file or text provided")

	// ErrUnsupportedMediaType indicates the declared media type is not allowed.
	ErrUnsupportedMediaType = errors.New("unsupported file type (allowed: PDF, DOC, DOCX, JPEG, PNG)")

	// ErrNoExtractableText indicates extraction yielded empty or too-short text.
	ErrNoExtractableText = errors.New("no readable text found in the document - ensure the file is not a blank scan")

	// ErrNotFound indicates the requested analysis is absent from the store
	// (evicted or never existed).
	ErrNotFound = errors.New("analysis not found")
)

// ExtractionError wraps a library-level extraction failure with a
// human-readable reason. The underlying cause is kept for server-side logs
// only and never reaches the client.
type ExtractionError struct {
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text: %s", e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// NewExtractionError builds an ExtractionError around cause.
func NewExtractionError(reason string, cause error) error {
	return &ExtractionError{Reason: reason, Err: cause}
}

// ReasoningError wraps a transport, auth, timeout, or provider-side failure
// from the external reasoning service. The orchestrator downgrades it to the
// fallback result; it never reaches the caller as a hard error.
type ReasoningError struct {
	Err error
}

func (e *ReasoningError) Error() string {
	return fmt.Sprintf("reasoning service failed: %v", e.Err)
}

func (e *ReasoningError) Unwrap() error { return e.Err }
