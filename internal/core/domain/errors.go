package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity or source does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied indicates a source exists but cannot be read due to
	// permissions. The user can fix it.
	ErrAccessDenied = errors.New("access denied")

	// ErrParseFailure indicates malformed frontmatter or a corrupt state file.
	ErrParseFailure = errors.New("parse failure")

	// ErrIOFailure indicates an item could not be read.
	ErrIOFailure = errors.New("i/o failure")

	// ErrExternalService indicates the index, embedding or generation service failed.
	ErrExternalService = errors.New("external service failure")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoUsableSource indicates that no enabled source produced any documents.
	// This is the only indexing failure escalated to the top level.
	ErrNoUsableSource = errors.New("no usable note source")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrUnsupportedType indicates an unknown provider or source name.
	ErrUnsupportedType = errors.New("unsupported type")
)

// FailureKind classifies recoverable failures.
type FailureKind int

const (
	// FailureAccessDenied is a permission problem on a source.
	FailureAccessDenied FailureKind = iota + 1

	// FailureNotFound is a missing source.
	FailureNotFound

	// FailureParse is malformed frontmatter or a corrupt fingerprint file.
	FailureParse

	// FailureIO is an unreadable item.
	FailureIO

	// FailureExternalService is a failed index, embedding or generation call.
	FailureExternalService
)

// String returns the failure kind name.
func (k FailureKind) String() string {
	switch k {
	case FailureAccessDenied:
		return "AccessDenied"
	case FailureNotFound:
		return "NotFound"
	case FailureParse:
		return "ParseFailure"
	case FailureIO:
		return "IOFailure"
	case FailureExternalService:
		return "ExternalServiceFailure"
	default:
		return "Unknown"
	}
}

// Sentinel returns the sentinel error matching the kind.
func (k FailureKind) Sentinel() error {
	switch k {
	case FailureAccessDenied:
		return ErrAccessDenied
	case FailureNotFound:
		return ErrNotFound
	case FailureParse:
		return ErrParseFailure
	case FailureIO:
		return ErrIOFailure
	case FailureExternalService:
		return ErrExternalService
	default:
		return nil
	}
}

// SourceError is the failure variant returned by adapters and the tracker.
// errors.Is matches both the kind's sentinel and the wrapped error.
type SourceError struct {
	// Source names the adapter or store that failed.
	Source string

	// Kind classifies the failure.
	Kind FailureKind

	// Hint is an optional user-facing instruction for fixing the problem.
	Hint string

	// Err is the underlying error.
	Err error
}

// NewSourceError builds a SourceError.
func NewSourceError(source string, kind FailureKind, err error) *SourceError {
	return &SourceError{Source: source, Kind: kind, Err: err}
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the cause.
func (e *SourceError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel := e.Kind.Sentinel(); sentinel != nil {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// KindOf reports the FailureKind carried by err, if any.
func KindOf(err error) (FailureKind, bool) {
	var se *SourceError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
