package inverted

import "errors"

// Error taxonomy for the index core. Callers distinguish outcomes with
// errors.Is.
var (
	// ErrInvalidInput signals a caller-supplied argument that violates a
	// precondition: an empty URL, or a nil stop-word source. Out-of-range
	// ids are reported as ErrNotFound by the lookups and ignored by AddToken.
	ErrInvalidInput = errors.New("inverted: invalid input")

	// ErrResourceError signals an allocation failure, or a failing
	// stop-words source during LoadStopWords.
	ErrResourceError = errors.New("inverted: resource error")

	// ErrNotFound signals a lookup that found nothing. This is a normal,
	// expected outcome, not a fault.
	ErrNotFound = errors.New("inverted: not found")

	// ErrDuplicateURL is the Rejected sub-reason for a URL that matches an
	// already-accepted article, case-insensitively.
	ErrDuplicateURL = errors.New("inverted: duplicate url")

	// ErrDuplicateTitleServer is the Rejected sub-reason for a (server,
	// title) pair that matches an already-accepted article.
	ErrDuplicateTitleServer = errors.New("inverted: duplicate title on server")

	// ErrIndexClosed signals an operation attempted after Close.
	ErrIndexClosed = errors.New("inverted: index closed")
)
