package domain

import "errors"

var (
	// ErrRetrievalTimeout signals that the search backend did not answer in time.
	ErrRetrievalTimeout = errors.New("retrieval timeout")
	// ErrRetrievalUnavailable signals a failed search backend call.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
	// ErrEmbeddingUnavailable signals an embedding provider failure after the retry budget.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")
	// ErrRateLimited signals a provider-side rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEnvironmentNotFound signals a missing index environment record.
	ErrEnvironmentNotFound = errors.New("index environment not found")
	// ErrDictionaryUnavailable signals a failed dictionary store read.
	ErrDictionaryUnavailable = errors.New("dictionary store unavailable")
)
