package resolver

import "errors"

var (
	// ErrUnparseableReference means the input matched neither the full
	// citation grammar nor a resolvable book name.
	ErrUnparseableReference = errors.New("could not understand reference")

	// ErrVerseNotFound means the reference parsed fine but the chosen
	// source has no text for it.
	ErrVerseNotFound = errors.New("verse not found")

	// ErrUpstreamTimeout means the remote source did not answer within
	// its deadline.
	ErrUpstreamTimeout = errors.New("verse source timed out")

	// ErrUpstreamFailed means the remote source answered with an error
	// or unusable payload.
	ErrUpstreamFailed = errors.New("verse source request failed")

	// ErrDatasetUnavailable means the local dataset could not be
	// loaded. Transient: the next request retries the load.
	ErrDatasetUnavailable = errors.New("verse dataset unavailable")
)
