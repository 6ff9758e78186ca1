package domain

import "errors"

// Classification failures. Every one of them sends the pipeline to local
// simulation; none is surfaced to the user as fatal.
var (
	ErrRemoteStatus          = errors.New("classifier returned a non-success status")
	ErrMalformedResult       = errors.New("classifier returned a malformed payload")
	ErrUnrecognizedResult    = errors.New("result has neither prediction nor status")
	ErrMissingConfidence     = errors.New("result has no confidence")
	ErrRateLimited           = errors.New("classifier rate limit reached")
	ErrClassifierUnavailable = errors.New("classifier endpoint not configured")
)

// ErrInvalidImage reports an upload that cannot be classified at all.
var ErrInvalidImage = errors.New("invalid image")
