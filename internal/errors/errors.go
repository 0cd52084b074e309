package errors

import "errors"

// This package defines a centralized set of sentinel errors for the application.
// Using sentinel errors allows services to return specific, recognizable error types
// without coupling them to implementation details like HTTP status codes. The API
// layer can then use `errors.Is()` to check for these specific errors and map
// them to the correct HTTP responses.

var (
	// ErrValidation signifies that input data provided by a client failed
	// business rule validation (e.g., a blank chat message).
	// This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound signifies that a requested resource could not be located.
	// This is typically mapped to a 404 Not Found HTTP status.
	ErrNotFound = errors.New("resource not found")

	// ErrMalformed signifies that an upstream provider returned a body that
	// could not be parsed as structured data, or that no usable text/image
	// payload was found in it after exhaustive extraction. It is never
	// silently treated as an empty success.
	ErrMalformed = errors.New("malformed upstream response")

	// ErrOverloaded signifies that an upstream provider kept failing with a
	// transient status code until the retry budget was exhausted. It is
	// distinct from the provider's own error so callers can tell "gave up
	// retrying" apart from a single upstream failure.
	ErrOverloaded = errors.New("upstream model overloaded after retries")

	// ErrFallbackFailed signifies that the same-turn fallback to the default
	// text provider failed as well. The wrapped detail names the fallback
	// failure, not the original provider error.
	ErrFallbackFailed = errors.New("fallback provider failed")

	// ErrInternal signifies an unexpected error on the server. This is a generic
	// error used to prevent leaking sensitive implementation details to the client.
	ErrInternal = errors.New("internal server error")
)

// Image pipeline stage errors. Each local failure in the generation pipeline
// is isolated per stage and reported with its own tag so the API layer can
// return the stage name in the error body.
var (
	// ErrNoImage signifies that the extractor found no image-like payload
	// anywhere in the provider response.
	ErrNoImage = errors.New("no_image_found")

	// ErrImageTooSmall signifies that the extracted base64 payload was below
	// the minimum sanity threshold.
	ErrImageTooSmall = errors.New("image_too_small")

	// ErrDecode signifies that the base64 payload could not be decoded.
	ErrDecode = errors.New("decode_failed")

	// ErrSave signifies that the decoded image could not be written to disk.
	ErrSave = errors.New("save_failed")

	// ErrThumbnail signifies that neither thumbnail generation nor the
	// fallback copy of the original succeeded.
	ErrThumbnail = errors.New("thumbnail_failed")
)
