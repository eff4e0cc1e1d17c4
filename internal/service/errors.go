package service

import "errors"

// Validation failures are detected locally, never retried, and map to
// specific HTTP statuses at the API layer.
var (
	// ErrMissingImage means no image payload was provided
	ErrMissingImage = errors.New("no image provided")

	// ErrUnsupportedImageType means the image is not JPEG, PNG, or WEBP
	ErrUnsupportedImageType = errors.New("unsupported image type")

	// ErrImageTooLarge means the image exceeds the upload size limit
	ErrImageTooLarge = errors.New("image exceeds the size limit")

	// ErrEmptyMessage means the chat message was empty
	ErrEmptyMessage = errors.New("message must not be empty")

	// ErrEmptyText means the speech text was empty
	ErrEmptyText = errors.New("text must not be empty")

	// ErrProviderTimeout means the provider did not answer within the timeout
	ErrProviderTimeout = errors.New("provider request timed out")
)
