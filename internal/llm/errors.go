package llm

import (
	"errors"

	"github.com/floorsight/floorsight/internal/transport"
	"google.golang.org/api/googleapi"
)

// Provider failure conditions the services must tell apart. Content filter
// and truncation are never retried; they surface to the caller as-is.
var (
	// ErrEmptyResponse means the provider returned no usable text
	ErrEmptyResponse = errors.New("empty provider response")

	// ErrTruncated means generation stopped at the provider's length limit
	ErrTruncated = errors.New("provider response truncated")

	// ErrContentFiltered means the provider's safety filter rejected the request
	ErrContentFiltered = errors.New("provider content filter rejected the request")

	// ErrInvalidAnalysis means the vision response could not be parsed into a
	// valid analysis: malformed JSON, missing fields, or a score outside [0,100]
	ErrInvalidAnalysis = errors.New("invalid analysis response")
)

// StatusOf returns the provider status code carried by err, or 0 when the
// failure has no status (local errors, parse errors)
func StatusOf(err error) int {
	var terr *transport.Error
	if errors.As(err, &terr) {
		return terr.StatusCode
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// IsTimeout reports whether err is a transport-level timeout
func IsTimeout(err error) bool {
	var terr *transport.Error
	return errors.As(err, &terr) && terr.Timeout
}
