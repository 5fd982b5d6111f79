package opendota

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited means every retry attempt was answered with an upstream
	// throttling signal. Retryable by the caller after a longer wait.
	ErrRateLimited = errors.New("opendota: rate limited by upstream, retries exhausted")
	// ErrNetwork means the request never got a usable response after retries.
	ErrNetwork = errors.New("opendota: network failure, retries exhausted")
	// ErrDecode means the response body was not the JSON we expected.
	ErrDecode = errors.New("opendota: failed to decode response")
)

// UpstreamError is a non-retryable HTTP failure, surfaced verbatim.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("opendota: HTTP %d", e.Status)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream) && upstream.Status == 404
}
