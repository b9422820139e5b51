package github

import (
	"errors"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v68/github"
)

var (
	// ErrInvalidURL indicates the base scheme and host cannot form a URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrCancelled indicates the request was cancelled before it completed.
	ErrCancelled = errors.New("request cancelled")
	// ErrNoResponse indicates the transport returned no HTTP response.
	ErrNoResponse = errors.New("no http response")
	// ErrEmptyBody indicates a successful response without a body.
	ErrEmptyBody = errors.New("empty response body")
	// ErrRateLimitExceeded indicates the client-side budget denied the
	// request. No network call was made.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	errNoLimiter = errors.New("github: a rate limiter is required")
)

// InvalidURLError reports a URL that could not be built.
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid url %q", e.URL)
	}
	return fmt.Sprintf("invalid url %q: %v", e.URL, e.Err)
}

func (e *InvalidURLError) Unwrap() error { return e.Err }

func (e *InvalidURLError) Is(target error) bool { return target == ErrInvalidURL }

// TransportError wraps a failure of the HTTP transport itself.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %v", e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError reports a response whose status code is outside [200, 300).
// Err carries GitHub's error body as parsed by go-github, when available.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
	return fmt.Sprintf("http status %d: %v", e.StatusCode, e.Err)
}

func (e *StatusError) Unwrap() error { return e.Err }

// DecodeError reports a body that could not be decoded. Body holds the raw
// bytes that failed.
type DecodeError struct {
	Err  error
	Body []byte
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode response: %v", e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// Kind classifies errors returned by the search client.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidURL
	KindCancelled
	KindTransport
	KindNoResponse
	KindBadStatus
	KindEmptyBody
	KindDecodeFailed
	KindRateLimitExceeded
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindInvalidURL:        "invalid_url",
	KindCancelled:         "cancelled",
	KindTransport:         "transport_error",
	KindNoResponse:        "no_response",
	KindBadStatus:         "bad_status",
	KindEmptyBody:         "empty_body",
	KindDecodeFailed:      "decode_failed",
	KindRateLimitExceeded: "rate_limit_exceeded",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// KindOf returns the classification of err. Wrapped errors are unwrapped.
func KindOf(err error) Kind {
	var (
		transportErr *TransportError
		statusErr    *StatusError
		decodeErr    *DecodeError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrCancelled):
		return KindCancelled
	case errors.Is(err, ErrRateLimitExceeded):
		return KindRateLimitExceeded
	case errors.Is(err, ErrInvalidURL):
		return KindInvalidURL
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.Is(err, ErrNoResponse):
		return KindNoResponse
	case errors.As(err, &statusErr):
		return KindBadStatus
	case errors.Is(err, ErrEmptyBody):
		return KindEmptyBody
	case errors.As(err, &decodeErr):
		return KindDecodeFailed
	}
	return KindUnknown
}

// IsCancelled reports whether err is a cancelled request.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// StatusCode extracts the HTTP status of a StatusError.
func StatusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode, true
	}
	return 0, false
}

// IsServerRateLimited reports whether GitHub rejected the request because a
// primary or secondary rate limit was exceeded.
func IsServerRateLimited(err error) bool {
	var (
		rateErr  *gh.RateLimitError
		abuseErr *gh.AbuseRateLimitError
	)
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return true
	}
	status, ok := StatusCode(err)
	return ok && status == http.StatusTooManyRequests
}
