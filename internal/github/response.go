package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	gh "github.com/google/go-github/v68/github"
)

// Outcome is everything a transport produced for one request.
type Outcome struct {
	Request  *http.Request
	Response *http.Response
	Body     []byte
	Err      error
}

// Header returns the response headers, or nil when there was no response.
func (o Outcome) Header() http.Header {
	if o.Response == nil {
		return nil
	}
	return o.Response.Header
}

// checker is implemented by payloads that validate themselves after decoding.
type checker interface {
	Check() error
}

// Validate classifies an outcome and returns its body when it is usable.
// Checks run in a fixed order: cancellation, transport error, missing
// response, bad status, empty body.
func Validate(o Outcome) ([]byte, error) {
	if o.Err != nil {
		if errors.Is(o.Err, context.Canceled) {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, o.Err)
		}
		return nil, &TransportError{Err: o.Err}
	}
	if o.Response == nil {
		return nil, ErrNoResponse
	}
	if code := o.Response.StatusCode; code < 200 || code >= 300 {
		return nil, &StatusError{StatusCode: code, Err: responseError(o)}
	}
	if len(o.Body) == 0 {
		return nil, ErrEmptyBody
	}
	return o.Body, nil
}

// Decode validates an outcome and decodes its JSON body into T. When T is
// []byte the raw body is returned as is.
func Decode[T any](o Outcome) (T, error) {
	var v T
	body, err := Validate(o)
	if err != nil {
		return v, err
	}
	if raw, ok := any(&v).(*[]byte); ok {
		*raw = body
		return v, nil
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, &DecodeError{Err: err, Body: body}
	}
	if c, ok := any(&v).(checker); ok {
		if err := c.Check(); err != nil {
			return v, &DecodeError{Err: err, Body: body}
		}
	}
	return v, nil
}

// responseError lets go-github parse GitHub's error body so callers can
// inspect it, including its rate-limit error types.
func responseError(o Outcome) error {
	req := o.Response.Request
	if req == nil {
		req = o.Request
	}
	if req == nil {
		req = &http.Request{Method: http.MethodGet}
	}
	resp := &http.Response{
		Status:     o.Response.Status,
		StatusCode: o.Response.StatusCode,
		Header:     o.Response.Header,
		Body:       io.NopCloser(bytes.NewReader(o.Body)),
		Request:    req,
	}
	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	return gh.CheckResponse(resp)
}
