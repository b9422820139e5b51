package github

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v68/github"
)

// StatusClient reads the server's view of the rate limits. Querying it does
// not count against any limit.
type StatusClient interface {
	RateLimits(ctx context.Context) (*gh.RateLimits, *gh.Response, error)
}

// realStatusClient wraps the go-github client to implement StatusClient.
type realStatusClient struct {
	inner *gh.Client
}

// NewStatusClient creates a StatusClient for the given domain.
func NewStatusClient(d Domain, httpClient *http.Client) (StatusClient, error) {
	base, err := d.URL()
	if err != nil {
		return nil, err
	}
	base.Path = "/"
	inner := gh.NewClient(httpClient)
	inner.BaseURL = base
	inner.UserAgent = userAgent
	return &realStatusClient{inner: inner}, nil
}

func (c *realStatusClient) RateLimits(ctx context.Context) (*gh.RateLimits, *gh.Response, error) {
	limits, resp, err := c.inner.RateLimit.Get(ctx)
	if err != nil {
		return nil, resp, fmt.Errorf("get rate limits: %w", err)
	}
	return limits, resp, nil
}
