package github

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/stahnma/gh-repofeed/internal/clock"
	"go.uber.org/zap"
)

// Client defines the GitHub search operations used by this application.
type Client interface {
	// SearchRepositories requests one page of repository results. done is
	// called exactly once, possibly before SearchRepositories returns. The
	// returned Call is nil when no request was sent.
	SearchRepositories(ctx context.Context, q SearchQuery, done func(*SearchResultPage, error)) *Call
}

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Limiter is the client-side request budget. *ratelimit.Tracker satisfies it.
type Limiter interface {
	Hold() bool
	Consume() bool
	Update(limit, remaining int, resetIn time.Duration)
}

// Config configures the search client.
type Config struct {
	Domain     Domain
	HTTPClient Doer
	Limiter    Limiter
	Clock      clock.Clock
	Logger     *zap.Logger
}

// searchClient performs searches through Doer, gated by Limiter.
type searchClient struct {
	domain  Domain
	http    Doer
	limiter Limiter
	clock   clock.Clock
	logger  *zap.Logger
}

// NewClient creates a search client. A Limiter is required; the domain
// defaults to the public GitHub API.
func NewClient(cfg Config) (Client, error) {
	if cfg.Limiter == nil {
		return nil, errNoLimiter
	}
	if cfg.Domain == (Domain{}) {
		cfg.Domain = DefaultDomain()
	}
	if _, err := cfg.Domain.URL(); err != nil {
		return nil, err
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &searchClient{
		domain:  cfg.Domain,
		http:    cfg.HTTPClient,
		limiter: cfg.Limiter,
		clock:   cfg.Clock,
		logger:  cfg.Logger,
	}, nil
}

func (c *searchClient) SearchRepositories(ctx context.Context, q SearchQuery, done func(*SearchResultPage, error)) *Call {
	q = q.WithDefaults()
	if !c.limiter.Hold() {
		c.logger.Debug("search denied by rate limit", zap.String("query", q.Query), zap.Int("page", q.Page))
		done(nil, ErrRateLimitExceeded)
		return nil
	}

	callCtx, cancel := context.WithCancel(ctx)
	req, err := NewRequest(callCtx, c.domain, NewRepositoriesEndpoint(q))
	if err != nil {
		cancel()
		c.limiter.Consume()
		done(nil, err)
		return nil
	}

	call := NewCall(cancel)
	c.logger.Debug("search request", zap.String("url", req.URL.String()))
	go func() {
		defer cancel()
		outcome := c.perform(req)

		c.limiter.Consume()
		if rl, ok := ParseRateLimit(outcome.Header(), c.clock.Now()); ok {
			c.limiter.Update(rl.Limit, rl.Remaining, rl.ResetIn)
			c.logger.Debug("rate limit updated",
				zap.Int("limit", rl.Limit),
				zap.Int("remaining", rl.Remaining),
				zap.Duration("reset_in", rl.ResetIn))
		}

		result, err := Decode[searchResponse](outcome)
		if err != nil {
			c.logger.Debug("search failed", zap.Int("page", q.Page), zap.String("kind", KindOf(err).String()), zap.Error(err))
			done(nil, err)
			return
		}
		done(result.page(), nil)
	}()
	return call
}

// perform sends req and reads the whole body.
func (c *searchClient) perform(req *http.Request) Outcome {
	resp, err := c.http.Do(req)
	if err != nil {
		return Outcome{Request: req, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{Request: req, Response: resp, Err: err}
	}
	return Outcome{Request: req, Response: resp, Body: body}
}
