package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultScheme and DefaultHost address the public GitHub API.
	DefaultScheme = "https"
	DefaultHost   = "api.github.com"

	apiVersion = "2022-11-28"
	userAgent  = "gh-repofeed"
)

// Domain is the scheme and host requests are sent to.
type Domain struct {
	Scheme string
	Host   string
}

// DefaultDomain returns the public GitHub API domain.
func DefaultDomain() Domain {
	return Domain{Scheme: DefaultScheme, Host: DefaultHost}
}

// ParseDomain extracts the scheme and host from a base URL such as
// "https://api.github.com". Any path is ignored.
func ParseDomain(raw string) (Domain, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Domain{}, &InvalidURLError{URL: raw, Err: err}
	}
	d := Domain{Scheme: u.Scheme, Host: u.Host}
	if _, err := d.URL(); err != nil {
		return Domain{}, err
	}
	return d, nil
}

// URL returns the root URL of the domain.
func (d Domain) URL() (*url.URL, error) {
	raw := d.Scheme + "://" + d.Host
	if d.Scheme == "" || d.Host == "" {
		return nil, &InvalidURLError{URL: raw, Err: fmt.Errorf("scheme and host are required")}
	}
	if strings.ContainsAny(d.Host, "/?#@ ") {
		return nil, &InvalidURLError{URL: raw, Err: fmt.Errorf("host %q is not a valid authority", d.Host)}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &InvalidURLError{URL: raw, Err: err}
	}
	if u.Scheme != strings.ToLower(d.Scheme) || u.Host != d.Host {
		return nil, &InvalidURLError{URL: raw, Err: fmt.Errorf("scheme and host do not form an authority")}
	}
	return u, nil
}

func (d Domain) String() string {
	return d.Scheme + "://" + d.Host
}

// BuildURL joins the endpoint's path and query parameters onto the domain.
func BuildURL(d Domain, e Endpoint) (*url.URL, error) {
	u, err := d.URL()
	if err != nil {
		return nil, err
	}
	values, err := e.Values()
	if err != nil {
		return nil, fmt.Errorf("encoding %s parameters: %w", e.Path(), err)
	}
	u.Path = e.Path()
	if len(values) > 0 {
		u.RawQuery = values.Encode()
	}
	return u, nil
}

// NewRequest builds the HTTP request for an endpoint.
func NewRequest(ctx context.Context, d Domain, e Endpoint) (*http.Request, error) {
	u, err := BuildURL(d, e)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, e.Method(), u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}
