package github

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestBuildURL_Repositories(t *testing.T) {
	e := NewRepositoriesEndpoint(SearchQuery{
		Query:   "language:swift",
		Sort:    SortStars,
		Order:   OrderDescending,
		Page:    2,
		PerPage: 30,
	})
	u, err := BuildURL(DefaultDomain(), e)
	if err != nil {
		t.Fatal(err)
	}
	if u.Scheme != "https" || u.Host != "api.github.com" {
		t.Errorf("authority = %s://%s, want https://api.github.com", u.Scheme, u.Host)
	}
	if u.Path != "/search/repositories" {
		t.Errorf("path = %q, want /search/repositories", u.Path)
	}
	q := u.Query()
	want := map[string]string{
		"q":        "language:swift",
		"sort":     "stars",
		"order":    "desc",
		"page":     "2",
		"per_page": "30",
	}
	for k, v := range want {
		if got := q.Get(k); got != v {
			t.Errorf("query[%s] = %q, want %q", k, got, v)
		}
	}
	if len(q) != len(want) {
		t.Errorf("query has %d keys, want %d: %v", len(q), len(want), q)
	}
}

func TestBuildURL_OmitsAbsentParameters(t *testing.T) {
	u, err := BuildURL(DefaultDomain(), RepositoriesEndpoint{Query: "go"})
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	for _, key := range []string{"sort", "order", "page", "per_page"} {
		if _, ok := q[key]; ok {
			t.Errorf("query contains %q, want it omitted", key)
		}
	}
	if q.Get("q") != "go" {
		t.Errorf("q = %q, want go", q.Get("q"))
	}

	u, err = BuildURL(DefaultDomain(), RepositoriesEndpoint{})
	if err != nil {
		t.Fatal(err)
	}
	if u.RawQuery != "" {
		t.Errorf("RawQuery = %q, want empty", u.RawQuery)
	}
}

func TestBuildURL_OtherEndpoints(t *testing.T) {
	tests := []struct {
		endpoint Endpoint
		want     string
	}{
		{CommitsEndpoint{}, "https://api.github.com/search/commits"},
		{UsersEndpoint{}, "https://api.github.com/search/users"},
	}
	for _, tt := range tests {
		u, err := BuildURL(DefaultDomain(), tt.endpoint)
		if err != nil {
			t.Fatal(err)
		}
		if u.String() != tt.want {
			t.Errorf("BuildURL() = %s, want %s", u, tt.want)
		}
		if tt.endpoint.Method() != http.MethodGet {
			t.Errorf("Method() = %s, want GET", tt.endpoint.Method())
		}
	}
}

func TestBuildURL_InvalidDomain(t *testing.T) {
	tests := []struct {
		name   string
		domain Domain
	}{
		{"empty", Domain{}},
		{"no scheme", Domain{Host: "api.github.com"}},
		{"no host", Domain{Scheme: "https"}},
		{"host with path", Domain{Scheme: "https", Host: "api.github.com/v3"}},
		{"host with space", Domain{Scheme: "https", Host: "api github.com"}},
		{"bad scheme", Domain{Scheme: "ht tp", Host: "api.github.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildURL(tt.domain, RepositoriesEndpoint{Query: "x"})
			if !errors.Is(err, ErrInvalidURL) {
				t.Fatalf("err = %v, want ErrInvalidURL", err)
			}
			if KindOf(err) != KindInvalidURL {
				t.Errorf("KindOf = %v, want %v", KindOf(err), KindInvalidURL)
			}
		})
	}
}

func TestParseDomain(t *testing.T) {
	d, err := ParseDomain("http://localhost:8080/api")
	if err != nil {
		t.Fatal(err)
	}
	if d.Scheme != "http" || d.Host != "localhost:8080" {
		t.Errorf("domain = %+v, want http localhost:8080", d)
	}
	if _, err := ParseDomain("api.github.com"); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("ParseDomain without scheme err = %v, want ErrInvalidURL", err)
	}
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest(context.Background(), DefaultDomain(), RepositoriesEndpoint{Query: "q", Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != http.MethodGet {
		t.Errorf("method = %s, want GET", req.Method)
	}
	if got := req.Header.Get("Accept"); got != "application/vnd.github+json" {
		t.Errorf("Accept = %q", got)
	}
	if got := req.Header.Get("X-GitHub-Api-Version"); got == "" {
		t.Error("missing X-GitHub-Api-Version header")
	}
}

func TestSearchQueryWithDefaults(t *testing.T) {
	tests := []struct {
		in       SearchQuery
		page     int
		pageSize int
	}{
		{SearchQuery{}, 1, DefaultPageSize},
		{SearchQuery{Page: 3, PerPage: 50}, 3, 50},
		{SearchQuery{Page: -1, PerPage: 500}, 1, MaxPageSize},
	}
	for _, tt := range tests {
		got := tt.in.WithDefaults()
		if got.Page != tt.page || got.PerPage != tt.pageSize {
			t.Errorf("%+v.WithDefaults() = page %d size %d, want %d %d", tt.in, got.Page, got.PerPage, tt.page, tt.pageSize)
		}
	}
}

func TestParseSortAndOrder(t *testing.T) {
	for _, s := range []string{"", "stars", "forks", "help-wanted-issues", "updated"} {
		if _, err := ParseSort(s); err != nil {
			t.Errorf("ParseSort(%q) error: %v", s, err)
		}
	}
	if _, err := ParseSort("popularity"); err == nil {
		t.Error("ParseSort(popularity) should fail")
	}
	for _, o := range []string{"", "asc", "desc"} {
		if _, err := ParseOrder(o); err != nil {
			t.Errorf("ParseOrder(%q) error: %v", o, err)
		}
	}
	if _, err := ParseOrder("up"); err == nil {
		t.Error("ParseOrder(up) should fail")
	}
}
