package github

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-querystring/query"
)

const (
	// DefaultPageSize is GitHub's default number of search results per page.
	DefaultPageSize = 30
	// MaxPageSize is the largest page GitHub's search API will return.
	MaxPageSize = 100
	// DefaultLanguage is the language filter used when none is configured.
	DefaultLanguage = "swift"
)

// Sort is the field repository search results are sorted by.
type Sort string

const (
	SortStars            Sort = "stars"
	SortForks            Sort = "forks"
	SortHelpWantedIssues Sort = "help-wanted-issues"
	SortUpdated          Sort = "updated"
)

// ParseSort validates a sort key. An empty string means no sort.
func ParseSort(s string) (Sort, error) {
	switch sort := Sort(s); sort {
	case "", SortStars, SortForks, SortHelpWantedIssues, SortUpdated:
		return sort, nil
	}
	return "", fmt.Errorf("unknown sort %q (want stars, forks, help-wanted-issues or updated)", s)
}

// Order is the direction results are sorted in.
type Order string

const (
	OrderAscending  Order = "asc"
	OrderDescending Order = "desc"
)

// ParseOrder validates an order. An empty string means no order.
func ParseOrder(s string) (Order, error) {
	switch order := Order(s); order {
	case "", OrderAscending, OrderDescending:
		return order, nil
	}
	return "", fmt.Errorf("unknown order %q (want asc or desc)", s)
}

// LanguageQuery returns the search qualifier restricting results to a language.
func LanguageQuery(language string) string {
	return "language:" + language
}

// SearchQuery describes one page of a repository search.
type SearchQuery struct {
	Query   string
	Sort    Sort
	Order   Order
	Page    int
	PerPage int
}

// WithDefaults clamps Page to at least 1 and PerPage to 1..MaxPageSize,
// using DefaultPageSize when PerPage is unset.
func (q SearchQuery) WithDefaults() SearchQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = DefaultPageSize
	}
	if q.PerPage > MaxPageSize {
		q.PerPage = MaxPageSize
	}
	return q
}

// Endpoint describes one API operation: where it lives, how it is called,
// and which query parameters it sends.
type Endpoint interface {
	Path() string
	Method() string
	Values() (url.Values, error)
}

// RepositoriesEndpoint is GET /search/repositories. Empty fields are not sent.
type RepositoriesEndpoint struct {
	Query   string `url:"q,omitempty"`
	Sort    Sort   `url:"sort,omitempty"`
	Order   Order  `url:"order,omitempty"`
	Page    int    `url:"page,omitempty"`
	PerPage int    `url:"per_page,omitempty"`
}

// NewRepositoriesEndpoint builds the endpoint for a search query.
func NewRepositoriesEndpoint(q SearchQuery) RepositoriesEndpoint {
	return RepositoriesEndpoint{
		Query:   q.Query,
		Sort:    q.Sort,
		Order:   q.Order,
		Page:    q.Page,
		PerPage: q.PerPage,
	}
}

func (RepositoriesEndpoint) Path() string   { return "/search/repositories" }
func (RepositoriesEndpoint) Method() string { return http.MethodGet }

func (e RepositoriesEndpoint) Values() (url.Values, error) {
	return query.Values(e)
}

// CommitsEndpoint is GET /search/commits. It is declared for completeness;
// no client operation uses it yet.
type CommitsEndpoint struct{}

func (CommitsEndpoint) Path() string                { return "/search/commits" }
func (CommitsEndpoint) Method() string              { return http.MethodGet }
func (CommitsEndpoint) Values() (url.Values, error) { return url.Values{}, nil }

// UsersEndpoint is GET /search/users. It is declared for completeness;
// no client operation uses it yet.
type UsersEndpoint struct{}

func (UsersEndpoint) Path() string                { return "/search/users" }
func (UsersEndpoint) Method() string              { return http.MethodGet }
func (UsersEndpoint) Values() (url.Values, error) { return url.Values{}, nil }
