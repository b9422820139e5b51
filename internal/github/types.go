package github

import (
	"fmt"
	"net/url"

	gh "github.com/google/go-github/v68/github"
)

// Repository is a repository returned by the search API.
type Repository struct {
	Name     string `json:"name" yaml:"name"`
	FullName string `json:"full_name" yaml:"full_name"`
	Stars    int    `json:"stargazers_count" yaml:"stargazers_count"`
	Owner    Owner  `json:"owner" yaml:"owner"`
}

// Owner is the user or organization owning a repository.
type Owner struct {
	Login     string `json:"login" yaml:"login"`
	AvatarURL string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
}

// Avatar parses the owner's avatar URL. It reports false when the URL is
// absent or malformed.
func (o Owner) Avatar() (*url.URL, bool) {
	if o.AvatarURL == "" {
		return nil, false
	}
	u, err := url.Parse(o.AvatarURL)
	if err != nil {
		return nil, false
	}
	return u, true
}

// SearchResultPage is one page of repository search results.
type SearchResultPage struct {
	// Total is the number of results matching the query, across all pages.
	Total int `json:"total_count" yaml:"total_count"`
	// Incomplete is set when the search timed out on GitHub's side and only
	// the matches found so far were returned.
	Incomplete bool         `json:"incomplete_results" yaml:"incomplete_results"`
	Items      []Repository `json:"items" yaml:"items"`
}

// searchResponse is the wire form of a repository search response.
type searchResponse struct {
	gh.RepositoriesSearchResult
}

// Check reports required fields missing from the payload.
func (r *searchResponse) Check() error {
	if r.Total == nil {
		return fmt.Errorf("missing total_count")
	}
	if r.IncompleteResults == nil {
		return fmt.Errorf("missing incomplete_results")
	}
	if r.Repositories == nil {
		return fmt.Errorf("missing items")
	}
	for i, repo := range r.Repositories {
		if err := checkRepository(repo); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return nil
}

func checkRepository(repo *gh.Repository) error {
	switch {
	case repo == nil:
		return fmt.Errorf("null repository")
	case repo.Name == nil:
		return fmt.Errorf("missing name")
	case repo.FullName == nil:
		return fmt.Errorf("missing full_name")
	case repo.StargazersCount == nil:
		return fmt.Errorf("missing stargazers_count")
	case repo.Owner == nil:
		return fmt.Errorf("missing owner")
	case repo.Owner.Login == nil:
		return fmt.Errorf("missing owner.login")
	}
	return nil
}

func (r *searchResponse) page() *SearchResultPage {
	items := make([]Repository, 0, len(r.Repositories))
	for _, repo := range r.Repositories {
		items = append(items, Repository{
			Name:     repo.GetName(),
			FullName: repo.GetFullName(),
			Stars:    repo.GetStargazersCount(),
			Owner: Owner{
				Login:     repo.GetOwner().GetLogin(),
				AvatarURL: repo.GetOwner().GetAvatarURL(),
			},
		})
	}
	return &SearchResultPage{
		Total:      r.GetTotal(),
		Incomplete: r.GetIncompleteResults(),
		Items:      items,
	}
}
