package format

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/stahnma/gh-repofeed/internal/github"
	"gopkg.in/yaml.v3"
)

// WriteJSON writes formatted JSON to w, optionally wrapped in a slack code block.
func WriteJSON(w io.Writer, v any, slackMode bool) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return writeBlock(w, output, slackMode)
}

// WriteYAML writes v as YAML to w, optionally wrapped in a slack code block.
func WriteYAML(w io.Writer, v any, slackMode bool) error {
	output, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return writeBlock(w, output, slackMode)
}

func writeBlock(w io.Writer, output []byte, slackMode bool) error {
	if slackMode {
		if _, err := fmt.Fprintln(w, "```"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, string(trimNewline(output))); err != nil {
		return err
	}
	if slackMode {
		if _, err := fmt.Fprintln(w, "```"); err != nil {
			return err
		}
	}
	return nil
}

func trimNewline(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		return b[:n-1]
	}
	return b
}

// Stars renders a star count with "." as the thousands separator, e.g. 9.999.999.
func Stars(n int) string {
	return humanize.FormatInteger("#.###,", n)
}

// Repo is the exported form of a repository.
type Repo struct {
	Rank      int    `json:"rank" yaml:"rank"`
	Name      string `json:"name" yaml:"name"`
	FullName  string `json:"full_name" yaml:"full_name"`
	Owner     string `json:"owner" yaml:"owner"`
	AvatarURL string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
	Stars     int    `json:"stars" yaml:"stars"`
}

// Export is a document of the repositories a feed has loaded.
type Export struct {
	Language     string    `json:"language" yaml:"language"`
	Pages        int       `json:"pages" yaml:"pages"`
	GeneratedAt  time.Time `json:"generated_at" yaml:"generated_at"`
	Repositories []Repo    `json:"repositories" yaml:"repositories"`
}

// NewExport builds an Export, ranking repositories from 1 in feed order.
// Malformed avatar URLs are left out.
func NewExport(language string, pages int, repos []github.Repository, now time.Time) Export {
	out := Export{
		Language:     language,
		Pages:        pages,
		GeneratedAt:  now.UTC(),
		Repositories: make([]Repo, 0, len(repos)),
	}
	for i, r := range repos {
		repo := Repo{
			Rank:     i + 1,
			Name:     r.Name,
			FullName: r.FullName,
			Owner:    r.Owner.Login,
			Stars:    r.Stars,
		}
		if u, ok := r.Owner.Avatar(); ok {
			repo.AvatarURL = u.String()
		}
		out.Repositories = append(out.Repositories, repo)
	}
	return out
}

// WriteRepos prints one line per repository, numbered from offset+1.
func WriteRepos(w io.Writer, repos []github.Repository, offset int, slackMode bool) error {
	if slackMode {
		if _, err := fmt.Fprintln(w, "```"); err != nil {
			return err
		}
	}
	for i, r := range repos {
		if _, err := fmt.Fprintf(w, "%4d. %-50s %12s\n", offset+i+1, r.FullName, Stars(r.Stars)); err != nil {
			return err
		}
	}
	if slackMode {
		if _, err := fmt.Fprintln(w, "```"); err != nil {
			return err
		}
	}
	return nil
}
