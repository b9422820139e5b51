package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stahnma/gh-repofeed/internal/format"
	ghub "github.com/stahnma/gh-repofeed/internal/github"
)

type searchOptions struct {
	query    string
	language string
	sort     string
	order    string
	page     int
	perPage  int
}

func (a *App) newSearchCommand() *cobra.Command {
	var opts searchOptions
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Fetch one page of repository search results",
		Long: `Fetch one page of repository search results.

Without a query the configured language is searched, e.g. "language:swift".
A query given together with --language is narrowed to that language.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.query = args[0]
			}
			return a.runSearch(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Restrict results to a programming language")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort by stars, forks, help-wanted-issues or updated")
	cmd.Flags().StringVar(&opts.order, "order", "", "Sort order, asc or desc")
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Page to fetch, starting at 1")
	cmd.Flags().IntVar(&opts.perPage, "per-page", 0, fmt.Sprintf("Results per page, at most %d", ghub.MaxPageSize))
	return cmd
}

// buildQuery resolves search options against the configuration.
func (a *App) buildQuery(opts searchOptions) (ghub.SearchQuery, error) {
	sort, err := ghub.ParseSort(firstNonEmpty(opts.sort, string(a.Config.Sort)))
	if err != nil {
		return ghub.SearchQuery{}, err
	}
	order, err := ghub.ParseOrder(firstNonEmpty(opts.order, string(a.Config.Order)))
	if err != nil {
		return ghub.SearchQuery{}, err
	}
	if opts.page < 1 {
		return ghub.SearchQuery{}, fmt.Errorf("page must be at least 1")
	}
	if opts.perPage < 0 || opts.perPage > ghub.MaxPageSize {
		return ghub.SearchQuery{}, fmt.Errorf("per-page must be between 1 and %d", ghub.MaxPageSize)
	}

	query := strings.TrimSpace(opts.query)
	switch {
	case query == "":
		query = ghub.LanguageQuery(firstNonEmpty(opts.language, a.Config.Language))
	case opts.language != "":
		query += " " + ghub.LanguageQuery(opts.language)
	}

	perPage := opts.perPage
	if perPage == 0 {
		perPage = a.Config.PageSize
	}
	return ghub.SearchQuery{
		Query:   query,
		Sort:    sort,
		Order:   order,
		Page:    opts.page,
		PerPage: perPage,
	}.WithDefaults(), nil
}

func (a *App) runSearch(ctx context.Context, w io.Writer, opts searchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	q, err := a.buildQuery(opts)
	if err != nil {
		return err
	}

	page, err := a.searchPage(ctx, q)
	if err != nil {
		return fmt.Errorf("searching repositories: %w", err)
	}

	if a.Config.SlackMode {
		fmt.Fprintf(w, ":mag: `%s`: %s repositories, page %d\n", q.Query, format.Stars(page.Total), q.Page)
	} else {
		fmt.Fprintf(w, "Query %q: %s repositories, page %d\n", q.Query, format.Stars(page.Total), q.Page)
	}
	if page.Incomplete {
		fmt.Fprintln(w, "Results are incomplete; GitHub timed out before finishing the search.")
	}
	return format.WriteRepos(w, page.Items, (q.Page-1)*q.PerPage, a.Config.SlackMode)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
