package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stahnma/gh-repofeed/internal/feed"
	"github.com/stahnma/gh-repofeed/internal/format"
	"go.uber.org/zap"
)

type feedOptions struct {
	language string
	pages    int
	refresh  bool
}

// pageEvent is one delegate notification from a feed.
type pageEvent struct {
	r    feed.IndexRange
	page int
	err  error
}

// pager drives a feed one load at a time.
type pager struct {
	feed   *feed.Feed
	queue  *feed.SerialQueue
	events chan pageEvent
}

func (a *App) newPager(language string) (*pager, error) {
	if err := a.ensureClient(); err != nil {
		return nil, err
	}
	p := &pager{
		queue:  feed.NewSerialQueue(),
		events: make(chan pageEvent, 1),
	}
	delegate := feed.DelegateFuncs{
		OnPageLoaded: func(r feed.IndexRange, page int) { p.events <- pageEvent{r: r, page: page} },
		OnLoadFailed: func(err error) { p.events <- pageEvent{err: err} },
	}
	p.feed = feed.New(a.Client, delegate, feed.Config{
		Language: firstNonEmpty(language, a.Config.Language),
		PageSize: a.Config.PageSize,
		Sort:     a.Config.Sort,
		Order:    a.Config.Order,
		Queue:    p.queue,
		Logger:   a.Logger,
	})
	return p, nil
}

// load starts a load and waits for the feed to report it.
func (p *pager) load(ctx context.Context, reset bool) (pageEvent, error) {
	p.feed.LoadNextPage(ctx, reset)
	select {
	case ev := <-p.events:
		return ev, ev.err
	case <-ctx.Done():
		return pageEvent{}, ctx.Err()
	}
}

func (p *pager) close() {
	p.queue.Close()
}

// loadPages loads up to n more pages into p's feed, calling onPage after
// each one. It stops early when a page comes back empty.
func (a *App) loadPages(ctx context.Context, p *pager, n int, onPage func(ev pageEvent) error) error {
	for i := 0; i < n; i++ {
		next := p.feed.NextPage()
		ev, err := p.load(ctx, false)
		if err != nil {
			return fmt.Errorf("loading page %d: %w", next, a.explain(err))
		}
		if onPage != nil {
			if err := onPage(ev); err != nil {
				return err
			}
		}
		if ev.r.Len() == 0 {
			a.Logger.Debug("empty page, stopping", zap.Int("page", ev.page))
			break
		}
	}
	return nil
}

func (a *App) newFeedCommand() *cobra.Command {
	var opts feedOptions
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Load consecutive pages of the most starred repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFeed(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Programming language to list")
	cmd.Flags().IntVarP(&opts.pages, "pages", "n", 1, "Number of pages to load")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "Reload from page 1 after the last page, replacing what was loaded")
	return cmd
}

func (a *App) runFeed(ctx context.Context, w io.Writer, opts feedOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.pages < 1 {
		return fmt.Errorf("pages must be at least 1")
	}

	p, err := a.newPager(opts.language)
	if err != nil {
		return err
	}
	defer p.close()

	printPage := func(ev pageEvent) error {
		fmt.Fprintf(w, "Page %d: items [%d, %d) of %s\n", ev.page, ev.r.Start, ev.r.End, p.feed.Language())
		items := p.feed.Items()
		return format.WriteRepos(w, items[ev.r.Start:ev.r.End], ev.r.Start, a.Config.SlackMode)
	}

	if err := a.loadPages(ctx, p, opts.pages, printPage); err != nil {
		return err
	}

	if opts.refresh {
		ev, err := p.load(ctx, true)
		if err != nil {
			return fmt.Errorf("refreshing: %w", a.explain(err))
		}
		if err := printPage(ev); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "Loaded %d repositories through page %d\n", p.feed.Len(), p.feed.CurrentPage())
	return nil
}
