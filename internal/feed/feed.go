// Package feed accumulates pages of repository search results.
//
// A Feed is either idle or loading exactly one page. Loads are started with
// LoadNextPage; results are appended in page order and reported to a
// Delegate through the feed's Queue. A reset load cancels whatever is in
// flight and starts over from page 1; completions of superseded loads are
// dropped without touching the feed.
package feed

import (
	"context"
	"sync"

	"github.com/stahnma/gh-repofeed/internal/github"
	"go.uber.org/zap"
)

// Config configures a Feed. Zero fields take defaults.
type Config struct {
	Language string
	PageSize int
	Sort     github.Sort
	Order    github.Order
	// Queue receives completions and delegate calls. Defaults to a new
	// SerialQueue owned by the feed and stopped by Feed.Close.
	Queue  Queue
	Logger *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.Language == "" {
		c.Language = github.DefaultLanguage
	}
	if c.PageSize <= 0 {
		c.PageSize = github.DefaultPageSize
	}
	if c.PageSize > github.MaxPageSize {
		c.PageSize = github.MaxPageSize
	}
	if c.Sort == "" {
		c.Sort = github.SortStars
	}
	if c.Order == "" {
		c.Order = github.OrderDescending
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

// load is one page request. A load is current while it is the feed's inflight.
type load struct {
	gen    uint64
	page   int
	reset  bool
	call   *github.Call
	cancel bool
}

// Feed is a paginated, append-only list of repositories for one language.
// It is safe for concurrent use.
type Feed struct {
	client   github.Client
	delegate Delegate
	queue    Queue
	owned    *SerialQueue
	logger   *zap.Logger
	pageSize int
	sort     github.Sort
	order    github.Order

	mu          sync.Mutex
	language    string
	items       []github.Repository
	currentPage int
	gen         uint64
	inflight    *load
}

// New creates an idle, empty feed. delegate may be nil.
func New(client github.Client, delegate Delegate, cfg Config) *Feed {
	cfg = cfg.withDefaults()
	if delegate == nil {
		delegate = DelegateFuncs{}
	}
	var owned *SerialQueue
	if cfg.Queue == nil {
		owned = NewSerialQueue()
		cfg.Queue = owned
	}
	return &Feed{
		client:   client,
		delegate: delegate,
		queue:    cfg.Queue,
		owned:    owned,
		logger:   cfg.Logger,
		pageSize: cfg.PageSize,
		sort:     cfg.Sort,
		order:    cfg.Order,
		language: cfg.Language,
	}
}

// LoadNextPage requests the page after CurrentPage. While a load is in
// flight the call is ignored unless reset is set; a reset cancels the
// in-flight load and requests page 1, replacing all items on success.
func (f *Feed) LoadNextPage(ctx context.Context, reset bool) {
	f.mu.Lock()
	if prev := f.inflight; prev != nil {
		if !reset {
			f.mu.Unlock()
			return
		}
		prev.cancel = true
		if prev.call != nil {
			prev.call.Cancel()
		}
		f.logger.Debug("superseding in-flight load", zap.Uint64("generation", prev.gen), zap.Int("page", prev.page))
	}

	f.gen++
	l := &load{gen: f.gen, page: f.currentPage + 1, reset: reset}
	if reset {
		l.page = 1
	}
	f.inflight = l
	q := github.SearchQuery{
		Query:   github.LanguageQuery(f.language),
		Sort:    f.sort,
		Order:   f.order,
		Page:    l.page,
		PerPage: f.pageSize,
	}
	f.mu.Unlock()

	f.logger.Debug("loading page", zap.Uint64("generation", l.gen), zap.Int("page", l.page), zap.Bool("reset", reset))
	call := f.client.SearchRepositories(ctx, q, func(p *github.SearchResultPage, err error) {
		f.queue.Dispatch(func() { f.complete(l, p, err) })
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if l.cancel {
		call.Cancel()
		return
	}
	l.call = call
}

func (f *Feed) complete(l *load, page *github.SearchResultPage, err error) {
	f.mu.Lock()
	if f.inflight != l {
		f.mu.Unlock()
		f.logger.Debug("dropping stale completion", zap.Uint64("generation", l.gen), zap.Int("page", l.page))
		return
	}
	f.inflight = nil

	if err != nil {
		f.mu.Unlock()
		f.logger.Debug("page load failed", zap.Int("page", l.page), zap.Error(err))
		f.delegate.LoadFailed(err)
		return
	}

	if l.reset {
		f.items = nil
	}
	start := len(f.items)
	f.items = append(f.items, page.Items...)
	f.currentPage = l.page
	r := IndexRange{Start: start, End: len(f.items)}
	f.mu.Unlock()

	f.logger.Debug("page loaded", zap.Int("page", l.page), zap.Int("start", r.Start), zap.Int("end", r.End))
	f.delegate.PageLoaded(r, l.page)
}

// Close stops the queue the feed created when Config.Queue was nil, after
// already queued completions have run. Completions arriving later are
// dropped. A queue passed in Config is left to its owner.
func (f *Feed) Close() {
	if f.owned != nil {
		f.owned.Close()
	}
}

// Items returns a copy of the accumulated repositories.
func (f *Feed) Items() []github.Repository {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]github.Repository, len(f.items))
	copy(out, f.items)
	return out
}

// Len returns the number of accumulated repositories.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// CurrentPage returns the last successfully loaded page, or 0.
func (f *Feed) CurrentPage() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentPage
}

// NextPage returns the page a non-reset load would request.
func (f *Feed) NextPage() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.currentPage + 1
}

// Loading reports whether a load is in flight.
func (f *Feed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inflight != nil
}

func (f *Feed) Language() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.language
}

// SetLanguage changes the language for subsequent loads. Items already
// loaded are kept until the next reset load.
func (f *Feed) SetLanguage(language string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.language = language
}
