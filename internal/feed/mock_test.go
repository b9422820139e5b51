package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/stahnma/gh-repofeed/internal/github"
)

// mockClient implements github.Client for testing.
type mockClient struct {
	SearchRepositoriesFunc func(ctx context.Context, q github.SearchQuery, done func(*github.SearchResultPage, error)) *github.Call
}

func (m *mockClient) SearchRepositories(ctx context.Context, q github.SearchQuery, done func(*github.SearchResultPage, error)) *github.Call {
	if m.SearchRepositoriesFunc != nil {
		return m.SearchRepositoriesFunc(ctx, q, done)
	}
	done(&github.SearchResultPage{}, nil)
	return nil
}

// pendingCall is a search that completes when the test says so.
type pendingCall struct {
	query github.SearchQuery
	call  *github.Call
	done  func(*github.SearchResultPage, error)
}

// holdingClient records searches without completing them.
type holdingClient struct {
	mu    sync.Mutex
	calls []*pendingCall
}

func (h *holdingClient) client() *mockClient {
	return &mockClient{
		SearchRepositoriesFunc: func(ctx context.Context, q github.SearchQuery, done func(*github.SearchResultPage, error)) *github.Call {
			h.mu.Lock()
			defer h.mu.Unlock()
			p := &pendingCall{query: q, call: github.NewCall(func() {}), done: done}
			h.calls = append(h.calls, p)
			return p.call
		},
	}
}

func (h *holdingClient) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.calls)
}

func (h *holdingClient) get(i int) *pendingCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[i]
}

func repositories(prefix string, n int) []github.Repository {
	out := make([]github.Repository, n)
	for i := range out {
		name := fmt.Sprintf("%s-%d", prefix, i)
		out[i] = github.Repository{
			Name:     name,
			FullName: "owner/" + name,
			Stars:    n - i,
			Owner:    github.Owner{Login: "owner"},
		}
	}
	return out
}

func resultPage(prefix string, n int) *github.SearchResultPage {
	return &github.SearchResultPage{Total: 1000, Items: repositories(prefix, n)}
}

type pageEvent struct {
	r    IndexRange
	page int
}

// recorder collects delegate events.
type recorder struct {
	mu     sync.Mutex
	loaded []pageEvent
	failed []error
}

func (r *recorder) PageLoaded(ir IndexRange, page int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = append(r.loaded, pageEvent{ir, page})
}

func (r *recorder) LoadFailed(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, err)
}

func (r *recorder) events() ([]pageEvent, []error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]pageEvent(nil), r.loaded...), append([]error(nil), r.failed...)
}
