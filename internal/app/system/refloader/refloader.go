// Package refloader loads paginated reference data (groups, events) page by
// page for a search term, the way the selector widgets consume it: pages are
// requested sequentially, appended in request order, and a page that arrives
// after the term has changed is discarded instead of appended.
//
// Discarding is keyed by a generation counter that bumps on every term
// change, so a slow response for an abandoned search can never leak into the
// current result list.
package refloader

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Fetch retrieves one page of items for a term. Pages are 1-based. total is
// the full result count for the term, used to detect the last page.
type Fetch[T any] func(ctx context.Context, term string, page int) (items []T, total int, err error)

// Loader accumulates pages for the current search term.
type Loader[T any] struct {
	fetch  Fetch[T]
	logger *zap.Logger

	mu    sync.Mutex
	term  string
	gen   uint64
	page  int // last page appended
	items []T
	total int
	done  bool
}

// New creates a loader around the given fetch function.
func New[T any](fetch Fetch[T], logger *zap.Logger) *Loader[T] {
	return &Loader[T]{fetch: fetch, logger: logger}
}

// SetTerm switches the active search term, dropping everything accumulated
// for the previous one. In-flight responses for the old term are discarded
// when they land. Setting the same term again is a no-op.
func (l *Loader[T]) SetTerm(term string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if term == l.term && l.gen > 0 {
		return
	}
	l.term = term
	l.gen++
	l.page = 0
	l.items = nil
	l.total = 0
	l.done = false
}

// LoadNext fetches the page after the last appended one. The fetch runs
// outside the state lock; if the term changed while it was in flight, the
// response is dropped and LoadNext reports done=false with no error so the
// caller can re-drive from the new term. Returns done=true once every page
// for the term has been appended.
func (l *Loader[T]) LoadNext(ctx context.Context) (bool, error) {
	l.mu.Lock()
	if l.done {
		l.mu.Unlock()
		return true, nil
	}
	term, gen, page := l.term, l.gen, l.page+1
	l.mu.Unlock()

	items, total, err := l.fetch(ctx, term, page)
	if err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.gen != gen {
		// Stale response for an abandoned term.
		l.logger.Debug("discarding stale page",
			zap.String("term", term),
			zap.Int("page", page))
		return false, nil
	}
	l.items = append(l.items, items...)
	l.page = page
	l.total = total
	l.done = len(l.items) >= total || len(items) == 0
	return l.done, nil
}

// LoadAll drives LoadNext until the term is fully loaded (or ctx is
// cancelled) and returns the accumulated items. A term change during the
// loop restarts accumulation under the new term.
func (l *Loader[T]) LoadAll(ctx context.Context) ([]T, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		done, err := l.LoadNext(ctx)
		if err != nil {
			return nil, err
		}
		if done {
			return l.Items(), nil
		}
	}
}

// Items returns a copy of the pages appended so far, in request order.
func (l *Loader[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Total returns the server-reported result count for the current term.
func (l *Loader[T]) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}
