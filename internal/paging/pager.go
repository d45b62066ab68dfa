// Package paging holds a generic page-cursor state machine over any
// page-based fetch function.
package paging

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"bookingdesk/internal/metrics"
)

type Page[T any] struct {
	Items       []T
	TotalPages  int
	CurrentPage int
}

type FetchFunc[T any] func(ctx context.Context, page int) (Page[T], error)

// State is a copy of the pager state. Items always belong to the last
// successful fetch for CurrentPage.
type State[T any] struct {
	Items       []T
	CurrentPage int
	TotalPages  int
	Loading     bool
	Err         string
	Loaded      bool
}

type Pager[T any] struct {
	fetch   FetchFunc[T]
	log     *zap.Logger
	metrics *metrics.Metrics

	mu        sync.Mutex
	state     State[T]
	gen       uint64
	listeners []func(State[T])
}

func New[T any](fetch FetchFunc[T], initialPage int, logger *zap.Logger, m *metrics.Metrics) *Pager[T] {
	if initialPage < 1 {
		initialPage = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pager[T]{
		fetch:   fetch,
		log:     logger,
		metrics: m,
		state:   State[T]{CurrentPage: initialPage, Items: []T{}},
	}
}

// Start fetches the initial page.
func (p *Pager[T]) Start(ctx context.Context) {
	p.mu.Lock()
	page := p.state.CurrentPage
	p.mu.Unlock()
	p.load(ctx, page)
}

// SetPage moves the cursor to page and fetches it. It does nothing when page
// is already current and either loaded or loading.
func (p *Pager[T]) SetPage(ctx context.Context, page int) {
	if page < 1 {
		page = 1
	}
	p.mu.Lock()
	same := page == p.state.CurrentPage && (p.state.Loaded || p.state.Loading)
	p.mu.Unlock()
	if same {
		return
	}
	p.load(ctx, page)
}

// Refetch re-runs the fetch for the current page unconditionally.
func (p *Pager[T]) Refetch(ctx context.Context) {
	p.mu.Lock()
	page := p.state.CurrentPage
	p.mu.Unlock()
	p.load(ctx, page)
}

func (p *Pager[T]) Next(ctx context.Context) {
	p.mu.Lock()
	page, total := p.state.CurrentPage, p.state.TotalPages
	p.mu.Unlock()
	if total > 0 && page >= total {
		return
	}
	p.SetPage(ctx, page+1)
}

func (p *Pager[T]) Prev(ctx context.Context) {
	p.mu.Lock()
	page := p.state.CurrentPage
	p.mu.Unlock()
	if page <= 1 {
		return
	}
	p.SetPage(ctx, page-1)
}

func (p *Pager[T]) State() State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// OnChange registers fn to be called with a fresh State after every
// transition. Listeners run outside the pager lock.
func (p *Pager[T]) OnChange(fn func(State[T])) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	p.mu.Unlock()
}

func (p *Pager[T]) load(ctx context.Context, page int) {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.state.CurrentPage = page
	p.state.Loading = true
	p.state.Err = ""
	p.mu.Unlock()
	p.notify()

	started := time.Now()
	result, err := p.fetch(ctx, page)
	p.metrics.ObservePageFetch(time.Since(started).Seconds(), err == nil)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		p.log.Debug("dropping superseded page response", zap.Int("page", page))
		return
	}
	p.state.Loading = false
	if err != nil {
		p.state.Items = []T{}
		p.state.Err = err.Error()
		p.state.Loaded = false
		p.mu.Unlock()
		p.log.Warn("page fetch failed", zap.Int("page", page), zap.Error(err))
		p.notify()
		return
	}
	p.state.Items = result.Items
	if p.state.Items == nil {
		p.state.Items = []T{}
	}
	p.state.TotalPages = result.TotalPages
	if result.CurrentPage > 0 {
		p.state.CurrentPage = result.CurrentPage
	}
	p.state.Loaded = true
	p.mu.Unlock()
	p.notify()
}

func (p *Pager[T]) snapshotLocked() State[T] {
	s := p.state
	s.Items = append([]T(nil), p.state.Items...)
	if s.Items == nil {
		s.Items = []T{}
	}
	return s
}

func (p *Pager[T]) notify() {
	p.mu.Lock()
	s := p.snapshotLocked()
	listeners := append([]func(State[T]){}, p.listeners...)
	p.mu.Unlock()
	for _, fn := range listeners {
		fn(s)
	}
}
