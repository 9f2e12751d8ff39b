package service

import (
	"context"
	"starcraft-tracker/internal/domain"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

type Page[T any] struct {
	Items      []T
	Page       int
	PerPage    int
	TotalItems int
	TotalPages int
}

func (p Page[T]) HasPrev() bool { return p.Page > 1 }
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// Paginate clamps page into [1, TotalPages]. An empty list still has one page.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage < 1 {
		perPage = 1
	}
	total := len(items)
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * perPage
	end := min(start+perPage, total)
	if start > total {
		start = total
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: pages,
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Guard lets one save run at a time; a second submission fails fast with
// domain.ErrBusy instead of queueing.
type Guard struct {
	sem *semaphore.Weighted
}

func NewGuard() *Guard {
	return &Guard{sem: semaphore.NewWeighted(1)}
}

func (g *Guard) Do(fn func() error) error {
	if !g.sem.TryAcquire(1) {
		return domain.ErrBusy
	}
	defer g.sem.Release(1)
	return fn()
}

type Future[T any] struct {
	group *errgroup.Group
	value T
}

// Go starts fn in the background. Wait blocks until it returns.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	g, gctx := errgroup.WithContext(ctx)
	f := &Future[T]{group: g}
	g.Go(func() error {
		v, err := fn(gctx)
		f.value = v
		return err
	})
	return f
}

func (f *Future[T]) Wait() (T, error) {
	err := f.group.Wait()
	return f.value, err
}
