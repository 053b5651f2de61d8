// Package optimistic applies library edits to a local view immediately and
// persists them remotely in the background, rolling the whole view back if
// any persist fails. Callers see the change at once; the view never holds a
// partially persisted state.
package optimistic

import (
	"context"
	"sync"

	"github.com/xeenaps/shelf/internal/library"
)

// maxConcurrentPersists bounds the remote fan-out for a batch edit.
const maxConcurrentPersists = 4

// View is the local item list the engine mutates. Implementations must be
// safe for the single-writer pattern the engine follows: one optimistic
// write up front, at most one rollback write after.
type View interface {
	Items() []library.Item
	SetItems(items []library.Item)
}

// Engine coordinates optimistic local edits with remote persistence.
type Engine struct {
	view View

	persist func(ctx context.Context, it library.Item) error
	remove  func(ctx context.Context, id string) error

	// onError is invoked at most once per batch, after rollback.
	onError func(err error)
}

// New creates an engine over view. persist and remove are the remote
// operations; onError may be nil.
func New(view View, persist func(context.Context, library.Item) error, remove func(context.Context, string) error, onError func(error)) *Engine {
	return &Engine{view: view, persist: persist, remove: remove, onError: onError}
}

// Update applies the edited items to the view in a single write, then
// persists each concurrently. If any persist fails the pre-edit view is
// restored wholesale and onError fires once with the first failure. The
// error never propagates to the caller; the restored view is the signal.
func (e *Engine) Update(ctx context.Context, edited []library.Item) {
	if len(edited) == 0 {
		return
	}
	snapshot := e.view.Items()

	byID := make(map[string]library.Item, len(edited))
	for _, it := range edited {
		it.Touch()
		byID[it.ID] = it
	}

	next := make([]library.Item, len(snapshot))
	existing := make(map[string]bool, len(snapshot))
	for i, it := range snapshot {
		if repl, ok := byID[it.ID]; ok {
			next[i] = repl
			existing[it.ID] = true
		} else {
			next[i] = it
		}
	}
	for _, it := range edited {
		if !existing[it.ID] {
			next = append(next, byID[it.ID])
		}
	}
	e.view.SetItems(next)

	if err := e.fanOut(ctx, len(edited), func(i int) error {
		return e.persist(ctx, edited[i])
	}); err != nil {
		e.view.SetItems(snapshot)
		e.fail(err)
	}
}

// Delete removes the given ids from the view, then deletes them remotely
// with the same all-or-rollback contract as Update.
func (e *Engine) Delete(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	snapshot := e.view.Items()

	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		doomed[id] = true
	}
	next := make([]library.Item, 0, len(snapshot))
	for _, it := range snapshot {
		if !doomed[it.ID] {
			next = append(next, it)
		}
	}
	e.view.SetItems(next)

	if err := e.fanOut(ctx, len(ids), func(i int) error {
		return e.remove(ctx, ids[i])
	}); err != nil {
		e.view.SetItems(snapshot)
		e.fail(err)
	}
}

// fanOut runs n indexed operations with bounded concurrency and returns the
// first error encountered, after all operations finish.
func (e *Engine) fanOut(ctx context.Context, n int, op func(i int) error) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	sem := make(chan struct{}, maxConcurrentPersists)

	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := op(i); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	return firstErr
}

func (e *Engine) fail(err error) {
	if e.onError != nil {
		e.onError(err)
	}
}
