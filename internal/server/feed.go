package server

import (
	"context"
	"sync"
	"sync/atomic"

	"gomedic/internal/model"
)

// Feed holds the latest store projection for readers on other goroutines and fans new ones
// out to subscribers. Delivery is latest-wins; slow subscribers skip intermediate versions.
type Feed struct {
	current atomic.Pointer[model.Projection]

	mu   sync.Mutex
	subs map[int]chan *model.Projection
	next int
}

func NewFeed(initial *model.Projection) *Feed {
	f := &Feed{subs: map[int]chan *model.Projection{}}
	if initial == nil {
		initial = model.NewStore().Projection()
	}
	f.current.Store(initial)
	return f
}

func (f *Feed) Current() *model.Projection {
	return f.current.Load()
}

// Publish replaces the current projection unless p is older.
func (f *Feed) Publish(p *model.Projection) {
	if p == nil {
		return
	}
	for {
		cur := f.current.Load()
		if cur != nil && cur.Version > p.Version {
			return
		}
		if f.current.CompareAndSwap(cur, p) {
			break
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- p:
		default:
		}
	}
}

func (f *Feed) Subscribe() (<-chan *model.Projection, func()) {
	ch := make(chan *model.Projection, 1)
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = ch
	f.mu.Unlock()
	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if c, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(c)
		}
	}
}

// Attach subscribes to store before returning, publishes its current projection and then
// forwards every later one until ctx ends. Mutations made right after Attach returns are
// never missed.
func (f *Feed) Attach(ctx context.Context, store *model.Store) {
	ch, cancel := store.Subscribe()
	f.Publish(store.Projection())
	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case p, ok := <-ch:
				if !ok {
					return
				}
				f.Publish(p)
			}
		}
	}()
}
