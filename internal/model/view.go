package model

import (
	"iter"
	"slices"
)

// View is a read-only sequence handed out by the Store. The backing array is never written
// after the view is created; Items returns a copy so callers cannot reach it either.
type View[T any] struct {
	items []T
}

func newView[T any](items []T) View[T] {
	return View[T]{items: items}
}

func (v View[T]) Len() int { return len(v.items) }

// At panics when i is out of range, like a slice index.
func (v View[T]) At(i int) T { return v.items[i] }

func (v View[T]) Items() []T { return slices.Clone(v.items) }

func (v View[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, it := range v.items {
			if !yield(i, it) {
				return
			}
		}
	}
}
