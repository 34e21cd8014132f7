package models

// Collection is an ordered, immutable snapshot of keyed entities.
//
// Each mutating method returns a new Collection backed by a fresh slice, so a
// snapshot handed out earlier never observes later changes.
type Collection[T Keyed] struct {
	items []T
}

// NewCollection copies items into a new [Collection].
func NewCollection[T Keyed](items []T) Collection[T] {
	return Collection[T]{items: clone(items)}
}

// Items returns a copy of the entities in order.
func (c Collection[T]) Items() []T {
	return clone(c.items)
}

func (c Collection[T]) Len() int {
	return len(c.items)
}

// Find returns the entity with the given key.
func (c Collection[T]) Find(id int) (T, bool) {
	for _, item := range c.items {
		if item.Key() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c Collection[T]) Contains(id int) bool {
	_, ok := c.Find(id)
	return ok
}

// Upsert replaces the entity sharing item's key in place, or appends item
// when no such entity exists.
func (c Collection[T]) Upsert(item T) Collection[T] {
	next := clone(c.items)
	for i := range next {
		if next[i].Key() == item.Key() {
			next[i] = item
			return Collection[T]{items: next}
		}
	}
	return Collection[T]{items: append(next, item)}
}

// Remove drops every entity with the given key.
func (c Collection[T]) Remove(id int) Collection[T] {
	next := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if item.Key() != id {
			next = append(next, item)
		}
	}
	return Collection[T]{items: next}
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
