package game

import (
	"cmp"
	"slices"
	"strings"
)

// Identifiable is anything stored in a Registry.
type Identifiable interface {
	ID() int64
	Name() string
}

// Registry holds one kind of world object by id.
type Registry[T Identifiable] struct {
	items map[int64]T
}

func NewRegistry[T Identifiable]() *Registry[T] {
	return &Registry[T]{items: make(map[int64]T)}
}

func (r *Registry[T]) Add(v T) {
	r.items[v.ID()] = v
}

func (r *Registry[T]) Remove(id int64) {
	delete(r.items, id)
}

// Get returns the entry for id and whether it exists.
func (r *Registry[T]) Get(id int64) (T, bool) {
	v, ok := r.items[id]
	return v, ok
}

// GetByIDOrName resolves builder input that is either a numeric id or a name.
func (r *Registry[T]) GetByIDOrName(s string) (T, bool) {
	if id, ok := parseID(s); ok {
		return r.Get(id)
	}
	for _, v := range r.All() {
		if strings.EqualFold(v.Name(), s) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func (r *Registry[T]) Len() int {
	return len(r.items)
}

// All returns every entry in id order.
func (r *Registry[T]) All() []T {
	out := make([]T, 0, len(r.items))
	for _, v := range r.items {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b T) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return out
}
