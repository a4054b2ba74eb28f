package entity

import (
	"golang.org/x/exp/slices"
)

// Options configures how a Collection identifies, merges and orders records.
type Options[T any] struct {
	// ID extracts the unique id of a record. Required.
	ID func(T) int

	// Merge combines a stored record with an incoming one for the same id.
	// Nil means the incoming record replaces the stored one.
	Merge func(existing, update T) T

	// Compare orders records: negative when a sorts before b. Nil keeps
	// insertion order.
	Compare func(a, b T) int
}

// Collection is an ordered id list plus an id to record map.
// Build collections with New; the zero value has no ID function.
type Collection[T any] struct {
	opts     *Options[T]
	ids      []int
	entities map[int]T
}

// New returns an empty collection using opts.
func New[T any](opts Options[T]) Collection[T] {
	if opts.ID == nil {
		panic("entity: nil ID function")
	}
	return Collection[T]{
		opts:     &opts,
		entities: make(map[int]T),
	}
}

// clone copies the id list and map so the receiver stays untouched.
func (c Collection[T]) clone() Collection[T] {
	next := Collection[T]{
		opts:     c.opts,
		ids:      slices.Clone(c.ids),
		entities: make(map[int]T, len(c.entities)),
	}
	for id, rec := range c.entities {
		next.entities[id] = rec
	}
	return next
}

// UpsertOne inserts rec, or merges it into the stored record with the same id.
func (c Collection[T]) UpsertOne(rec T) Collection[T] {
	return c.UpsertMany([]T{rec})
}

// UpsertMany applies UpsertOne for every record in input order.
func (c Collection[T]) UpsertMany(records []T) Collection[T] {
	if len(records) == 0 {
		return c
	}
	next := c.clone()
	for _, rec := range records {
		id := next.opts.ID(rec)
		if existing, ok := next.entities[id]; ok {
			if next.opts.Merge != nil {
				rec = next.opts.Merge(existing, rec)
			}
			next.entities[id] = rec
			continue
		}
		next.entities[id] = rec
		next.ids = append(next.ids, id)
	}
	next.sort()
	return next
}

// SetAll replaces every entry with records. A repeated id keeps its first
// position and the last record given for it.
func (c Collection[T]) SetAll(records []T) Collection[T] {
	next := Collection[T]{
		opts:     c.opts,
		ids:      make([]int, 0, len(records)),
		entities: make(map[int]T, len(records)),
	}
	for _, rec := range records {
		id := next.opts.ID(rec)
		if _, ok := next.entities[id]; !ok {
			next.ids = append(next.ids, id)
		}
		next.entities[id] = rec
	}
	next.sort()
	return next
}

// RemoveOne drops the record with id. Removing an absent id is a no-op.
func (c Collection[T]) RemoveOne(id int) Collection[T] {
	if _, ok := c.entities[id]; !ok {
		return c
	}
	next := c.clone()
	delete(next.entities, id)
	next.ids = slices.DeleteFunc(next.ids, func(v int) bool { return v == id })
	return next
}

func (c Collection[T]) sort() {
	if c.opts.Compare == nil {
		return
	}
	slices.SortStableFunc(c.ids, func(a, b int) int {
		return c.opts.Compare(c.entities[a], c.entities[b])
	})
}

// All returns the records in id-list order.
func (c Collection[T]) All() []T {
	out := make([]T, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.entities[id])
	}
	return out
}

// ByID returns the record stored under id and whether it was found.
func (c Collection[T]) ByID(id int) (T, bool) {
	rec, ok := c.entities[id]
	return rec, ok
}

// IDs returns a copy of the ordered id list.
func (c Collection[T]) IDs() []int {
	return slices.Clone(c.ids)
}

// Filter returns, in id-list order, the records keep reports true for.
func (c Collection[T]) Filter(keep func(T) bool) []T {
	out := []T{}
	for _, id := range c.ids {
		if rec := c.entities[id]; keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of records.
func (c Collection[T]) Len() int {
	return len(c.ids)
}
