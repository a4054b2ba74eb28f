// Package entity provides the normalized collection used by the postboard
// stores: an ordered list of ids next to a map from id to record.
//
// # Overview
//
// A Collection keeps two views of the same set of records:
//
//	┌───────────────────────────────┐
//	│          Collection           │
//	├───────────────────────────────┤
//	│  ids:      [3, 1, 2]          │
//	│  entities: {1: r1, 2: r2, 3: r3}
//	└───────────────────────────────┘
//
// The id list holds exactly the keys of the map, without duplicates. When the
// collection is configured with a comparator the list is kept sorted by it
// after every mutation; otherwise it keeps insertion order.
//
// # Mutations
//
// Collections are values. UpsertOne, UpsertMany, SetAll and RemoveOne never
// modify the receiver; they return a new Collection. This lets a store
// replace its whole state on each event and hand out snapshots that no later
// event can change.
//
//	c := entity.New(entity.Options[model.Post]{ID: func(p model.Post) int { return p.ID }})
//	c = c.UpsertOne(model.Post{ID: 1, Title: "hello"})
//	p, ok := c.ByID(1)
//
// Upserting a record whose id is already present merges it over the stored
// record with Options.Merge (plain replacement when Merge is nil). Within one
// UpsertMany batch records are applied in input order, so the last one wins
// on conflicting fields.
//
// # Ordering
//
// Sorting is stable: records the comparator considers equal keep the
// relative order they had before the mutation. Newly inserted ids start at
// the end of the list, in input order.
//
// # Thread Safety
//
// A Collection is never mutated after it is returned, so values may be read
// from any number of goroutines. Serializing updates is the job of the
// owning store.
package entity
