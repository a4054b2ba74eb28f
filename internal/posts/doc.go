// Package posts is the client-side store for posts: a normalized collection
// ordered most-recent-first, the lifecycle of the last fetch, and the
// operations that keep both in step with the remote API.
//
// # State
//
// State is a value. Every event (fetch pending/fulfilled/rejected, post
// added, updated, deleted, reaction added) goes through one pure reducer that
// returns the next State; Store serializes those events and notifies
// subscribers.
//
// # Remote data quirks
//
// The remote API serves posts without timestamps or reaction counters, so a
// fetch stamps post i (in arrival order) with "now minus i+1 minutes" and
// zeroed reactions before upserting.
//
// The API also answers every creation with the same placeholder id. As a
// workaround the store discards that id and assigns max(existing ids)+1,
// which only holds while this process is the sole writer; it is not a general
// id scheme.
//
// # Failures
//
// Fetch failures are recorded in State.Status and returned. A failed create
// is returned to the caller and leaves state unchanged so the caller can keep
// its draft. Update and delete outcomes that cannot be applied return an
// error wrapping ErrNotApplied and leave state unchanged; a transport failure
// on update still applies the caller's post locally.
//
// Overlapping fetches are not cancelled: whichever resolves last wins.
package posts
