package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/exp/slices"

	"github.com/dreamware/postboard/internal/api"
	"github.com/dreamware/postboard/internal/model"
	"github.com/dreamware/postboard/internal/store"
)

// ErrNotApplied is wrapped by update and delete errors that left state unchanged.
var ErrNotApplied = errors.New("posts: change not applied")

// API is the remote collaborator the store reads from and writes to.
type API interface {
	FetchPosts(ctx context.Context) ([]model.Post, error)
	CreatePost(ctx context.Context, draft model.Draft) (model.Post, error)
	UpdatePost(ctx context.Context, post model.Post) (model.Post, error)
	DeletePost(ctx context.Context, post model.Post) error
}

// Clock provides the current time. Tests use fixed clocks.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Store owns the posts State and runs the operations that change it.
// Safe for concurrent use.
type Store struct {
	state  *store.Store[State]
	api    API
	clock  Clock
	logger *slog.Logger
}

// NewStore creates an empty store backed by remote. A nil clock uses the
// system clock; a nil logger uses slog.Default().
func NewStore(remote API, clock Clock, logger *slog.Logger) *Store {
	if clock == nil {
		clock = systemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:  store.New(InitialState(), reduce),
		api:    remote,
		clock:  clock,
		logger: logger.With("store", "posts"),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	return s.state.Snapshot()
}

// Subscribe calls l after every change until the returned function is called.
func (s *Store) Subscribe(l func(State)) (unsubscribe func()) {
	return s.state.Subscribe(l)
}

func (s *Store) dispatch(a store.Action) State {
	s.logger.Debug("dispatch", "action", a.ActionType())
	return s.state.Dispatch(a)
}

// FetchPosts loads every post from the API and upserts it with a synthesized
// date and zeroed reactions. The outcome is recorded in State.Status.
func (s *Store) FetchPosts(ctx context.Context) error {
	s.dispatch(fetchPending{})

	loaded, err := s.api.FetchPosts(ctx)
	if err != nil {
		s.logger.Warn("fetch posts failed", "err", err)
		s.dispatch(fetchRejected{message: err.Error()})
		return err
	}

	next := s.dispatch(fetchFulfilled{posts: loaded, now: s.clock.Now()})
	s.logger.Info("fetched posts", "received", len(loaded), "stored", next.Posts.Len())
	return nil
}

// AddNewPost creates draft remotely and stores the result under a
// synthesized id. The stored post is returned. On failure nothing is stored
// and the error is returned so the caller can keep its draft.
func (s *Store) AddNewPost(ctx context.Context, draft model.Draft) (model.Post, error) {
	if err := draft.Validate(); err != nil {
		return model.Post{}, err
	}

	created, err := s.api.CreatePost(ctx, draft)
	if err != nil {
		s.logger.Warn("failed to save the post", "err", err)
		return model.Post{}, err
	}
	next := s.dispatch(postAdded{post: created, now: s.clock.Now()})

	// The post added by this dispatch holds the largest id of the state it produced.
	id := slices.Max(next.Posts.IDs())
	post, _ := next.Posts.ByID(id)
	s.logger.Info("added post", "id", id, "remoteID", created.ID)
	return post, nil
}

// UpdatePost sends post to the API and upserts the echoed record with a
// refreshed date. When the request itself fails, post is applied locally
// instead. A response without an id is not applied and returns an error
// wrapping ErrNotApplied.
func (s *Store) UpdatePost(ctx context.Context, post model.Post) (model.Post, error) {
	updated, err := s.api.UpdatePost(ctx, post)
	switch {
	case errors.Is(err, api.ErrTransport):
		s.logger.Warn("update request failed, applying locally", "id", post.ID, "err", err)
		updated = post
	case err != nil:
		s.logger.Warn("update could not be completed", "id", post.ID, "err", err)
		return model.Post{}, fmt.Errorf("%w: %v", ErrNotApplied, err)
	}

	if updated.ID == 0 {
		s.logger.Warn("update could not be completed", "id", post.ID, "reason", "response has no id")
		return model.Post{}, fmt.Errorf("%w: update response has no id", ErrNotApplied)
	}

	next := s.dispatch(postUpdated{post: updated, now: s.clock.Now()})
	stored, _ := next.Posts.ByID(updated.ID)
	return stored, nil
}

// DeletePost deletes post remotely and then removes it from the store. Any
// failure leaves state unchanged and returns an error wrapping ErrNotApplied.
func (s *Store) DeletePost(ctx context.Context, post model.Post) error {
	if post.ID == 0 {
		s.logger.Warn("delete could not be completed", "reason", "post has no id")
		return fmt.Errorf("%w: post has no id", ErrNotApplied)
	}
	if err := s.api.DeletePost(ctx, post); err != nil {
		s.logger.Warn("delete could not be completed", "id", post.ID, "err", err)
		return fmt.Errorf("%w: %v", ErrNotApplied, err)
	}

	s.dispatch(postDeleted{id: post.ID})
	s.logger.Info("deleted post", "id", post.ID)
	return nil
}

// ReactionIncrement adds one to the kind counter of the post with postID.
// It reports false, changing nothing, when the post is not stored.
func (s *Store) ReactionIncrement(postID int, kind model.ReactionKind) (model.Post, bool) {
	next := s.dispatch(reactionAdded{postID: postID, kind: kind})
	return next.Posts.ByID(postID)
}
