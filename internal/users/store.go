// Package users is the client-side store for users. It is read-only: the
// collection keeps the order the API lists users in and is replaced wholesale
// by each successful fetch.
package users

import (
	"context"
	"log/slog"

	"github.com/dreamware/postboard/internal/entity"
	"github.com/dreamware/postboard/internal/lifecycle"
	"github.com/dreamware/postboard/internal/model"
	"github.com/dreamware/postboard/internal/store"
)

// State is the users slice of application state.
type State struct {
	Users  entity.Collection[model.User]
	Status lifecycle.Status
}

// InitialState returns an empty, idle state.
func InitialState() State {
	return State{
		Users:  entity.New(entity.Options[model.User]{ID: func(u model.User) int { return u.ID }}),
		Status: lifecycle.Idle(),
	}
}

type fetchPending struct{}

type fetchFulfilled struct {
	users []model.User
}

type fetchRejected struct {
	message string
}

func (fetchPending) ActionType() string   { return "users/fetchUsers/pending" }
func (fetchFulfilled) ActionType() string { return "users/fetchUsers/fulfilled" }
func (fetchRejected) ActionType() string  { return "users/fetchUsers/rejected" }

func reduce(s State, action store.Action) State {
	switch a := action.(type) {
	case fetchPending:
		s.Status = s.Status.Pending()
	case fetchFulfilled:
		s.Status = s.Status.Fulfilled()
		s.Users = s.Users.SetAll(a.users)
	case fetchRejected:
		s.Status = s.Status.Rejected(a.message)
	}
	return s
}

// API is the remote collaborator the store reads from.
type API interface {
	FetchUsers(ctx context.Context) ([]model.User, error)
}

// Store owns the users State. Safe for concurrent use.
type Store struct {
	state  *store.Store[State]
	api    API
	logger *slog.Logger
}

// NewStore creates an empty store backed by remote.
func NewStore(remote API, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:  store.New(InitialState(), reduce),
		api:    remote,
		logger: logger.With("store", "users"),
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

// FetchUsers replaces the collection with the users the API lists.
func (s *Store) FetchUsers(ctx context.Context) error {
	s.state.Dispatch(fetchPending{})

	loaded, err := s.api.FetchUsers(ctx)
	if err != nil {
		s.logger.Warn("fetch users failed", "err", err)
		s.state.Dispatch(fetchRejected{message: err.Error()})
		return err
	}

	s.state.Dispatch(fetchFulfilled{users: loaded})
	s.logger.Info("fetched users", "count", len(loaded))
	return nil
}

// SelectAllUsers returns every user in fetch order.
func SelectAllUsers(s State) []model.User {
	return s.Users.All()
}

// SelectUserByID returns the user with id and whether it exists.
func SelectUserByID(s State, id int) (model.User, bool) {
	return s.Users.ByID(id)
}

// SelectIsLoading reports whether a fetch is in flight.
func SelectIsLoading(s State) bool { return s.Status.IsLoading }

// SelectHasError reports whether the last fetch failed.
func SelectHasError(s State) bool { return s.Status.HasError }

// SelectError returns the message of the last failed fetch, if any.
func SelectError(s State) string { return s.Status.Error }
