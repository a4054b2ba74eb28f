package posts

import (
	"time"

	"golang.org/x/exp/slices"

	"github.com/dreamware/postboard/internal/entity"
	"github.com/dreamware/postboard/internal/lifecycle"
	"github.com/dreamware/postboard/internal/model"
	"github.com/dreamware/postboard/internal/store"
)

// State is the posts slice of application state.
type State struct {
	Posts  entity.Collection[model.Post]
	Status lifecycle.Status
}

// newestFirst orders posts by descending date.
func newestFirst(a, b model.Post) int {
	return b.Date.Compare(a.Date)
}

// InitialState returns an empty, idle state.
func InitialState() State {
	return State{
		Posts: entity.New(entity.Options[model.Post]{
			ID:      func(p model.Post) int { return p.ID },
			Merge:   model.Post.Merge,
			Compare: newestFirst,
		}),
		Status: lifecycle.Idle(),
	}
}

type fetchPending struct{}

type fetchFulfilled struct {
	posts []model.Post
	now   time.Time
}

type fetchRejected struct {
	message string
}

type postAdded struct {
	post model.Post
	now  time.Time
}

type postUpdated struct {
	post model.Post
	now  time.Time
}

type postDeleted struct {
	id int
}

type reactionAdded struct {
	postID int
	kind   model.ReactionKind
}

func (fetchPending) ActionType() string   { return "posts/fetchPosts/pending" }
func (fetchFulfilled) ActionType() string { return "posts/fetchPosts/fulfilled" }
func (fetchRejected) ActionType() string  { return "posts/fetchPosts/rejected" }
func (postAdded) ActionType() string      { return "posts/addNewPost/fulfilled" }
func (postUpdated) ActionType() string    { return "posts/updatePost/fulfilled" }
func (postDeleted) ActionType() string    { return "posts/deletePost/fulfilled" }
func (reactionAdded) ActionType() string  { return "posts/reactionAdded" }

// reduce is the single transition function for State.
func reduce(s State, action store.Action) State {
	switch a := action.(type) {
	case fetchPending:
		s.Status = s.Status.Pending()

	case fetchFulfilled:
		s.Status = s.Status.Fulfilled()
		loaded := make([]model.Post, 0, len(a.posts))
		for i, p := range a.posts {
			p.Date = a.now.Add(-time.Duration(i+1) * time.Minute).UTC()
			p.Reactions = &model.Reactions{}
			loaded = append(loaded, p)
		}
		s.Posts = s.Posts.UpsertMany(loaded)

	case fetchRejected:
		s.Status = s.Status.Rejected(a.message)

	case postAdded:
		p := a.post
		p.ID = nextID(s.Posts)
		p.Date = a.now.UTC()
		p.Reactions = &model.Reactions{}
		s.Posts = s.Posts.UpsertOne(p)

	case postUpdated:
		if a.post.ID == 0 {
			return s
		}
		p := a.post
		p.Date = a.now.UTC()
		if _, ok := s.Posts.ByID(p.ID); !ok && p.Reactions == nil {
			p.Reactions = &model.Reactions{}
		}
		s.Posts = s.Posts.UpsertOne(p)

	case postDeleted:
		s.Posts = s.Posts.RemoveOne(a.id)

	case reactionAdded:
		p, ok := s.Posts.ByID(a.postID)
		if !ok || !validKind(a.kind) {
			return s
		}
		var counts model.Reactions
		if p.Reactions != nil {
			counts = *p.Reactions
		}
		counts = counts.Increment(a.kind)
		p.Reactions = &counts
		s.Posts = s.Posts.UpsertOne(p)
	}
	return s
}

// nextID returns one more than the largest stored id, or 1 when empty.
func nextID(c entity.Collection[model.Post]) int {
	ids := c.IDs()
	if len(ids) == 0 {
		return 1
	}
	return slices.Max(ids) + 1
}

func validKind(kind model.ReactionKind) bool {
	return slices.Contains(model.ReactionKinds, kind)
}
