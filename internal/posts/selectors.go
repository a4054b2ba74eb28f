package posts

import "github.com/dreamware/postboard/internal/model"

// SelectAllPosts returns every post, most recent first.
func SelectAllPosts(s State) []model.Post {
	return s.Posts.All()
}

// SelectPostByID returns the post with id and whether it exists.
func SelectPostByID(s State, id int) (model.Post, bool) {
	return s.Posts.ByID(id)
}

// SelectPostIDs returns the ordered post ids.
func SelectPostIDs(s State) []int {
	return s.Posts.IDs()
}

// SelectPostsByUser returns the posts written by userID, most recent first.
func SelectPostsByUser(s State, userID int) []model.Post {
	return s.Posts.Filter(func(p model.Post) bool { return p.UserID == userID })
}

// SelectIsLoading reports whether a fetch is in flight.
func SelectIsLoading(s State) bool { return s.Status.IsLoading }

// SelectHasError reports whether the last fetch failed.
func SelectHasError(s State) bool { return s.Status.HasError }

// SelectError returns the message of the last failed fetch, if any.
func SelectError(s State) string { return s.Status.Error }
