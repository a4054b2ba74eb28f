// Package view renders the stores as plain text: the posts list with
// excerpts, authors, relative times and reaction counters, single posts, and
// user pages.
package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jinzhu/inflection"

	"github.com/dreamware/postboard/internal/model"
	"github.com/dreamware/postboard/internal/posts"
	"github.com/dreamware/postboard/internal/users"
)

// ExcerptLength is the number of characters of the body shown in a list.
const ExcerptLength = 75

// UnknownAuthor is shown for posts whose user is not loaded.
const UnknownAuthor = "Unknown author"

var reactionEmoji = map[model.ReactionKind]string{
	model.ThumbsUp: "👍",
	model.Wow:      "😮",
	model.Heart:    "❤️",
	model.Rocket:   "🚀",
	model.Coffee:   "☕",
}

// Excerpt returns the first ExcerptLength characters of body.
func Excerpt(body string) string {
	r := []rune(body)
	if len(r) <= ExcerptLength {
		return body
	}
	return string(r[:ExcerptLength])
}

// AuthorName looks up the name of userID, falling back to UnknownAuthor.
func AuthorName(us users.State, userID int) string {
	if u, ok := users.SelectUserByID(us, userID); ok && u.Name != "" {
		return u.Name
	}
	return UnknownAuthor
}

// Count formats n with the singular or plural form of noun.
func Count(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %s", n, inflection.Plural(noun))
}

// TimeAgo describes ts relative to now, e.g. "5 minutes ago".
func TimeAgo(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	d := now.Sub(ts)
	suffix := " ago"
	if d < 0 {
		d = -d
		suffix = " from now"
	}

	switch {
	case d < time.Minute:
		return "less than a minute" + suffix
	case d < time.Hour:
		return Count(int(d/time.Minute), "minute") + suffix
	case d < 24*time.Hour:
		return "about " + Count(int(d/time.Hour), "hour") + suffix
	case d < 30*24*time.Hour:
		return Count(int(d/(24*time.Hour)), "day") + suffix
	case d < 365*24*time.Hour:
		return Count(int(d/(30*24*time.Hour)), "month") + suffix
	}
	return Count(int(d/(365*24*time.Hour)), "year") + suffix
}

// Reactions renders every counter with its emoji, in display order.
func Reactions(r *model.Reactions) string {
	var counts model.Reactions
	if r != nil {
		counts = *r
	}
	parts := make([]string, 0, len(model.ReactionKinds))
	for _, k := range model.ReactionKinds {
		parts = append(parts, fmt.Sprintf("%s %d", reactionEmoji[k], counts.Count(k)))
	}
	return strings.Join(parts, "  ")
}

// PostsList writes the list of all posts: a loading marker while a fetch is
// in flight, the error text after a failed fetch, excerpts otherwise.
func PostsList(w io.Writer, ps posts.State, us users.State, now time.Time) error {
	if _, err := io.WriteString(w, "Posts\n\n"); err != nil {
		return err
	}
	switch {
	case posts.SelectIsLoading(ps):
		_, err := io.WriteString(w, "Loading...\n")
		return err
	case posts.SelectHasError(ps):
		_, err := fmt.Fprintf(w, "%s\n", posts.SelectError(ps))
		return err
	}
	for _, p := range posts.SelectAllPosts(ps) {
		if err := PostExcerpt(w, p, us, now); err != nil {
			return err
		}
	}
	return nil
}

// PostExcerpt writes one post as it appears in the list.
func PostExcerpt(w io.Writer, p model.Post, us users.State, now time.Time) error {
	_, err := fmt.Fprintf(w, "#%d %s\n%s\nby %s · %s\n%s\n\n",
		p.ID, p.Title, Excerpt(p.Body), AuthorName(us, p.UserID), TimeAgo(p.Date, now), Reactions(p.Reactions))
	return err
}

// SinglePost writes the full post.
func SinglePost(w io.Writer, p model.Post, us users.State, now time.Time) error {
	_, err := fmt.Fprintf(w, "%s\n\n%s\n\nby %s · %s\n%s\n",
		p.Title, p.Body, AuthorName(us, p.UserID), TimeAgo(p.Date, now), Reactions(p.Reactions))
	return err
}

// UserPage writes a user's name followed by the titles of their posts.
func UserPage(w io.Writer, u model.User, ps posts.State) error {
	written := posts.SelectPostsByUser(ps, u.ID)
	if _, err := fmt.Fprintf(w, "%s (%s)\n\n", u.Name, Count(len(written), "post")); err != nil {
		return err
	}
	for _, p := range written {
		if _, err := fmt.Fprintf(w, "- #%d %s\n", p.ID, p.Title); err != nil {
			return err
		}
	}
	return nil
}

// UsersList writes every user's id and name.
func UsersList(w io.Writer, us users.State) error {
	if _, err := io.WriteString(w, "Users\n\n"); err != nil {
		return err
	}
	for _, u := range users.SelectAllUsers(us) {
		if _, err := fmt.Fprintf(w, "- #%d %s\n", u.ID, u.Name); err != nil {
			return err
		}
	}
	return nil
}
