// Package model contains the records held by the stores and exchanged with
// the remote API.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReactionKind names one of the fixed reaction counters on a post.
type ReactionKind string

const (
	ThumbsUp ReactionKind = "thumbsUp"
	Wow      ReactionKind = "wow"
	Heart    ReactionKind = "heart"
	Rocket   ReactionKind = "rocket"
	Coffee   ReactionKind = "coffee"
)

// ReactionKinds lists every reaction kind in display order.
var ReactionKinds = []ReactionKind{ThumbsUp, Wow, Heart, Rocket, Coffee}

// ErrUnknownReaction is returned by ParseReactionKind for names outside the fixed set.
var ErrUnknownReaction = errors.New("model: unknown reaction kind")

// ParseReactionKind maps a reaction name to its kind.
func ParseReactionKind(s string) (ReactionKind, error) {
	for _, k := range ReactionKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReaction, s)
}

// Reactions holds the non-negative counter for each reaction kind.
type Reactions struct {
	ThumbsUp int `json:"thumbsUp"`
	Wow      int `json:"wow"`
	Heart    int `json:"heart"`
	Rocket   int `json:"rocket"`
	Coffee   int `json:"coffee"`
}

// Count returns the counter for kind, or 0 for an unknown kind.
func (r Reactions) Count(kind ReactionKind) int {
	switch kind {
	case ThumbsUp:
		return r.ThumbsUp
	case Wow:
		return r.Wow
	case Heart:
		return r.Heart
	case Rocket:
		return r.Rocket
	case Coffee:
		return r.Coffee
	}
	return 0
}

// Increment returns a copy of r with the counter for kind raised by one.
// Unknown kinds leave the counters unchanged.
func (r Reactions) Increment(kind ReactionKind) Reactions {
	switch kind {
	case ThumbsUp:
		r.ThumbsUp++
	case Wow:
		r.Wow++
	case Heart:
		r.Heart++
	case Rocket:
		r.Rocket++
	case Coffee:
		r.Coffee++
	}
	return r
}

// Post is a single post. Values are treated as immutable; stores replace
// them instead of mutating them in place.
//
// Reactions is nil when a payload carried no reaction data, which lets an
// upsert keep the counters already stored for the post.
type Post struct {
	ID        int        `json:"id"`
	UserID    int        `json:"userId"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Date      time.Time  `json:"date"`
	Reactions *Reactions `json:"reactions,omitempty"`
}

// Merge returns p with every non-zero field of update laid over it.
// Zero values count as absent, so a merge can never clear Title or Body.
func (p Post) Merge(update Post) Post {
	if update.ID != 0 {
		p.ID = update.ID
	}
	if update.UserID != 0 {
		p.UserID = update.UserID
	}
	if update.Title != "" {
		p.Title = update.Title
	}
	if update.Body != "" {
		p.Body = update.Body
	}
	if !update.Date.IsZero() {
		p.Date = update.Date
	}
	if update.Reactions != nil {
		r := *update.Reactions
		p.Reactions = &r
	}
	return p
}

// Draft is a post the UI wants to create; it has no id yet.
type Draft struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

// ErrInvalidDraft is returned by Draft.Validate.
var ErrInvalidDraft = errors.New("model: invalid draft")

// Validate reports which of the required draft fields are missing.
func (d Draft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Body) == "" {
		missing = append(missing, "body")
	}
	if d.UserID <= 0 {
		missing = append(missing, "userId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidDraft, strings.Join(missing, ", "))
	}
	return nil
}
