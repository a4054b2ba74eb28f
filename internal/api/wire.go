package api

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/dreamware/postboard/internal/model"
)

// flexInt accepts both JSON numbers and numeric strings; form values sent to
// the API come back as strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid integer %s", b)
		}
		if unquoted == "" {
			return nil
		}
		s = unquoted
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %s", b)
	}
	*f = flexInt(n)
	return nil
}

// wirePost is a post as the API serves it: no date and no reactions.
type wirePost struct {
	ID     flexInt `json:"id"`
	UserID flexInt `json:"userId"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
}

func (w wirePost) toModel() model.Post {
	return model.Post{
		ID:     int(w.ID),
		UserID: int(w.UserID),
		Title:  w.Title,
		Body:   w.Body,
	}
}

// wireUser keeps model.User's fields but reads the id leniently.
type wireUser struct {
	model.User
	ID flexInt `json:"id"`
}

func (w wireUser) toModel() model.User {
	u := w.User
	u.ID = int(w.ID)
	return u
}
