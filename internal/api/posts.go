package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dreamware/postboard/internal/model"
)

// FetchPosts returns every post. An empty list is reported as
// ErrMalformedPayload, like any other unusable body.
func (c *Client) FetchPosts(ctx context.Context) ([]model.Post, error) {
	raw, err := c.do(ctx, http.MethodGet, []string{"posts"}, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var payload []wirePost
	if err := decode(raw, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: data format is incorrect or array is empty", ErrMalformedPayload)
	}
	posts := make([]model.Post, 0, len(payload))
	for i, p := range payload {
		if p.ID <= 0 {
			return nil, fmt.Errorf("%w: post at index %d has no id", ErrMalformedPayload, i)
		}
		posts = append(posts, p.toModel())
	}
	return posts, nil
}

// CreatePost sends draft and returns the created post. The API answers 201;
// the id it returns is not reliable and callers are expected to replace it.
func (c *Client) CreatePost(ctx context.Context, draft model.Draft) (model.Post, error) {
	raw, err := c.do(ctx, http.MethodPost, []string{"posts"}, draft, http.StatusCreated)
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to add new post: %w", err)
	}
	var payload wirePost
	if err := decode(raw, &payload); err != nil {
		return model.Post{}, fmt.Errorf("failed to add new post: %w", err)
	}
	return payload.toModel(), nil
}

// UpdatePost sends post to PUT /posts/{id} and returns the API's echo.
// The returned post has ID 0 when the response carried no id.
func (c *Client) UpdatePost(ctx context.Context, post model.Post) (model.Post, error) {
	body := wirePost{
		ID:     flexInt(post.ID),
		UserID: flexInt(post.UserID),
		Title:  post.Title,
		Body:   post.Body,
	}
	raw, err := c.do(ctx, http.MethodPut, []string{"posts", strconv.Itoa(post.ID)}, body, http.StatusOK)
	if err != nil {
		return model.Post{}, err
	}
	var payload wirePost
	if err := decode(raw, &payload); err != nil {
		return model.Post{}, err
	}
	return payload.toModel(), nil
}

// DeletePost removes the post with post.ID. Anything other than 200 is an error.
func (c *Client) DeletePost(ctx context.Context, post model.Post) error {
	_, err := c.do(ctx, http.MethodDelete, []string{"posts", strconv.Itoa(post.ID)}, nil, http.StatusOK)
	return err
}
