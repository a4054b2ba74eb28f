package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dreamware/postboard/internal/model"
)

// FetchUsers returns every user in the order the API lists them.
func (c *Client) FetchUsers(ctx context.Context) ([]model.User, error) {
	raw, err := c.do(ctx, http.MethodGet, []string{"users"}, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var payload []wireUser
	if err := decode(raw, &payload); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: data format is incorrect or array is empty", ErrMalformedPayload)
	}
	users := make([]model.User, 0, len(payload))
	for i, u := range payload {
		if u.ID <= 0 {
			return nil, fmt.Errorf("%w: user at index %d has no id", ErrMalformedPayload, i)
		}
		users = append(users, u.toModel())
	}
	return users, nil
}
