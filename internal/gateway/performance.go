package gateway

import (
	"context"
	"fmt"
	"net/http"

	"hrportal/internal/domain/performance"
)

func reviewsPath(employeeID int64) string {
	return fmt.Sprintf("/api/employees/%d/performance", employeeID)
}

func (c *Client) ListReviews(ctx context.Context, creds Credentials, employeeID int64) ([]performance.Review, error) {
	out := []performance.Review{}
	if err := c.get(ctx, creds, reviewsPath(employeeID), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []performance.Review{}
	}
	return out, nil
}

func (c *Client) CreateReview(ctx context.Context, creds Credentials, employeeID int64, review performance.Review) (performance.Review, error) {
	out := review
	err := c.send(ctx, creds, http.MethodPost, reviewsPath(employeeID), review, &out)
	return out, err
}

func (c *Client) UpdateReview(ctx context.Context, creds Credentials, employeeID, reviewID int64, review performance.Review) (performance.Review, error) {
	out := review
	err := c.send(ctx, creds, http.MethodPut, fmt.Sprintf("%s/%d", reviewsPath(employeeID), reviewID), review, &out)
	return out, err
}
