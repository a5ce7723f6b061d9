package performance

import (
	"context"

	"hrportal/internal/domain/auth"
)

type StoreAPI interface {
	ListReviews(ctx context.Context, creds auth.Credentials, employeeID int64) ([]Review, error)
	CreateReview(ctx context.Context, creds auth.Credentials, employeeID int64, review Review) (Review, error)
	UpdateReview(ctx context.Context, creds auth.Credentials, employeeID, reviewID int64, review Review) (Review, error)
}
