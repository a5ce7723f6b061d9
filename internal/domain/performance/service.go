package performance

import (
	"context"

	"hrportal/internal/domain/auth"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListReviews(ctx context.Context, creds auth.Credentials, employeeID int64) ([]Review, error) {
	return s.store.ListReviews(ctx, creds, employeeID)
}

func (s *Service) CreateReview(ctx context.Context, creds auth.Credentials, reviewer *auth.Principal, employeeID int64, in ReviewInput) (Review, error) {
	review, err := NewReview(employeeID, reviewer, in)
	if err != nil {
		return Review{}, err
	}
	return s.store.CreateReview(ctx, creds, employeeID, review)
}

func (s *Service) UpdateReview(ctx context.Context, creds auth.Credentials, reviewer *auth.Principal, employeeID, reviewID int64, in ReviewInput) (Review, error) {
	review, err := NewReview(employeeID, reviewer, in)
	if err != nil {
		return Review{}, err
	}
	review.ID = reviewID
	return s.store.UpdateReview(ctx, creds, employeeID, reviewID, review)
}
