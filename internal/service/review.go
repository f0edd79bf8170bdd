package service

import (
	"context"

	"github.com/readstack/library-service/internal/model"
)

func (s *Service) SubmitReview(ctx context.Context, username string, req model.CreateReviewRequest) (model.Review, error) {
	return s.repo.UpsertReview(ctx, username, req)
}

func (s *Service) ListReviews(ctx context.Context) ([]model.ReviewView, error) {
	return s.repo.ListReviews(ctx)
}
