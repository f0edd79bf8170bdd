package service

import (
	"context"

	"github.com/readstack/library-service/internal/model"
)

func (s *Service) GetProfile(ctx context.Context, username string) (model.Profile, error) {
	return s.repo.GetProfile(ctx, username)
}

func (s *Service) UpdateProfile(ctx context.Context, username string, req model.UpdateProfileRequest) (model.Profile, error) {
	var imageKey *string
	if req.Image != nil {
		key, err := s.uploadAsset(ctx, req.Image)
		if err != nil {
			return model.Profile{}, err
		}
		imageKey = &key
	}
	profile, err := s.repo.UpdateProfile(ctx, username, req.Description, imageKey)
	if err != nil && imageKey != nil {
		s.deleteAsset(ctx, imageKey)
	}
	return profile, err
}

func (s *Service) SetFavorite(ctx context.Context, username string, bookID int) error {
	return s.repo.SetFavorite(ctx, username, bookID)
}

func (s *Service) GetFavorite(ctx context.Context, username string) (*model.Book, error) {
	return s.repo.GetFavorite(ctx, username)
}
