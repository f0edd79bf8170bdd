package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/readstack/library-service/internal/errs"
	"github.com/readstack/library-service/internal/model"
	"github.com/readstack/library-service/internal/repository"
	"github.com/readstack/library-service/pkg/assets"
)

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	assets   *assets.Client
	tokenTTL time.Duration
}

// NewService wires the business layer. The assets client may be nil when no
// asset host is configured; image operations then fail with ErrAssetsDisabled.
func NewService(repo repository.Repository, assetClient *assets.Client, tokenTTL time.Duration, log *zap.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{
		log:      log,
		repo:     repo,
		assets:   assetClient,
		tokenTTL: tokenTTL,
	}
}

func (s *Service) uploadAsset(ctx context.Context, file *model.Upload) (string, error) {
	if s.assets == nil {
		return "", errs.ErrAssetsDisabled
	}
	return s.assets.Upload(ctx, file.Filename, file.Content, file.ContentType)
}

// deleteAsset is best effort: failures are logged, never propagated.
func (s *Service) deleteAsset(ctx context.Context, key *string) {
	if s.assets == nil || key == nil || *key == "" {
		return
	}
	if err := s.assets.Delete(ctx, *key); err != nil {
		s.log.Warn("asset delete failed", zap.String("key", *key), zap.Error(err))
	}
}
