package service

import (
	"context"

	"github.com/readstack/library-service/internal/model"
	"github.com/readstack/library-service/pkg/kafka"
)

// RecordEvent persists an audit event consumed from the broker.
func (s *Service) RecordEvent(ctx context.Context, event kafka.Event) error {
	return s.repo.InsertEvent(ctx, event.Type, event.Username, event.Payload)
}

func (s *Service) GetStats(ctx context.Context) ([]model.EventStat, error) {
	return s.repo.EventStats(ctx)
}
