package repository

import (
	"context"

	"github.com/readstack/library-service/internal/model"
)

func (r *repository) InsertEvent(ctx context.Context, eventType, username string, payload []byte) error {
	var jsonPayload interface{}
	if len(payload) > 0 {
		jsonPayload = payload
	}
	_, err := r.db.ExecContext(ctx,
		`insert into events (event_type, username, payload) values ($1, $2, $3)`,
		eventType, username, jsonPayload)
	return err
}

func (r *repository) EventStats(ctx context.Context) ([]model.EventStat, error) {
	q := `
select event_type, count(*) as total
from events
group by event_type
order by total desc`

	stats := make([]model.EventStat, 0)
	if err := r.db.SelectContext(ctx, &stats, q); err != nil {
		return nil, err
	}
	return stats, nil
}
