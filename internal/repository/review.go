package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readstack/library-service/internal/errs"
	"github.com/readstack/library-service/internal/model"
)

// UpsertReview keeps at most one review per (user, book): a resubmission
// replaces the stored rating, comment and timestamp.
func (r *repository) UpsertReview(ctx context.Context, username string, req model.CreateReviewRequest) (model.Review, error) {
	q := `
insert into reviews (book_id, user_id, rating, comment)
select $1, u.id, $2, $3
from users u
where u.username = $4
on conflict (book_id, user_id)
    do update set rating     = excluded.rating,
                  comment    = excluded.comment,
                  created_at = now()
returning id, book_id, user_id, rating, comment, created_at`

	var review model.Review
	err := r.db.GetContext(ctx, &review, q, req.BookID, req.Rating, req.Comment, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isFKViolation(err) {
			return model.Review{}, errs.ErrNotFound
		}
		r.log.Error("UpsertReview", zap.String("q", q), zap.Error(err))
		return model.Review{}, err
	}
	return review, nil
}

func (r *repository) ListReviews(ctx context.Context) ([]model.ReviewView, error) {
	q := `
select r.id,
       r.book_id,
       r.user_id,
       r.rating,
       r.comment,
       r.created_at,
       u.username,
       b.title as book_title
from reviews r
         join users u on u.id = r.user_id
         join books b on b.id = r.book_id
order by r.created_at desc`

	reviews := make([]model.ReviewView, 0)
	if err := r.db.SelectContext(ctx, &reviews, q); err != nil {
		return nil, err
	}
	return reviews, nil
}
