package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readstack/library-service/internal/errs"
	"github.com/readstack/library-service/internal/model"
)

func (r *repository) ListAuthors(ctx context.Context, lq model.ListQuery) ([]model.Author, error) {
	q := qb.Select("id", "name", "bio", "image_key").
		From(authorsTableName).
		OrderBy("id desc")
	if lq.Search != "" {
		q = q.Where(sq.ILike{"name": "%" + lq.Search + "%"})
	}
	if lq.Limit > 0 {
		q = q.Limit(uint64(lq.Limit))
	}
	if lq.Offset > 0 {
		q = q.Offset(uint64(lq.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	authors := make([]model.Author, 0)
	if err := r.db.SelectContext(ctx, &authors, query, args...); err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *repository) CountAuthors(ctx context.Context, search string) (int, error) {
	q := qb.Select("count(*)").From(authorsTableName)
	if search != "" {
		q = q.Where(sq.ILike{"name": "%" + search + "%"})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	q, args, err := qb.Select("id", "name", "bio", "image_key").
		From(authorsTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var author model.Author
	if err := r.db.GetContext(ctx, &author, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Author{}, errs.ErrNotFound
		}
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) GetAuthorByName(ctx context.Context, name string) (model.Author, error) {
	q := `select id, name, bio, image_key from authors where lower(name) = lower($1) limit 1`
	var author model.Author
	if err := r.db.GetContext(ctx, &author, q, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Author{}, errs.ErrNotFound
		}
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) CreateAuthor(ctx context.Context, name string, bio *string) (model.Author, error) {
	q, args, err := qb.Insert(authorsTableName).
		Columns("name", "bio").
		Values(name, bio).
		Suffix("returning id, name, bio, image_key").
		ToSql()
	if err != nil {
		return model.Author{}, err
	}
	var author model.Author
	if err := r.db.GetContext(ctx, &author, q, args...); err != nil {
		r.log.Error("CreateAuthor", zap.String("q", q), zap.Error(err))
		return model.Author{}, err
	}
	return author, nil
}

func (r *repository) UpdateAuthor(ctx context.Context, id int, req model.UpdateAuthorRequest) error {
	upd := qb.Update(authorsTableName).Where(sq.Eq{"id": id})
	changed := false
	if req.Name != nil {
		upd = upd.Set("name", *req.Name)
		changed = true
	}
	if req.Bio != nil {
		upd = upd.Set("bio", *req.Bio)
		changed = true
	}
	if !changed {
		// nothing to write, but the target must still exist
		var exists int
		if err := r.db.GetContext(ctx, &exists,
			`select id from authors where id = $1`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		return nil
	}
	q, args, err := upd.ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// DeleteAuthor refuses to delete while any book still references the author.
func (r *repository) DeleteAuthor(ctx context.Context, id int) (*string, error) {
	var refs int
	if err := r.db.GetContext(ctx, &refs,
		`select count(*) from books where author_id = $1`, id); err != nil {
		return nil, err
	}
	if refs > 0 {
		return nil, errs.ErrAuthorReferenced
	}

	var imageKey *string
	err := r.db.QueryRowContext(ctx,
		`delete from authors where id = $1 returning image_key`, id).Scan(&imageKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		if isFKViolation(err) {
			return nil, errs.ErrAuthorReferenced
		}
		return nil, err
	}
	return imageKey, nil
}

func (r *repository) SetAuthorImage(ctx context.Context, id int, imageKey string) (*string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	var old *string
	if err := tx.QueryRowContext(ctx,
		`select image_key from authors where id = $1 for update`, id).Scan(&old); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`update authors set image_key = $2 where id = $1`, id, imageKey); err != nil {
		return nil, err
	}
	return old, tx.Commit()
}
