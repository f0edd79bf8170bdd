package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readstack/library-service/internal/errs"
	"github.com/readstack/library-service/internal/model"
)

func (r *repository) bookQuery() sq.SelectBuilder {
	return qb.Select("b.id", "b.title", "b.author_id", "a.name as author_name",
		"b.description", "b.image_key", "b.created_at").
		From(booksTableName + " b").
		Join(fmt.Sprintf("%s a on a.id = b.author_id", authorsTableName))
}

func (r *repository) ListBooks(ctx context.Context, lq model.ListQuery) ([]model.Book, error) {
	q := r.bookQuery().OrderBy("b.id desc")
	if lq.Search != "" {
		pattern := "%" + lq.Search + "%"
		q = q.Where(sq.Or{
			sq.ILike{"b.title": pattern},
			sq.ILike{"a.name": pattern},
		})
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
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) CountBooks(ctx context.Context, search string) (int, error) {
	q := qb.Select("count(*)").
		From(booksTableName + " b").
		Join(fmt.Sprintf("%s a on a.id = b.author_id", authorsTableName))
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where(sq.Or{
			sq.ILike{"b.title": pattern},
			sq.ILike{"a.name": pattern},
		})
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

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	query, args, err := r.bookQuery().
		Where(sq.Eq{"b.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) CreateBook(ctx context.Context, title string, authorID int, description *string) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("title", "author_id", "description").
		Values(title, authorID, description).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var id int
	if err := r.db.GetContext(ctx, &id, q, args...); err != nil {
		if isFKViolation(err) {
			return model.Book{}, errs.ErrNotFound
		}
		r.log.Error("CreateBook", zap.String("q", q), zap.Error(err))
		return model.Book{}, err
	}
	return r.GetBook(ctx, id)
}

func (r *repository) UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) error {
	upd := qb.Update(booksTableName).Where(sq.Eq{"id": id})
	changed := false
	if req.Title != nil {
		upd = upd.Set("title", *req.Title)
		changed = true
	}
	if req.AuthorID != nil {
		upd = upd.Set("author_id", *req.AuthorID)
		changed = true
	}
	if req.Description != nil {
		upd = upd.Set("description", *req.Description)
		changed = true
	}
	if !changed {
		// nothing to write, but the target must still exist
		var exists int
		if err := r.db.GetContext(ctx, &exists,
			`select id from books where id = $1`, id); err != nil {
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
		if isFKViolation(err) {
			return errs.ErrNotFound
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) DeleteBook(ctx context.Context, id int) (*string, error) {
	var imageKey *string
	err := r.db.QueryRowContext(ctx,
		`delete from books where id = $1 returning image_key`, id).Scan(&imageKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return imageKey, nil
}

func (r *repository) SetBookImage(ctx context.Context, id int, imageKey string) (*string, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	var old *string
	if err := tx.QueryRowContext(ctx,
		`select image_key from books where id = $1 for update`, id).Scan(&old); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`update books set image_key = $2 where id = $1`, id, imageKey); err != nil {
		return nil, err
	}
	return old, tx.Commit()
}
