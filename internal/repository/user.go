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

const profileColumns = "id, username, role, image_key, description, favorite_book_id"

func (r *repository) CreateUser(ctx context.Context, username, passwordHash, role string) (model.User, error) {
	q, args, err := qb.Insert(usersTableName).
		Columns("username", "password_hash", "role").
		Values(username, passwordHash, role).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.User{}, errs.ErrDuplicateUsername
		}
		r.log.Error("CreateUser", zap.String("q", q), zap.Error(err))
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	q, args, err := qb.Select("*").
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`update users set password_hash = $2 where username = $1`, username, passwordHash)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repository) GetProfile(ctx context.Context, username string) (model.Profile, error) {
	q, args, err := qb.Select(profileColumns).
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Profile{}, err
	}
	var p model.Profile
	if err := r.db.GetContext(ctx, &p, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, errs.ErrNotFound
		}
		return model.Profile{}, err
	}
	return p, nil
}

func (r *repository) UpdateProfile(ctx context.Context, username string, description, imageKey *string) (model.Profile, error) {
	upd := qb.Update(usersTableName).Where(sq.Eq{"username": username})
	changed := false
	if description != nil {
		upd = upd.Set("description", *description)
		changed = true
	}
	if imageKey != nil {
		upd = upd.Set("image_key", *imageKey)
		changed = true
	}
	if !changed {
		return r.GetProfile(ctx, username)
	}
	q, args, err := upd.Suffix("returning " + profileColumns).ToSql()
	if err != nil {
		return model.Profile{}, err
	}
	var p model.Profile
	if err := r.db.GetContext(ctx, &p, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Profile{}, errs.ErrNotFound
		}
		return model.Profile{}, err
	}
	return p, nil
}

// SetFavorite overwrites the single favorite reference, last write wins.
func (r *repository) SetFavorite(ctx context.Context, username string, bookID int) error {
	res, err := r.db.ExecContext(ctx,
		`update users set favorite_book_id = $2 where username = $1`, username, bookID)
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

// GetFavorite returns (nil, nil) when the user exists but has no favorite set.
func (r *repository) GetFavorite(ctx context.Context, username string) (*model.Book, error) {
	q := `
select b.id, b.title, b.author_id, a.name as author_name, b.description, b.image_key, b.created_at
from users u
         join books b on b.id = u.favorite_book_id
         join authors a on a.id = b.author_id
where u.username = $1`

	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, err := r.GetProfile(ctx, username); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return nil, err
	}
	return &book, nil
}
