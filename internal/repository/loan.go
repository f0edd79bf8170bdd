package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readstack/library-service/internal/errs"
	"github.com/readstack/library-service/internal/model"
)

// CreateLoan runs the duplicate-active-loan check and the insert in one
// transaction; the partial unique index backs it up under contention.
func (r *repository) CreateLoan(ctx context.Context, username string, bookID int) (model.Loan, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Loan{}, err
	}
	defer tx.Rollback() //nolint:errcheck

	var userID int
	if err := tx.GetContext(ctx, &userID,
		`select id from users where username = $1`, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrNotFound
		}
		return model.Loan{}, err
	}

	var exists int
	if err := tx.GetContext(ctx, &exists,
		`select id from books where id = $1`, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrNotFound
		}
		return model.Loan{}, err
	}

	var activeID int
	err = tx.GetContext(ctx, &activeID,
		`select id from loans where user_id = $1 and book_id = $2 and status = $3 for update`,
		userID, bookID, model.StatusRented)
	switch {
	case err == nil:
		return model.Loan{}, errs.ErrLoanActive
	case !errors.Is(err, sql.ErrNoRows):
		return model.Loan{}, err
	}

	q, args, err := qb.Insert(loansTableName).
		Columns("loan_uid", "user_id", "book_id", "status", "start_date").
		Values(uuid.New(), userID, bookID, model.StatusRented, time.Now().UTC()).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var loan model.Loan
	if err := tx.GetContext(ctx, &loan, q, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Loan{}, errs.ErrLoanActive
		}
		r.log.Error("CreateLoan", zap.String("q", q), zap.Any("args", args))
		return model.Loan{}, err
	}
	return loan, tx.Commit()
}

// ReturnLoan flips an active loan to RETURNED. Only the borrower (or an admin)
// matches the predicate.
func (r *repository) ReturnLoan(ctx context.Context, loanID int, username string, admin bool) (model.Loan, error) {
	q := `
update loans l
set status      = $4,
    return_date = now()
from users u
where l.id = $1
  and l.status = $5
  and u.id = l.user_id
  and (u.username = $2 or $3)
returning l.id, l.loan_uid, l.user_id, l.book_id, l.status, l.start_date, l.return_date`

	var loan model.Loan
	err := r.db.GetContext(ctx, &loan, q, loanID, username, admin, model.StatusReturned, model.StatusRented)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) ListLoans(ctx context.Context, username string) ([]model.LoanView, error) {
	q := `
select l.id,
       l.loan_uid,
       l.user_id,
       l.book_id,
       l.status,
       l.start_date,
       l.return_date,
       b.title     as book_title,
       a.name      as author_name,
       b.image_key as book_image_key
from loans l
         join users u on u.id = l.user_id
         join books b on b.id = l.book_id
         join authors a on a.id = b.author_id
where u.username = $1
order by l.start_date desc`

	loans := make([]model.LoanView, 0)
	if err := r.db.SelectContext(ctx, &loans, q, username); err != nil {
		return nil, err
	}
	return loans, nil
}
