package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/readstack/library-service/internal/errs"
	"github.com/readstack/library-service/internal/model"
)

func newMockRepo(t *testing.T) (*repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewRepository(sqlx.NewDb(db, "sqlmock"), zap.NewNop())
	require.NoError(t, err)
	return repo, mock
}

// An update carrying no fields must still 404 on a missing book instead of
// reporting success.
func TestRepository_UpdateBook_EmptyPatch(t *testing.T) {
	t.Parallel()
	r, mock := newMockRepo(t)

	mock.ExpectQuery(`select id from books where id = \$1`).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	err := r.UpdateBook(context.Background(), 999, model.UpdateBookRequest{})
	require.ErrorIs(t, err, errs.ErrNotFound)

	mock.ExpectQuery(`select id from books where id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	require.NoError(t, r.UpdateBook(context.Background(), 1, model.UpdateBookRequest{}))

	require.NoError(t, mock.ExpectationsWereMet())
}
