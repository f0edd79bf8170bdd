package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/readstack/library-service/internal/model"
)

type Repository interface {
	// users
	CreateUser(ctx context.Context, username, passwordHash, role string) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error
	GetProfile(ctx context.Context, username string) (model.Profile, error)
	UpdateProfile(ctx context.Context, username string, description, imageKey *string) (model.Profile, error)
	SetFavorite(ctx context.Context, username string, bookID int) error
	GetFavorite(ctx context.Context, username string) (*model.Book, error)

	// authors
	ListAuthors(ctx context.Context, q model.ListQuery) ([]model.Author, error)
	CountAuthors(ctx context.Context, search string) (int, error)
	GetAuthor(ctx context.Context, id int) (model.Author, error)
	GetAuthorByName(ctx context.Context, name string) (model.Author, error)
	CreateAuthor(ctx context.Context, name string, bio *string) (model.Author, error)
	UpdateAuthor(ctx context.Context, id int, req model.UpdateAuthorRequest) error
	DeleteAuthor(ctx context.Context, id int) (imageKey *string, err error)
	SetAuthorImage(ctx context.Context, id int, imageKey string) (old *string, err error)

	// books
	ListBooks(ctx context.Context, q model.ListQuery) ([]model.Book, error)
	CountBooks(ctx context.Context, search string) (int, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, title string, authorID int, description *string) (model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) error
	DeleteBook(ctx context.Context, id int) (imageKey *string, err error)
	SetBookImage(ctx context.Context, id int, imageKey string) (old *string, err error)

	// loans
	CreateLoan(ctx context.Context, username string, bookID int) (model.Loan, error)
	ReturnLoan(ctx context.Context, loanID int, username string, admin bool) (model.Loan, error)
	ListLoans(ctx context.Context, username string) ([]model.LoanView, error)

	// reviews
	UpsertReview(ctx context.Context, username string, req model.CreateReviewRequest) (model.Review, error)
	ListReviews(ctx context.Context) ([]model.ReviewView, error)

	// audit events
	InsertEvent(ctx context.Context, eventType, username string, payload []byte) error
	EventStats(ctx context.Context) ([]model.EventStat, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName   = `users`
	authorsTableName = `authors`
	booksTableName   = `books`
	loansTableName   = `loans`
	reviewsTableName = `reviews`
	eventsTableName  = `events`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func isPgErr(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func isUniqueViolation(err error) bool {
	return isPgErr(err, pgerrcode.UniqueViolation)
}

func isFKViolation(err error) bool {
	return isPgErr(err, pgerrcode.ForeignKeyViolation)
}
