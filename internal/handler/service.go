package handler

import (
	"context"

	"github.com/readstack/library-service/internal/model"
	"github.com/readstack/library-service/pkg/kafka"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go -package=service_mocks

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	ResetPassword(ctx context.Context, req model.LoginRequest) error
}

type CatalogService interface {
	ListBooks(ctx context.Context, q model.ListQuery) (model.BookList, error)
	CountBooks(ctx context.Context, search string) (int, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.CreateBookResponse, error)
	UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) error
	DeleteBook(ctx context.Context, id int) error
	SetBookImage(ctx context.Context, id int, file model.Upload) (string, error)

	ListAuthors(ctx context.Context, q model.ListQuery) (model.AuthorList, error)
	CountAuthors(ctx context.Context, search string) (int, error)
	GetAuthor(ctx context.Context, id int) (model.Author, error)
	CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error)
	UpdateAuthor(ctx context.Context, id int, req model.UpdateAuthorRequest) error
	DeleteAuthor(ctx context.Context, id int) error
	SetAuthorImage(ctx context.Context, id int, file model.Upload) (string, error)
}

type LoanService interface {
	Rent(ctx context.Context, username string, bookID int) (model.Loan, error)
	Return(ctx context.Context, username string, admin bool, loanID int) (model.Loan, error)
	ListLoans(ctx context.Context, username string) ([]model.LoanView, error)
}

type ReviewService interface {
	SubmitReview(ctx context.Context, username string, req model.CreateReviewRequest) (model.Review, error)
	ListReviews(ctx context.Context) ([]model.ReviewView, error)
}

type ProfileService interface {
	GetProfile(ctx context.Context, username string) (model.Profile, error)
	UpdateProfile(ctx context.Context, username string, req model.UpdateProfileRequest) (model.Profile, error)
	SetFavorite(ctx context.Context, username string, bookID int) error
	GetFavorite(ctx context.Context, username string) (*model.Book, error)
}

type StatsService interface {
	GetStats(ctx context.Context) ([]model.EventStat, error)
}

// StatsLog publishes audit events to the broker.
type StatsLog interface {
	Log(event kafka.Event) error
}
