package model

import (
	"io"
	"time"
)

type User struct {
	ID             int     `json:"id" db:"id"`
	Username       string  `json:"username" db:"username"`
	PasswordHash   string  `json:"-" db:"password_hash"`
	Role           string  `json:"role" db:"role"`
	ImageKey       *string `json:"imageKey" db:"image_key"`
	Description    *string `json:"description" db:"description"`
	FavoriteBookID *int    `json:"favoriteBookId" db:"favorite_book_id"`
}

type Author struct {
	ID       int     `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Bio      *string `json:"bio" db:"bio"`
	ImageKey *string `json:"imageKey" db:"image_key"`
}

type Book struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	AuthorID    int       `json:"authorId" db:"author_id"`
	AuthorName  string    `json:"authorName" db:"author_name"`
	Description *string   `json:"description" db:"description"`
	ImageKey    *string   `json:"imageKey" db:"image_key"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type LoanStatus string

const (
	StatusRented   LoanStatus = "RENTED"
	StatusReturned LoanStatus = "RETURNED"
)

type Loan struct {
	ID         int        `json:"id" db:"id"`
	LoanUID    string     `json:"loanUid" db:"loan_uid"`
	UserID     int        `json:"-" db:"user_id"`
	BookID     int        `json:"bookId" db:"book_id"`
	Status     LoanStatus `json:"status" db:"status"`
	StartDate  time.Time  `json:"startDate" db:"start_date"`
	ReturnDate *time.Time `json:"returnDate" db:"return_date"`
}

// LoanView is a loan joined with the book it refers to.
type LoanView struct {
	Loan
	BookTitle    string  `json:"bookTitle" db:"book_title"`
	AuthorName   string  `json:"authorName" db:"author_name"`
	BookImageKey *string `json:"bookImageKey" db:"book_image_key"`
}

type Review struct {
	ID        int       `json:"id" db:"id"`
	BookID    int       `json:"bookId" db:"book_id"`
	UserID    int       `json:"-" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   *string   `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type ReviewView struct {
	Review
	Username  string `json:"username" db:"username"`
	BookTitle string `json:"bookTitle" db:"book_title"`
}

// Profile is the public slice of a user row.
type Profile struct {
	ID             int     `json:"id" db:"id"`
	Username       string  `json:"username" db:"username"`
	Role           string  `json:"role" db:"role"`
	ImageKey       *string `json:"imageKey" db:"image_key"`
	Description    *string `json:"description" db:"description"`
	FavoriteBookID *int    `json:"favoriteBookId" db:"favorite_book_id"`
}

type EventStat struct {
	EventType string `json:"eventType" db:"event_type"`
	Total     int    `json:"total" db:"total"`
}

// Upload carries a multipart file through the service layer.
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

type ListQuery struct {
	Limit  int
	Offset int
	Search string
}

type BookList struct {
	Total int    `json:"total"`
	Items []Book `json:"items"`
}

type AuthorList struct {
	Total int      `json:"total"`
	Items []Author `json:"items"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"`
}

type CreateBookRequest struct {
	Title       string  `json:"title" form:"title" validate:"required"`
	AuthorID    *int    `json:"authorId" form:"authorId"`
	AuthorName  *string `json:"authorName" form:"authorName"`
	Description *string `json:"description" form:"description"`

	Image *Upload `json:"-" form:"-"`
}

type CreateBookResponse struct {
	Book
	AuthorCreated bool `json:"authorCreated"`
}

type UpdateBookRequest struct {
	Title       *string `json:"title"`
	AuthorID    *int    `json:"authorId"`
	Description *string `json:"description"`
}

type CreateAuthorRequest struct {
	Name string  `json:"name" form:"name" validate:"required"`
	Bio  *string `json:"bio" form:"bio"`

	Image *Upload `json:"-" form:"-"`
}

type UpdateAuthorRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

type CreateReviewRequest struct {
	BookID  int     `json:"bookId" validate:"required"`
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment"`
}

type UpdateProfileRequest struct {
	Description *string
	Image       *Upload
}
