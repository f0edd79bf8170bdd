package errs

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoanActive         = errors.New("book already rented by this user")
	ErrAuthorReferenced   = errors.New("author still referenced by books")
	ErrUserName           = errors.New("username is required")
	ErrAuthorRequired     = errors.New("authorId or authorName is required")
	ErrAssetsDisabled     = errors.New("asset host is not configured")
)
