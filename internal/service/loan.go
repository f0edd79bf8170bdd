package service

import (
	"context"

	"github.com/readstack/library-service/internal/model"
)

func (s *Service) Rent(ctx context.Context, username string, bookID int) (model.Loan, error) {
	return s.repo.CreateLoan(ctx, username, bookID)
}

func (s *Service) Return(ctx context.Context, username string, admin bool, loanID int) (model.Loan, error) {
	return s.repo.ReturnLoan(ctx, loanID, username, admin)
}

func (s *Service) ListLoans(ctx context.Context, username string) ([]model.LoanView, error) {
	return s.repo.ListLoans(ctx, username)
}
