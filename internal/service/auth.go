package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/readstack/library-service/internal/errs"
	"github.com/readstack/library-service/internal/model"
	"github.com/readstack/library-service/pkg/auth"
)

func normalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}
	return s.repo.CreateUser(ctx, normalizeUsername(req.Username), string(hash), auth.RoleUser)
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, normalizeUsername(req.Username))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}

	token, _, err := auth.BuildToken(user.Username, user.Role, s.tokenTTL)
	if err != nil {
		return model.AuthResponse{}, errors.Wrap(err, "build token")
	}
	return model.AuthResponse{
		ID:          user.ID,
		Username:    user.Username,
		Role:        user.Role,
		AccessToken: token,
		ExpiresIn:   int(s.tokenTTL.Seconds()),
	}, nil
}

// ResetPassword overwrites the stored hash for an existing user.
func (s *Service) ResetPassword(ctx context.Context, req model.LoginRequest) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	return s.repo.UpdatePassword(ctx, normalizeUsername(req.Username), string(hash))
}

// EnsureAdmin seeds the configured administrator account on startup.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	if password == "" {
		s.log.Warn("admin seed skipped: no password configured")
		return nil
	}
	username = normalizeUsername(username)
	if _, err := s.repo.GetUserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, errs.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	if _, err := s.repo.CreateUser(ctx, username, string(hash), auth.RoleAdmin); err != nil {
		if errors.Is(err, errs.ErrDuplicateUsername) {
			return nil
		}
		return err
	}
	s.log.Info("admin account seeded", zap.String("username", username))
	return nil
}
