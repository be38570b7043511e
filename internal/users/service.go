package users

import (
	"context"
	"log/slog"
	"time"
)

// TokenRevoker invalidates every token issued to a user before now.
type TokenRevoker interface {
	RevokeAll(ctx context.Context, userID int64, at time.Time) error
}

// Service handles user business logic.
type Service struct {
	repo    Repository
	revoker TokenRevoker
	logger  *slog.Logger
	now     func() time.Time
}

// NewService builds Service instance. revoker may be nil.
func NewService(repo Repository, revoker TokenRevoker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, revoker: revoker, logger: logger, now: time.Now}
}

// Register creates a new user profile.
func (s *Service) Register(ctx context.Context, in Input) (User, error) {
	u, err := s.repo.Create(ctx, in)
	if err != nil {
		return User{}, err
	}
	s.logger.Info("user registered", slog.Int64("user_id", u.ID))
	return u, nil
}

// Get returns the user with id.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.Get(ctx, id)
}

// Update overwrites the profile of user id.
func (s *Service) Update(ctx context.Context, id int64, in Input) (int64, error) {
	return s.repo.Update(ctx, id, in)
}

// Delete removes the user with its credential and revokes its live tokens.
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil || rows == 0 {
		return rows, err
	}
	if s.revoker != nil {
		if err := s.revoker.RevokeAll(ctx, id, s.now()); err != nil {
			s.logger.Error("revoke tokens after user delete", slog.Int64("user_id", id), slog.Any("error", err))
		}
	}
	s.logger.Info("user deleted", slog.Int64("user_id", id))
	return rows, nil
}
