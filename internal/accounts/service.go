package accounts

import (
	"context"
	"errors"
	"log/slog"

	"github.com/money-manager/money-manager/internal/ownership"
	"github.com/money-manager/money-manager/internal/shared"
)

// Service applies ownership rules around account persistence.
type Service struct {
	repo   Repository
	gate   ownership.Strategy
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo Repository, gate ownership.Strategy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, gate: gate, logger: logger}
}

func (s *Service) authorize(ctx context.Context, userID, id int64, action ownership.Action) error {
	err := ownership.Require(ctx, userID, ownership.Check{Name: "account", Strategy: s.gate, ResourceID: id, Action: action})
	if errors.Is(err, shared.ErrForbidden) {
		s.logger.Warn("account access denied", slog.Int64("user_id", userID), slog.Int64("account_id", id), slog.String("action", action.String()))
	}
	return err
}

// Get returns account id if userID owns it.
func (s *Service) Get(ctx context.Context, userID, id int64) (Account, error) {
	if err := s.authorize(ctx, userID, id, ownership.Read); err != nil {
		return Account{}, err
	}
	return s.repo.Get(ctx, id)
}

// ListByUser returns the accounts of userID.
func (s *Service) ListByUser(ctx context.Context, userID int64) ([]Account, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Create stores a new account owned by userID.
func (s *Service) Create(ctx context.Context, userID int64, in Input) (Account, error) {
	a, err := s.repo.CreateOwned(ctx, userID, in)
	if err != nil {
		return Account{}, err
	}
	s.logger.Info("account created", slog.Int64("account_id", a.ID), slog.Int64("user_id", userID))
	return a, nil
}

// Update overwrites account id if userID owns it.
func (s *Service) Update(ctx context.Context, userID, id int64, in Input) (int64, error) {
	if err := s.authorize(ctx, userID, id, ownership.Write); err != nil {
		return 0, err
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes account id if userID owns it.
func (s *Service) Delete(ctx context.Context, userID, id int64) (int64, error) {
	if err := s.authorize(ctx, userID, id, ownership.Write); err != nil {
		return 0, err
	}
	return s.repo.Delete(ctx, id)
}
