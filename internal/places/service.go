package places

import (
	"context"
	"errors"
	"log/slog"

	"github.com/money-manager/money-manager/internal/ownership"
	"github.com/money-manager/money-manager/internal/shared"
)

// Service applies ownership rules around place persistence.
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
	err := ownership.Require(ctx, userID, ownership.Check{Name: "place", Strategy: s.gate, ResourceID: id, Action: action})
	if errors.Is(err, shared.ErrForbidden) {
		s.logger.Warn("place access denied", slog.Int64("user_id", userID), slog.Int64("place_id", id), slog.String("action", action.String()))
	}
	return err
}

// Get returns place id if it is shared or owned by userID.
func (s *Service) Get(ctx context.Context, userID, id int64) (Place, error) {
	if err := s.authorize(ctx, userID, id, ownership.Read); err != nil {
		return Place{}, err
	}
	return s.repo.Get(ctx, id)
}

// ListVisible returns own and shared places.
func (s *Service) ListVisible(ctx context.Context, userID int64) ([]Place, error) {
	return s.repo.ListVisible(ctx, userID)
}

// Create stores a place owned by userID.
func (s *Service) Create(ctx context.Context, userID int64, in Input) (Place, error) {
	p, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return Place{}, err
	}
	s.logger.Info("place created", slog.Int64("place_id", p.ID), slog.Int64("user_id", userID))
	return p, nil
}

// Update overwrites place id if userID owns it.
func (s *Service) Update(ctx context.Context, userID, id int64, in Input) (int64, error) {
	if err := s.authorize(ctx, userID, id, ownership.Write); err != nil {
		return 0, err
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes place id if userID owns it.
func (s *Service) Delete(ctx context.Context, userID, id int64) (int64, error) {
	if err := s.authorize(ctx, userID, id, ownership.Write); err != nil {
		return 0, err
	}
	return s.repo.Delete(ctx, id)
}
