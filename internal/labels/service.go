package labels

import (
	"context"
	"errors"
	"log/slog"

	"github.com/money-manager/money-manager/internal/ownership"
	"github.com/money-manager/money-manager/internal/shared"
)

// Service applies ownership rules around label persistence.
type Service struct {
	kind   Kind
	repo   Repository
	gate   ownership.Strategy
	logger *slog.Logger
}

// NewService builds Service instance for kind.
func NewService(kind Kind, repo Repository, gate ownership.Strategy, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{kind: kind, repo: repo, gate: gate, logger: logger.With(slog.String("label", string(kind)))}
}

func (s *Service) authorize(ctx context.Context, userID, id int64, action ownership.Action) error {
	err := ownership.Require(ctx, userID, ownership.Check{Name: string(s.kind), Strategy: s.gate, ResourceID: id, Action: action})
	if errors.Is(err, shared.ErrForbidden) {
		s.logger.Warn("label access denied", slog.Int64("user_id", userID), slog.Int64("id", id), slog.String("action", action.String()))
	}
	return err
}

// Get returns label id if it is shared or owned by userID.
func (s *Service) Get(ctx context.Context, userID, id int64) (Label, error) {
	if err := s.authorize(ctx, userID, id, ownership.Read); err != nil {
		return Label{}, err
	}
	return s.repo.Get(ctx, id)
}

// ListVisible returns own and shared labels.
func (s *Service) ListVisible(ctx context.Context, userID int64) ([]Label, error) {
	return s.repo.ListVisible(ctx, userID)
}

// Create stores a label owned by userID.
func (s *Service) Create(ctx context.Context, userID int64, in Input) (Label, error) {
	l, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return Label{}, err
	}
	s.logger.Info("label created", slog.Int64("id", l.ID), slog.Int64("user_id", userID))
	return l, nil
}

// Update overwrites label id if userID owns it.
func (s *Service) Update(ctx context.Context, userID, id int64, in Input) (int64, error) {
	if err := s.authorize(ctx, userID, id, ownership.Write); err != nil {
		return 0, err
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes label id if userID owns it.
func (s *Service) Delete(ctx context.Context, userID, id int64) (int64, error) {
	if err := s.authorize(ctx, userID, id, ownership.Write); err != nil {
		return 0, err
	}
	return s.repo.Delete(ctx, id)
}
