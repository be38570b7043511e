package giros

import (
	"context"
	"errors"
	"log/slog"

	"github.com/money-manager/money-manager/internal/ownership"
	"github.com/money-manager/money-manager/internal/shared"
)

// Gates groups the strategies guarding giros.
type Gates struct {
	Accounts    ownership.Strategy
	Source      ownership.Strategy
	Destination ownership.Strategy
}

// Service applies ownership rules around giro persistence.
type Service struct {
	repo   Repository
	gates  Gates
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo Repository, gates Gates, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, gates: gates, logger: logger}
}

func (s *Service) require(ctx context.Context, userID int64, checks ...ownership.Check) error {
	err := ownership.Require(ctx, userID, checks...)
	if errors.Is(err, shared.ErrForbidden) {
		s.logger.Warn("giro access denied", slog.Int64("user_id", userID), slog.String("reason", err.Error()))
	}
	return err
}

func (s *Service) giro(id int64, action ownership.Action) []ownership.Check {
	return []ownership.Check{
		{Name: "giro source", Strategy: s.gates.Source, ResourceID: id, Action: action},
		{Name: "giro destination", Strategy: s.gates.Destination, ResourceID: id, Action: action},
	}
}

func (s *Service) accounts(in Input) []ownership.Check {
	return []ownership.Check{
		{Name: "source account", Strategy: s.gates.Accounts, ResourceID: in.SourceAccountID, Action: ownership.Write},
		{Name: "destination account", Strategy: s.gates.Accounts, ResourceID: in.DestinationAccountID, Action: ownership.Write},
	}
}

// Get returns giro id if userID owns both of its accounts.
func (s *Service) Get(ctx context.Context, userID, id int64) (Giro, error) {
	if err := s.require(ctx, userID, s.giro(id, ownership.Read)...); err != nil {
		return Giro{}, err
	}
	return s.repo.Get(ctx, id)
}

// ListByAccount returns the giros leaving or entering an owned account.
func (s *Service) ListByAccount(ctx context.Context, userID int64, side Side, accountID int64) ([]Giro, error) {
	check := ownership.Check{Name: "account", Strategy: s.gates.Accounts, ResourceID: accountID, Action: ownership.Read}
	if err := s.require(ctx, userID, check); err != nil {
		return nil, err
	}
	return s.repo.ListByAccount(ctx, side, accountID, userID)
}

// Create records a giro between two owned accounts.
func (s *Service) Create(ctx context.Context, userID int64, in Input) (Giro, error) {
	if err := s.require(ctx, userID, s.accounts(in)...); err != nil {
		return Giro{}, err
	}
	g, err := s.repo.Create(ctx, in)
	if err != nil {
		return Giro{}, err
	}
	s.logger.Info("giro created", slog.Int64("giro_id", g.ID), slog.Int64("user_id", userID))
	return g, nil
}

// Update overwrites giro id; the new accounts must be owned too.
func (s *Service) Update(ctx context.Context, userID, id int64, in Input) (int64, error) {
	checks := append(s.giro(id, ownership.Write), s.accounts(in)...)
	if err := s.require(ctx, userID, checks...); err != nil {
		return 0, err
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes giro id.
func (s *Service) Delete(ctx context.Context, userID, id int64) (int64, error) {
	if err := s.require(ctx, userID, s.giro(id, ownership.Write)...); err != nil {
		return 0, err
	}
	return s.repo.Delete(ctx, id)
}
