package transactions

import (
	"context"
	"errors"
	"log/slog"

	"github.com/money-manager/money-manager/internal/ownership"
	"github.com/money-manager/money-manager/internal/shared"
)

// Gates groups the strategies guarding a transaction and what it references.
type Gates struct {
	Transactions ownership.Strategy
	Accounts     ownership.Strategy
	Causals      ownership.Strategy
	Places       ownership.Strategy
	Details      ownership.Strategy
}

// Service applies ownership rules around transaction persistence.
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
		s.logger.Warn("transaction access denied", slog.Int64("user_id", userID), slog.String("reason", err.Error()))
	}
	return err
}

func (s *Service) transaction(id int64, action ownership.Action) ownership.Check {
	return ownership.Check{Name: "transaction", Strategy: s.gates.Transactions, ResourceID: id, Action: action}
}

func (s *Service) detail(id int64) ownership.Check {
	return ownership.Check{Name: "detail", Strategy: s.gates.Details, ResourceID: id, Action: ownership.Read}
}

// references lists the checks an input must pass: the caller writes to the
// target account and may read the causal and place it points at.
func (s *Service) references(in Input) []ownership.Check {
	checks := []ownership.Check{
		{Name: "account", Strategy: s.gates.Accounts, ResourceID: in.AccountID, Action: ownership.Write},
		{Name: "causal", Strategy: s.gates.Causals, ResourceID: in.CausalID, Action: ownership.Read},
	}
	if in.PlaceID != nil {
		checks = append(checks, ownership.Check{Name: "place", Strategy: s.gates.Places, ResourceID: *in.PlaceID, Action: ownership.Read})
	}
	return checks
}

// Get returns transaction id if userID owns its account.
func (s *Service) Get(ctx context.Context, userID, id int64) (Transaction, error) {
	if err := s.require(ctx, userID, s.transaction(id, ownership.Read)); err != nil {
		return Transaction{}, err
	}
	return s.repo.Get(ctx, id)
}

// ListByAccount returns the transactions of accountID if userID owns it.
func (s *Service) ListByAccount(ctx context.Context, userID, accountID int64) ([]Transaction, error) {
	check := ownership.Check{Name: "account", Strategy: s.gates.Accounts, ResourceID: accountID, Action: ownership.Read}
	if err := s.require(ctx, userID, check); err != nil {
		return nil, err
	}
	return s.repo.ListByAccount(ctx, accountID)
}

// Create records a transaction on an account userID owns.
func (s *Service) Create(ctx context.Context, userID int64, in Input) (Transaction, error) {
	if err := s.require(ctx, userID, s.references(in)...); err != nil {
		return Transaction{}, err
	}
	t, err := s.repo.Create(ctx, in)
	if err != nil {
		return Transaction{}, err
	}
	s.logger.Info("transaction created", slog.Int64("transaction_id", t.ID), slog.Int64("account_id", t.AccountID))
	return t, nil
}

// Update overwrites transaction id. Moving it to another account requires
// ownership of both accounts.
func (s *Service) Update(ctx context.Context, userID, id int64, in Input) (int64, error) {
	checks := append([]ownership.Check{s.transaction(id, ownership.Write)}, s.references(in)...)
	if err := s.require(ctx, userID, checks...); err != nil {
		return 0, err
	}
	return s.repo.Update(ctx, id, in)
}

// Delete removes transaction id and its details.
func (s *Service) Delete(ctx context.Context, userID, id int64) (int64, error) {
	if err := s.require(ctx, userID, s.transaction(id, ownership.Write)); err != nil {
		return 0, err
	}
	return s.repo.Delete(ctx, id)
}

// AddDetail links a readable detail to an owned transaction.
func (s *Service) AddDetail(ctx context.Context, userID int64, d Detail) error {
	if err := s.require(ctx, userID, s.transaction(d.TransactionID, ownership.Write), s.detail(d.DetailID)); err != nil {
		return err
	}
	return s.repo.AddDetail(ctx, d)
}

// DetailsByTransaction lists the details of an owned transaction.
func (s *Service) DetailsByTransaction(ctx context.Context, userID, transactionID int64) ([]Detail, error) {
	if err := s.require(ctx, userID, s.transaction(transactionID, ownership.Read)); err != nil {
		return nil, err
	}
	return s.repo.DetailsByTransaction(ctx, transactionID)
}

// DetailsByDetail lists where a readable detail is used on the caller's transactions.
func (s *Service) DetailsByDetail(ctx context.Context, userID, detailID int64) ([]Detail, error) {
	if err := s.require(ctx, userID, s.detail(detailID)); err != nil {
		return nil, err
	}
	return s.repo.DetailsByDetail(ctx, detailID, userID)
}

// UpdateDetail changes the amount of a link on an owned transaction.
func (s *Service) UpdateDetail(ctx context.Context, userID int64, d Detail) (int64, error) {
	if err := s.require(ctx, userID, s.transaction(d.TransactionID, ownership.Write), s.detail(d.DetailID)); err != nil {
		return 0, err
	}
	return s.repo.UpdateDetail(ctx, d)
}

// DeleteDetail unlinks a detail from an owned transaction.
func (s *Service) DeleteDetail(ctx context.Context, userID, transactionID, detailID int64) (int64, error) {
	if err := s.require(ctx, userID, s.transaction(transactionID, ownership.Write), s.detail(detailID)); err != nil {
		return 0, err
	}
	return s.repo.DeleteDetail(ctx, transactionID, detailID)
}
