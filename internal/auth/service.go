package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/money-manager/money-manager/internal/shared"
)

// ServiceConfig groups Service dependencies. Revocations and LastLogin are optional.
type ServiceConfig struct {
	Store       Store
	Hasher      *Hasher
	Tokens      *TokenService
	Revocations RevocationStore
	LastLogin   LastLoginRecorder
	Logger      *slog.Logger
}

// Service wraps credential business rules.
type Service struct {
	store       Store
	hasher      *Hasher
	tokens      *TokenService
	revocations RevocationStore
	lastLogin   LastLoginRecorder
	logger      *slog.Logger
	now         func() time.Time
}

// NewService constructs a new Service.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:       cfg.Store,
		hasher:      cfg.Hasher,
		tokens:      cfg.Tokens,
		revocations: cfg.Revocations,
		lastLogin:   cfg.LastLogin,
		logger:      logger,
		now:         time.Now,
	}
}

// NormalizeEmail trims and case-folds an email for storage and lookup.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// Register creates the credential of userID. It is never retried: a
// duplicate surfaces as shared.ErrDuplicate, a missing user as shared.ErrNotFound.
func (s *Service) Register(ctx context.Context, userID int64, in CredentialInput) error {
	secret, err := s.hasher.Generate(in.Password)
	if err != nil {
		return err
	}
	if err := s.store.Create(ctx, Credential{UserID: userID, Email: NormalizeEmail(in.Email), Secret: secret}); err != nil {
		return err
	}
	s.logger.Info("credential created", slog.Int64("user_id", userID))
	return nil
}

// Login verifies email and password and issues a session token. An unknown
// email and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, in CredentialInput) (LoginResponse, error) {
	cred, err := s.store.FindByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.hasher.VerifyDummy(in.Password)
			s.logger.Info("login refused", slog.String("cause", "unknown email"))
			return LoginResponse{}, shared.ErrInvalidCredentials
		}
		return LoginResponse{}, err
	}

	ok, err := s.hasher.Verify(in.Password, cred.Secret)
	if err != nil {
		s.logger.Error("login against corrupt credential", slog.Int64("user_id", cred.UserID), slog.Any("error", err))
		return LoginResponse{}, err
	}
	if !ok {
		s.logger.Info("login refused", slog.Int64("user_id", cred.UserID), slog.String("cause", "password mismatch"))
		return LoginResponse{}, shared.ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(cred.UserID)
	if err != nil {
		return LoginResponse{}, err
	}
	if s.lastLogin != nil {
		if err := s.lastLogin.RecordLogin(ctx, cred.UserID, claims.IssuedAt); err != nil {
			s.logger.Warn("record last login", slog.Int64("user_id", cred.UserID), slog.Any("error", err))
		}
	}
	s.logger.Info("user logged in", slog.Int64("user_id", cred.UserID), slog.String("token_id", claims.ID))
	return LoginResponse{Token: token}, nil
}

// Get returns the masked credential of userID.
func (s *Service) Get(ctx context.Context, userID int64) (Credential, error) {
	cred, err := s.store.Get(ctx, userID)
	if err != nil {
		return Credential{}, err
	}
	return cred.Mask(), nil
}

// Update re-derives the secret of userID from a new password and revokes
// every token issued so far.
func (s *Service) Update(ctx context.Context, userID int64, in CredentialInput) (int64, error) {
	secret, err := s.hasher.Generate(in.Password)
	if err != nil {
		return 0, err
	}
	rows, err := s.store.Update(ctx, userID, NormalizeEmail(in.Email), secret)
	if err != nil || rows == 0 {
		return rows, err
	}
	s.revoke(ctx, userID)
	s.logger.Info("credential updated", slog.Int64("user_id", userID))
	return rows, nil
}

// Delete removes the credential of userID and revokes its tokens.
func (s *Service) Delete(ctx context.Context, userID int64) (int64, error) {
	rows, err := s.store.Delete(ctx, userID)
	if err != nil || rows == 0 {
		return rows, err
	}
	s.revoke(ctx, userID)
	s.logger.Info("credential deleted", slog.Int64("user_id", userID))
	return rows, nil
}

// RevokeAll implements users.TokenRevoker.
func (s *Service) RevokeAll(ctx context.Context, userID int64, at time.Time) error {
	if s.revocations == nil {
		return nil
	}
	return s.revocations.RevokeAll(ctx, userID, at)
}

func (s *Service) revoke(ctx context.Context, userID int64) {
	if err := s.RevokeAll(ctx, userID, s.now()); err != nil {
		s.logger.Error("revoke tokens", slog.Int64("user_id", userID), slog.Any("error", err))
	}
}
