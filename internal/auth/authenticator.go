package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/money-manager/money-manager/internal/shared"
	"github.com/money-manager/money-manager/internal/users"
)

// UserLookup resolves the user a token is bound to.
type UserLookup interface {
	Get(ctx context.Context, id int64) (users.User, error)
}

// RejectionObserver receives one call per refused request.
type RejectionObserver interface {
	ObserveAuthRejection(reason, detail string)
}

// AuthenticatorConfig groups Authenticator dependencies. Revocations and
// Observer are optional.
type AuthenticatorConfig struct {
	Tokens      *TokenService
	Users       UserLookup
	Revocations RevocationStore
	Observer    RejectionObserver
	Logger      *slog.Logger
}

// Authenticator turns raw header values into an Identity.
type Authenticator struct {
	tokens      *TokenService
	users       UserLookup
	revocations RevocationStore
	observer    RejectionObserver
	logger      *slog.Logger
	lookups     singleflight.Group
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(cfg AuthenticatorConfig) *Authenticator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		tokens:      cfg.Tokens,
		users:       cfg.Users,
		revocations: cfg.Revocations,
		observer:    cfg.Observer,
		logger:      logger,
	}
}

// Authenticate accepts exactly one header value holding a valid token whose
// user still exists. The user is resolved before the revocation epoch so a
// deleted user is reported as Broken. Refusals are *RejectedError; any other
// error is a storage failure.
func (a *Authenticator) Authenticate(ctx context.Context, values []string) (Identity, error) {
	switch len(values) {
	case 0:
		return Identity{}, a.rejected(reject(ReasonMissing, nil))
	case 1:
	default:
		return Identity{}, a.rejected(reject(ReasonBadCount, fmt.Errorf("%d values", len(values))))
	}

	claims, err := a.tokens.Validate(values[0])
	if err != nil {
		return Identity{}, a.rejected(reject(ReasonInvalid, err))
	}

	user, err := a.lookupUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Identity{}, a.rejected(reject(ReasonBroken, fmt.Errorf("user %d: %w", claims.UserID, err)))
		}
		return Identity{}, err
	}
	if a.revocations != nil {
		since, err := a.revocations.ValidSince(ctx, claims.UserID)
		if err != nil {
			return Identity{}, err
		}
		if claims.IssuedAt.Before(since) {
			return Identity{}, a.rejected(reject(ReasonInvalid, ErrTokenRevoked))
		}
	}

	return Identity{UserID: user.ID, User: user}, nil
}

// lookupUser collapses concurrent lookups of the same user into one query.
func (a *Authenticator) lookupUser(ctx context.Context, id int64) (users.User, error) {
	ctx = context.WithoutCancel(ctx)
	v, err, _ := a.lookups.Do(strconv.FormatInt(id, 10), func() (any, error) {
		return a.users.Get(ctx, id)
	})
	if err != nil {
		return users.User{}, err
	}
	return v.(users.User), nil
}

func (a *Authenticator) rejected(err error) error {
	var rej *RejectedError
	if errors.As(err, &rej) {
		detail := rej.Detail()
		attrs := []any{slog.String("reason", string(rej.Reason)), slog.String("detail", detail)}
		if rej.Cause != nil {
			attrs = append(attrs, slog.String("cause", rej.Cause.Error()))
		}
		if rej.Reason == ReasonBroken {
			a.logger.Warn("token references a vanished user", attrs...)
		} else {
			a.logger.Info("authentication rejected", attrs...)
		}
		if a.observer != nil {
			a.observer.ObserveAuthRejection(string(rej.Reason), detail)
		}
	}
	return err
}
