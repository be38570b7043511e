package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenConfig is the immutable signing configuration for session tokens.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// Claims is the validated content of a session token.
type Claims struct {
	UserID    int64
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and validates HS256 session tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces the wall clock used for issuance and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

// NewTokenService validates cfg and builds a TokenService.
func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("auth: token secret must not be empty")
	}
	if cfg.TTL < time.Second {
		return nil, fmt.Errorf("auth: token ttl must be at least one second, got %s", cfg.TTL)
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	s := &TokenService{secret: secret, ttl: cfg.TTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the configured token lifetime. Issued tokens may outlive it by
// less than a second because exp is rounded up.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for userID expiring no sooner than one TTL after the
// current time. NumericDate has whole-second precision, so exp is rounded up.
func (s *TokenService) Issue(userID int64) (string, Claims, error) {
	issued := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl + time.Second - time.Nanosecond)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("auth: sign token: %w", err)
	}
	return token, Claims{
		UserID:    userID,
		ID:        claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate verifies the signature first and the expiry second. Failures
// wrap ErrTokenMalformed or ErrTokenExpired respectively.
func (s *TokenService) Validate(token string) (Claims, error) {
	var rc jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &rc, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if !parsed.Valid {
		return Claims{}, ErrTokenMalformed
	}
	userID, err := strconv.ParseInt(rc.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Claims{}, fmt.Errorf("%w: bad subject %q", ErrTokenMalformed, rc.Subject)
	}
	if rc.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: missing exp", ErrTokenMalformed)
	}
	claims := Claims{UserID: userID, ID: rc.ID, ExpiresAt: rc.ExpiresAt.Time}
	if rc.IssuedAt != nil {
		claims.IssuedAt = rc.IssuedAt.Time
	}
	if !s.now().Before(claims.ExpiresAt) {
		return claims, fmt.Errorf("%w: at %s", ErrTokenExpired, claims.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return claims, nil
}
