package auth

import (
	"context"
	"time"
)

// LastLoginRecorder records a successful login.
type LastLoginRecorder interface {
	RecordLogin(ctx context.Context, userID int64, at time.Time) error
}

// StoreRecorder writes the timestamp synchronously through a Store.
type StoreRecorder struct {
	Store Store
}

// RecordLogin implements LastLoginRecorder.
func (r StoreRecorder) RecordLogin(ctx context.Context, userID int64, at time.Time) error {
	return r.Store.UpdateLastLogin(ctx, userID, at)
}
