package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeRecordLogin is the task type persisting a credential's last login.
	TaskTypeRecordLogin = "auth:record_login"
)

// RecordLoginPayload identifies the credential and the login instant.
type RecordLoginPayload struct {
	UserID int64     `json:"user_id"`
	At     time.Time `json:"at"`
}

// NewRecordLoginTask constructs an Asynq task.
func NewRecordLoginTask(payload RecordLoginPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeRecordLogin, data), nil
}

// LastLoginWriter persists last-login timestamps.
type LastLoginWriter interface {
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error
}

// RecordLoginJob processes TaskTypeRecordLogin tasks.
type RecordLoginJob struct {
	store  LastLoginWriter
	logger *slog.Logger
}

// NewRecordLoginJob constructs the job handler.
func NewRecordLoginJob(store LastLoginWriter, logger *slog.Logger) *RecordLoginJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordLoginJob{store: store, logger: logger}
}

// Handle implements asynq.HandlerFunc. Malformed payloads are not retried.
func (j *RecordLoginJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload RecordLoginPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.UserID <= 0 {
		j.logger.Warn("record login: bad payload", slog.String("payload", string(t.Payload())))
		return fmt.Errorf("record login payload: %w", asynq.SkipRetry)
	}
	if err := j.store.UpdateLastLogin(ctx, payload.UserID, payload.At); err != nil {
		return fmt.Errorf("record login %d: %w", payload.UserID, err)
	}
	j.logger.Debug("last login recorded", slog.Int64("user_id", payload.UserID))
	return nil
}
