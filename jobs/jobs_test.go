package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type writes struct {
	userID int64
	at     time.Time
	err    error
	calls  int
}

func (w *writes) UpdateLastLogin(_ context.Context, userID int64, at time.Time) error {
	w.calls++
	w.userID, w.at = userID, at
	return w.err
}

func TestRecordLoginJob(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	task, err := NewRecordLoginTask(RecordLoginPayload{UserID: 9, At: at})
	require.NoError(t, err)
	assert.Equal(t, TaskTypeRecordLogin, task.Type())

	store := &writes{}
	require.NoError(t, NewRecordLoginJob(store, nil).Handle(context.Background(), task))
	assert.Equal(t, int64(9), store.userID)
	assert.True(t, at.Equal(store.at))
}

func TestRecordLoginJobSkipsBadPayload(t *testing.T) {
	store := &writes{}
	job := NewRecordLoginJob(store, nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskTypeRecordLogin, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = job.Handle(context.Background(), asynq.NewTask(TaskTypeRecordLogin, []byte(`{"user_id":0}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Zero(t, store.calls)
}

func TestRecordLoginJobRetriesStoreFailure(t *testing.T) {
	task, err := NewRecordLoginTask(RecordLoginPayload{UserID: 1, At: time.Now()})
	require.NoError(t, err)

	err = NewRecordLoginJob(&writes{err: errors.New("db down")}, nil).Handle(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{Type: task.Type(), Queue: QueueDefault}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

func TestClientRecordLogin(t *testing.T) {
	enq := &fakeEnqueuer{}
	client := &Client{client: enq}

	at := time.Unix(1700000000, 0).UTC()
	require.NoError(t, client.RecordLogin(context.Background(), 3, at))
	require.Len(t, enq.tasks, 1)

	var payload RecordLoginPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, int64(3), payload.UserID)
	assert.True(t, at.Equal(payload.At))
	assert.NotEmpty(t, enq.opts[0])
}

type recordingObserver struct {
	types []string
	errs  []error
}

func (r *recordingObserver) ObserveJob(taskType string, err error) {
	r.types = append(r.types, taskType)
	r.errs = append(r.errs, err)
}

func TestObserveMiddleware(t *testing.T) {
	obs := &recordingObserver{}
	boom := errors.New("boom")
	h := observe(obs)(asynq.HandlerFunc(func(context.Context, *asynq.Task) error { return boom }))

	err := h.ProcessTask(context.Background(), asynq.NewTask("x", nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"x"}, obs.types)
	assert.Equal(t, []error{boom}, obs.errs)
}

func TestNewWorkerNeedsHandlers(t *testing.T) {
	_, err := NewWorker(WorkerConfig{})
	assert.Error(t, err)
}

type fakeInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (f fakeInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) { return f.info, f.err }

func TestHealth(t *testing.T) {
	cases := []struct {
		name      string
		inspector QueueInspector
		code      int
		pending   int
	}{
		{"no inspector", nil, http.StatusOK, 0},
		{"queue info", fakeInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 4}}, http.StatusOK, 4},
		{"redis down", fakeInspector{err: errors.New("dial")}, http.StatusServiceUnavailable, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := chi.NewRouter()
			NewHandler(tc.inspector, nil).MountRoutes(r)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.code, rr.Code)
			if tc.code == http.StatusOK {
				var body queueHealth
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, tc.pending, body.Pending)
			}
		})
	}
}
