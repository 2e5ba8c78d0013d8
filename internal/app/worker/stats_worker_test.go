package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"quizhub/internal/domain/model"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatsRepo struct {
	recorded    []model.AttemptRecordedEvent
	recordErr   error
	recordCalls int
}

func (f *fakeStatsRepo) RecordAttempt(_ context.Context, userID string, percentage int) error {
	f.recordCalls++
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recorded = append(f.recorded, model.AttemptRecordedEvent{UserID: userID, Percentage: percentage})
	return nil
}

func TestProcessEvent_RecordsStats(t *testing.T) {
	repo := &fakeStatsRepo{}
	w := NewStatsWorker(nil, repo)

	payload, err := json.Marshal(model.AttemptRecordedEvent{
		UserID:     "user-7",
		QuizID:     "quiz-1",
		Score:      8,
		Percentage: 80,
	})
	require.NoError(t, err)

	w.processEvent(context.Background(), payload)

	require.Len(t, repo.recorded, 1)
	assert.Equal(t, "user-7", repo.recorded[0].UserID)
	assert.Equal(t, 80, repo.recorded[0].Percentage)
}

func TestProcessEvent_DropsMalformedPayload(t *testing.T) {
	repo := &fakeStatsRepo{}
	w := NewStatsWorker(nil, repo)

	w.processEvent(context.Background(), []byte("{not json"))
	assert.Zero(t, repo.recordCalls)
}

func TestProcessEvent_DropsEventWithoutUser(t *testing.T) {
	repo := &fakeStatsRepo{}
	w := NewStatsWorker(nil, repo)

	w.processEvent(context.Background(), []byte(`{"quiz_id":"quiz-1","percentage":50}`))
	assert.Zero(t, repo.recordCalls)
}

func TestPopRetryDelay_ContextEndStopsWithoutSleeping(t *testing.T) {
	for _, err := range []error{
		context.Canceled,
		context.DeadlineExceeded,
		fmt.Errorf("redis: %w", context.Canceled),
	} {
		delay, stop := popRetryDelay(err)
		assert.True(t, stop, "error %v must stop the loop", err)
		assert.Zero(t, delay)
	}
}

func TestPopRetryDelay_TransientErrorsRetry(t *testing.T) {
	delay, stop := popRetryDelay(redis.Nil)
	assert.False(t, stop)
	assert.Equal(t, 1*time.Second, delay)

	delay, stop = popRetryDelay(errors.New("connection refused"))
	assert.False(t, stop)
	assert.Equal(t, 5*time.Second, delay)
}
