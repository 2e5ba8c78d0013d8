package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"quizhub/internal/domain/model"
	"quizhub/internal/domain/repository"
	"quizhub/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// StatsWorker consumes attempt events from the Redis queue and folds them
// into per-user aggregate stats.
type StatsWorker struct {
	rdb       *redis.Client
	statsRepo repository.StatsRepository
}

func NewStatsWorker(rdb *redis.Client, statsRepo repository.StatsRepository) *StatsWorker {
	return &StatsWorker{rdb: rdb, statsRepo: statsRepo}
}

func (w *StatsWorker) Start(ctx context.Context) {
	queueName := config.AppConfig.AttemptStatsQueueName
	log.Println("Stats worker started, listening to queue:", queueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("Stats worker stopping...")
			return
		default:
			result, err := w.rdb.BRPop(ctx, 0*time.Second, queueName).Result()
			if err != nil {
				delay, stop := popRetryDelay(err)
				if stop {
					log.Println("Stats worker stopping...")
					return
				}
				if !errors.Is(err, redis.Nil) {
					log.Printf("ERROR: Failed to BRPop from Redis queue '%s': %v", queueName, err)
				}
				time.Sleep(delay)
				continue
			}
			// BRPop returns [queueName, payload]
			if len(result) < 2 {
				continue
			}
			w.processEvent(ctx, []byte(result[1]))
		}
	}
}

// popRetryDelay maps a BRPop failure to a retry backoff, or reports that
// the worker's context has ended and the loop should exit without sleeping.
func popRetryDelay(err error) (time.Duration, bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, true
	}
	if errors.Is(err, redis.Nil) {
		return 1 * time.Second, false
	}
	return 5 * time.Second, false
}

func (w *StatsWorker) processEvent(ctx context.Context, payload []byte) {
	var event model.AttemptRecordedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Printf("ERROR: Failed to decode attempt event, dropping: %v", err)
		return
	}
	if event.UserID == "" {
		log.Printf("ERROR: Attempt event missing user id, dropping")
		return
	}
	if err := w.statsRepo.RecordAttempt(ctx, event.UserID, event.Percentage); err != nil {
		log.Printf("ERROR: Failed to record stats for user %s: %v", event.UserID, err)
	}
}
