package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/learngate/learngate-backend/internal/config"
	"github.com/learngate/learngate-backend/internal/model"
	"github.com/learngate/learngate-backend/internal/repository"
)

// ProgressWorker consumes recomputed progress documents from
// persist_progress_queue and UPSERTs them to PostgreSQL. Documents arrive
// fully recomputed, so the upsert just replaces the row; last write wins.
type ProgressWorker struct {
	progress *repository.ProgressRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewProgressWorker creates a new ProgressWorker.
func NewProgressWorker(progress *repository.ProgressRepository, rdb *redis.Client, log zerolog.Logger) *ProgressWorker {
	return &ProgressWorker{
		progress: progress,
		rdb:      rdb,
		log:      log.With().Str("component", "progress_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *ProgressWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *ProgressWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	item, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistProgressQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(item) < 2 {
		return
	}

	var row model.CourseProgress
	if err := json.Unmarshal([]byte(item[1]), &row); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.progress.Upsert(ctx, &row); err != nil {
		w.log.Error().Err(err).
			Str("student_id", row.StudentID.String()).
			Str("course_id", row.CourseID.String()).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistProgressQueue, item[1])
		time.Sleep(5 * time.Second)
	}
}

// drain processes all remaining items in the queue before shutdown.
func (w *ProgressWorker) drain(ctx context.Context) {
	drained := 0
	for {
		item, err := w.rdb.LPop(ctx, config.WorkerKey.PersistProgressQueue).Result()
		if err != nil {
			break
		}

		var row model.CourseProgress
		if err := json.Unmarshal([]byte(item), &row); err != nil {
			continue
		}
		if err := w.progress.Upsert(ctx, &row); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error, item dropped")
			continue
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("drained", drained).Msg("Drained remaining progress updates")
	}
}
