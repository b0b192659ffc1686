package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/learngate/learngate-backend/internal/config"
	"github.com/learngate/learngate-backend/internal/model"
	"github.com/learngate/learngate-backend/internal/repository"
)

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second
)

// ResultWorker consumes graded exam results from persist_results_queue and
// inserts them into PostgreSQL in batches. The unique constraint on
// (student_id, course_id, exam_id) makes redelivery harmless.
type ResultWorker struct {
	pool    *pgxpool.Pool
	results *repository.ExamResultRepository
	rdb     *redis.Client
	log     zerolog.Logger
}

// NewResultWorker creates a new ResultWorker.
func NewResultWorker(pool *pgxpool.Pool, results *repository.ExamResultRepository, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		pool:    pool,
		results: results,
		rdb:     rdb,
		log:     log.With().Str("component", "result_worker").Logger(),
	}
}

// Start begins the worker loop with batching. Call in a goroutine.
func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	batch := make([]*model.ExamResult, 0, ResultBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ResultBatchSize || time.Since(lastFlush) >= ResultBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ResultPollTimeout, config.WorkerKey.PersistResultsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var res model.ExamResult
			if err := json.Unmarshal([]byte(item[1]), &res); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &res)
		}
	}
}

func (w *ResultWorker) flushSafe(ctx context.Context, batch []*model.ExamResult) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkInsertResults(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk result insert failed, using fallback")

		for _, res := range batch {
			if err := w.persistSingle(ctx, res); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed — requeueing")
				raw, _ := json.Marshal(res)
				w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw)
			}
		}
	}
}

// bulkInsertResults writes the whole batch in one statement using UNNEST.
// Conflicting rows (redelivered payloads) are silently skipped.
func (w *ResultWorker) bulkInsertResults(ctx context.Context, batch []*model.ExamResult) error {
	n := len(batch)

	ids := make([]uuid.UUID, 0, n)
	students := make([]uuid.UUID, 0, n)
	courses := make([]uuid.UUID, 0, n)
	exams := make([]string, 0, n)
	scores := make([]int, 0, n)
	maxScores := make([]int, 0, n)
	percentages := make([]int, 0, n)
	grades := make([]string, 0, n)
	passed := make([]bool, 0, n)
	submittedAts := make([]time.Time, 0, n)

	for _, r := range batch {
		ids = append(ids, r.ID)
		students = append(students, r.StudentID)
		courses = append(courses, r.CourseID)
		exams = append(exams, r.ExamID)
		scores = append(scores, r.Score)
		maxScores = append(maxScores, r.MaxScore)
		percentages = append(percentages, r.Percentage)
		grades = append(grades, r.Grade)
		passed = append(passed, r.Passed)
		submittedAts = append(submittedAts, r.SubmittedAt)
	}

	query := `
		INSERT INTO exam_results
			(id, student_id, course_id, exam_id, score, max_score, percentage, grade, passed, submitted_at)
		SELECT
			u.id, u.student_id, u.course_id, u.exam_id, u.score,
			u.max_score, u.percentage, u.grade, u.passed, u.submitted_at
		FROM UNNEST(
			$1::uuid[],
			$2::uuid[],
			$3::uuid[],
			$4::text[],
			$5::int[],
			$6::int[],
			$7::int[],
			$8::text[],
			$9::boolean[],
			$10::timestamptz[]
		) AS u (id, student_id, course_id, exam_id, score, max_score, percentage, grade, passed, submitted_at)
		ON CONFLICT (student_id, course_id, exam_id) DO NOTHING
	`

	_, err := w.pool.Exec(ctx, query,
		ids, students, courses, exams, scores,
		maxScores, percentages, grades, passed, submittedAts)
	if err == nil {
		w.log.Debug().Int("count", n).Msg("Batch persisted")
	}
	return err
}

func (w *ResultWorker) persistSingle(ctx context.Context, r *model.ExamResult) error {
	err := w.results.Create(ctx, r)
	if errors.Is(err, pgx.ErrNoRows) {
		// Redelivered payload; the row already exists.
		return nil
	}
	return err
}
