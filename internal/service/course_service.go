package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/learngate/learngate-backend/internal/config"
	"github.com/learngate/learngate-backend/internal/grading"
	"github.com/learngate/learngate-backend/internal/model"
	"github.com/learngate/learngate-backend/internal/progress"
	"github.com/learngate/learngate-backend/internal/repository"
	"github.com/learngate/learngate-backend/internal/response"
)

// Domain Errors
var (
	ErrNotCourseOwner     = errors.New("not the owner of this course")
	ErrCourseNotDraft     = errors.New("course status is not DRAFT")
	ErrCourseNotPublished = errors.New("course status is not PUBLISHED")
	ErrCourseNotFound     = errors.New("course not found")
)

// PublishValidationError wraps the authoring problems that block a publish.
type PublishValidationError struct {
	Errors []grading.ValidationError
}

func (e *PublishValidationError) Error() string {
	return fmt.Sprintf("course content failed publish validation with %d errors", len(e.Errors))
}

// CourseService handles course authoring, publishing and Redis caching.
type CourseService struct {
	courseRepo *repository.CourseRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo *repository.CourseRepository, rdb *redis.Client, log zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		rdb:        rdb,
		log:        log.With().Str("component", "course_service").Logger(),
	}
}

// GetByID retrieves a course by its UUID.
func (s *CourseService) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// GetOwned retrieves a course and verifies the instructor owns it.
func (s *CourseService) GetOwned(ctx context.Context, id, instructorID uuid.UUID) (*model.Course, error) {
	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, ErrNotCourseOwner
	}
	return course, nil
}

// ListByInstructor retrieves an instructor's courses. uuid.Nil lists all
// courses (admin view).
func (s *CourseService) ListByInstructor(ctx context.Context, instructorID uuid.UUID, page, perPage int) ([]model.Course, *response.Pagination, error) {
	page, perPage = clampPage(page, perPage)
	courses, total, err := s.courseRepo.ListByInstructorPaginated(ctx, instructorID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	return courses, buildPagination(page, perPage, total), nil
}

// ListCatalog retrieves published courses for the public catalog.
func (s *CourseService) ListCatalog(ctx context.Context, page, perPage int) ([]model.Course, *response.Pagination, error) {
	page, perPage = clampPage(page, perPage)
	courses, total, err := s.courseRepo.ListCatalogPaginated(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	return courses, buildPagination(page, perPage, total), nil
}

// Create inserts a new course as DRAFT with empty content.
func (s *CourseService) Create(ctx context.Context, instructorID uuid.UUID, req *model.CreateCourseRequest) (*model.Course, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	course := &model.Course{
		ID:           uuid.New(),
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: instructorID,
		Status:       model.CourseStatusDraft,
		PriceCents:   req.PriceCents,
		Currency:     currency,
		Content:      model.CourseContent{Videos: []model.Video{}, Exams: []grading.Exam{}},
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	s.log.Info().Str("course_id", course.ID.String()).Msg("Course created")
	return course, nil
}

// UpdateMeta modifies a draft course's metadata.
func (s *CourseService) UpdateMeta(ctx context.Context, id, instructorID uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.GetOwned(ctx, id, instructorID)
	if err != nil {
		return nil, err
	}
	if course.Status != model.CourseStatusDraft {
		return nil, ErrCourseNotDraft
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.PriceCents != nil {
		course.PriceCents = *req.PriceCents
	}
	if req.Currency != "" {
		course.Currency = req.Currency
	}

	if err := s.courseRepo.UpdateMeta(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// SaveContent replaces a draft course's content document. Raw exams are
// normalized with authoring defaults, which never reject a question.
func (s *CourseService) SaveContent(ctx context.Context, id, instructorID uuid.UUID, req *model.SaveContentRequest) (*model.Course, error) {
	course, err := s.GetOwned(ctx, id, instructorID)
	if err != nil {
		return nil, err
	}
	if course.Status != model.CourseStatusDraft {
		return nil, ErrCourseNotDraft
	}

	exams := make([]grading.Exam, len(req.Exams))
	for i, raw := range req.Exams {
		exams[i] = grading.NormalizeExam(raw, grading.DraftDefaults)
	}
	videos := req.Videos
	if videos == nil {
		videos = []model.Video{}
	}

	course.Content = model.CourseContent{Videos: videos, Exams: exams, RawExams: req.Exams}
	if err := s.courseRepo.SaveContent(ctx, id, course.Content); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("course_id", id.String()).
		Int("videos", len(videos)).
		Int("exams", len(exams)).
		Msg("Course content saved")
	return course, nil
}

// Publish validates the content, renormalizes it with delivery defaults,
// flips the course to PUBLISHED and warms the Redis cache.
func (s *CourseService) Publish(ctx context.Context, id, instructorID uuid.UUID) error {
	course, err := s.GetOwned(ctx, id, instructorID)
	if err != nil {
		return err
	}
	if course.Status != model.CourseStatusDraft {
		return ErrCourseNotDraft
	}

	published, allErrs := preparePublishExams(course.Content.RawExams)
	if len(allErrs) > 0 {
		return &PublishValidationError{Errors: allErrs}
	}
	course.Content.Exams = published

	if err := s.courseRepo.SaveContent(ctx, id, course.Content); err != nil {
		return fmt.Errorf("save content: %w", err)
	}
	if err := s.courseRepo.UpdateStatus(ctx, id, model.CourseStatusPublished); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	course.Status = model.CourseStatusPublished
	if err := s.WarmCourseCache(ctx, course); err != nil {
		return err
	}

	s.log.Info().Str("course_id", id.String()).Msg("Course published")
	return nil
}

// preparePublishExams renormalizes the raw authoring payload with delivery
// defaults and collects every validation error across all exams. Validation
// must run against this renormalization, not the stored draft form: draft
// normalization already filled the gaps (assumed true/false answers, default
// points) that publishing is supposed to reject or re-default.
func preparePublishExams(raws []grading.RawExam) ([]grading.Exam, []grading.ValidationError) {
	exams := make([]grading.Exam, len(raws))
	var errs []grading.ValidationError
	for i, raw := range raws {
		exams[i] = grading.NormalizeExam(raw, grading.PublishDefaults)
		errs = append(errs, grading.ValidateForPublish(exams[i])...)
	}
	return exams, errs
}

// Archive moves a published course out of the catalog and drops its cache.
func (s *CourseService) Archive(ctx context.Context, id, instructorID uuid.UUID) error {
	course, err := s.GetOwned(ctx, id, instructorID)
	if err != nil {
		return err
	}
	if course.Status != model.CourseStatusPublished {
		return ErrCourseNotPublished
	}
	if err := s.courseRepo.UpdateStatus(ctx, id, model.CourseStatusArchived); err != nil {
		return err
	}
	s.dropCourseCache(ctx, course)
	s.log.Info().Str("course_id", id.String()).Msg("Course archived")
	return nil
}

// Delete removes a draft course.
func (s *CourseService) Delete(ctx context.Context, id, instructorID uuid.UUID) error {
	course, err := s.GetOwned(ctx, id, instructorID)
	if err != nil {
		return err
	}
	if course.Status != model.CourseStatusDraft {
		return ErrCourseNotDraft
	}
	return s.courseRepo.Delete(ctx, id)
}

// RefreshCache re-caches a published course's content. Called after content
// fixes on a live course.
func (s *CourseService) RefreshCache(ctx context.Context, id, instructorID uuid.UUID) error {
	course, err := s.GetOwned(ctx, id, instructorID)
	if err != nil {
		return err
	}
	if course.Status != model.CourseStatusPublished {
		return ErrCourseNotPublished
	}
	if err := s.WarmCourseCache(ctx, course); err != nil {
		return err
	}
	s.log.Info().Str("course_id", id.String()).Msg("Cache refreshed")
	return nil
}

// WarmCourseCache loads a course's student payload, item totals and per-exam
// answer documents from PostgreSQL into Redis. Core cache-warming logic used
// by Publish, RefreshCache, and PrewarmAllCaches.
func (s *CourseService) WarmCourseCache(ctx context.Context, course *model.Course) error {
	payloadJSON, err := json.Marshal(course.Content.ForStudent())
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}

	totals := progress.CourseTotals{
		Videos: len(course.Content.Videos),
		Exams:  len(course.Content.Exams),
	}
	totalsJSON, err := json.Marshal(totals)
	if err != nil {
		return fmt.Errorf("marshal totals: %w", err)
	}

	courseID := course.ID.String()
	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.CourseContentKey(courseID), payloadJSON, 0)
	pipe.Set(ctx, config.CacheKey.CourseTotalsKey(courseID), totalsJSON, 0)
	for i := range course.Content.Exams {
		exam := &course.Content.Exams[i]
		examJSON, err := json.Marshal(exam)
		if err != nil {
			return fmt.Errorf("marshal exam %s: %w", exam.ID, err)
		}
		pipe.Set(ctx, config.CacheKey.ExamKey(courseID, exam.ID), examJSON, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("course_id", courseID).
		Int("videos", totals.Videos).
		Int("exams", totals.Exams).
		Msg("Cache warmed")
	return nil
}

func (s *CourseService) dropCourseCache(ctx context.Context, course *model.Course) {
	courseID := course.ID.String()
	keys := []string{
		config.CacheKey.CourseContentKey(courseID),
		config.CacheKey.CourseTotalsKey(courseID),
	}
	for i := range course.Content.Exams {
		keys = append(keys, config.CacheKey.ExamKey(courseID, course.Content.Exams[i].ID))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Str("course_id", courseID).Msg("Failed to drop course cache")
	}
}

// PrewarmAllCaches loads all published courses into Redis on application
// startup. This prevents lazy-loading races under thundering herd traffic.
func (s *CourseService) PrewarmAllCaches(ctx context.Context) error {
	courses, err := s.courseRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published courses: %w", err)
	}

	if len(courses) == 0 {
		s.log.Info().Msg("No published courses to prewarm")
		return nil
	}

	s.log.Info().Int("count", len(courses)).Msg("Prewarming published courses...")

	warmed := 0
	for i := range courses {
		if err := s.WarmCourseCache(ctx, &courses[i]); err != nil {
			s.log.Warn().
				Err(err).
				Str("course_id", courses[i].ID.String()).
				Msg("Failed to warm course, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(courses)).
		Msg("Prewarming complete")
	return nil
}

// GetStudentContent retrieves the cached student payload, falling back to
// PostgreSQL when the cache misses.
func (s *CourseService) GetStudentContent(ctx context.Context, courseID uuid.UUID) (*model.StudentCourseContent, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.CourseContentKey(courseID.String())).Bytes()
	if err == nil {
		var content model.StudentCourseContent
		if err := json.Unmarshal(data, &content); err == nil {
			return &content, nil
		}
		s.log.Warn().Str("course_id", courseID.String()).Msg("Corrupt cached content, falling back to database")
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get content: %w", err)
	}

	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != model.CourseStatusPublished {
		return nil, ErrCourseNotPublished
	}
	content := course.Content.ForStudent()
	return &content, nil
}

// GetExamWithKey retrieves a published exam's full document (answer material
// included) from the cache, falling back to the course row.
func (s *CourseService) GetExamWithKey(ctx context.Context, courseID uuid.UUID, examID string) (*grading.Exam, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.ExamKey(courseID.String(), examID)).Bytes()
	if err == nil {
		var exam grading.Exam
		if err := json.Unmarshal(data, &exam); err == nil {
			return &exam, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get exam: %w", err)
	}

	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.Status != model.CourseStatusPublished {
		return nil, ErrCourseNotPublished
	}
	exam := course.Content.FindExam(examID)
	if exam == nil {
		return nil, pgx.ErrNoRows
	}
	return exam, nil
}

// GetCourseTotals retrieves the cached item totals, falling back to the
// course row.
func (s *CourseService) GetCourseTotals(ctx context.Context, courseID uuid.UUID) (progress.CourseTotals, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.CourseTotalsKey(courseID.String())).Bytes()
	if err == nil {
		var totals progress.CourseTotals
		if err := json.Unmarshal(data, &totals); err == nil {
			return totals, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return progress.CourseTotals{}, fmt.Errorf("get totals: %w", err)
	}

	course, err := s.GetByID(ctx, courseID)
	if err != nil {
		return progress.CourseTotals{}, err
	}
	return progress.CourseTotals{
		Videos: len(course.Content.Videos),
		Exams:  len(course.Content.Exams),
	}, nil
}

func clampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

func buildPagination(page, perPage, total int) *response.Pagination {
	return &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}
}
