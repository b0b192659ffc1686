// Package progress computes per-student course completion from completed
// videos and exams. The aggregation is deliberately idempotent: concurrent
// completion requests may insert duplicates, and the de-dup pass on every
// recompute makes the stored document converge regardless of write order.
package progress

import "time"

// CompletedVideo records one video a student finished.
type CompletedVideo struct {
	VideoID        string    `json:"videoId"`
	WatchedSeconds int       `json:"watchedSeconds,omitempty"`
	CompletedAt    time.Time `json:"completedAt"`
}

// CompletedExam records one exam a student finished, with the scored outcome.
type CompletedExam struct {
	ExamID      string    `json:"examId"`
	Score       int       `json:"score"`
	MaxScore    int       `json:"maxScore"`
	Percentage  int       `json:"percentage"`
	Passed      bool      `json:"passed"`
	CompletedAt time.Time `json:"completedAt"`
}

// Record is the per-student-per-course progress document.
type Record struct {
	CompletedVideos []CompletedVideo `json:"completedVideos"`
	CompletedExams  []CompletedExam  `json:"completedExams"`
	OverallProgress int              `json:"overallProgress"`
	IsCompleted     bool             `json:"isCompleted"`
	CompletedAt     *time.Time       `json:"completedAt,omitempty"`
	LastActivityAt  time.Time        `json:"lastActivityAt"`
}

// CourseTotals is the denominator side of the progress calculation.
type CourseTotals struct {
	Videos int
	Exams  int
}

// DedupVideos removes duplicate video completions, keeping the first
// occurrence of each id. Already-deduplicated input is returned unchanged.
func DedupVideos(videos []CompletedVideo) []CompletedVideo {
	seen := make(map[string]bool, len(videos))
	out := videos[:0]
	for _, v := range videos {
		if seen[v.VideoID] {
			continue
		}
		seen[v.VideoID] = true
		out = append(out, v)
	}
	return out
}

// DedupExams removes duplicate exam completions, keeping the first
// occurrence of each id.
func DedupExams(exams []CompletedExam) []CompletedExam {
	seen := make(map[string]bool, len(exams))
	out := exams[:0]
	for _, e := range exams {
		if seen[e.ExamID] {
			continue
		}
		seen[e.ExamID] = true
		out = append(out, e)
	}
	return out
}

// Recompute de-duplicates the completion lists and recalculates
// OverallProgress and IsCompleted against the course totals. Must run on
// every persist: the store tolerates duplicate inserts under racing
// completion requests, and this pass is what keeps the update idempotent.
//
// The completion transition is one-way. Once IsCompleted is set it never
// reverts, even if the course later grows new items; the stale completion is
// an accepted tradeoff.
func Recompute(rec *Record, totals CourseTotals) {
	rec.CompletedVideos = DedupVideos(rec.CompletedVideos)
	rec.CompletedExams = DedupExams(rec.CompletedExams)

	totalItems := totals.Videos + totals.Exams
	completedItems := len(rec.CompletedVideos) + len(rec.CompletedExams)

	if totalItems > 0 {
		pct := int(float64(completedItems)/float64(totalItems)*100 + 0.5)
		// Historical documents can hold completions for items since removed
		// from the course, so clamp.
		if pct > 100 {
			pct = 100
		}
		rec.OverallProgress = pct
	} else {
		// Missing or empty course: report zero rather than failing.
		rec.OverallProgress = 0
	}

	if !rec.IsCompleted && totalItems > 0 && completedItems >= totalItems {
		rec.IsCompleted = true
		now := time.Now().UTC()
		rec.CompletedAt = &now
	}
}

// AddVideo appends a video completion and stamps the activity time. The
// duplicate check happens in Recompute, not here.
func (r *Record) AddVideo(videoID string, watchedSeconds int) {
	now := time.Now().UTC()
	r.CompletedVideos = append(r.CompletedVideos, CompletedVideo{
		VideoID:        videoID,
		WatchedSeconds: watchedSeconds,
		CompletedAt:    now,
	})
	r.LastActivityAt = now
}

// AddExam appends an exam completion and stamps the activity time.
func (r *Record) AddExam(examID string, score, maxScore, percentage int, passed bool) {
	now := time.Now().UTC()
	r.CompletedExams = append(r.CompletedExams, CompletedExam{
		ExamID:      examID,
		Score:       score,
		MaxScore:    maxScore,
		Percentage:  percentage,
		Passed:      passed,
		CompletedAt: now,
	})
	r.LastActivityAt = now
}
