package progress

import (
	"testing"
	"time"
)

func TestRecompute_Basic(t *testing.T) {
	rec := &Record{}
	rec.AddVideo("v1", 300)
	rec.AddExam("e1", 10, 15, 67, true)

	Recompute(rec, CourseTotals{Videos: 3, Exams: 1})

	// 2 of 4 items.
	if rec.OverallProgress != 50 {
		t.Errorf("overallProgress = %d, want 50", rec.OverallProgress)
	}
	if rec.IsCompleted {
		t.Error("must not be completed at 50%")
	}
}

func TestRecompute_Rounding(t *testing.T) {
	rec := &Record{}
	rec.AddVideo("v1", 0)

	// 1 of 3 = 33.33 rounds to 33.
	Recompute(rec, CourseTotals{Videos: 3})
	if rec.OverallProgress != 33 {
		t.Errorf("overallProgress = %d, want 33", rec.OverallProgress)
	}

	// 2 of 3 = 66.67 rounds to 67.
	rec.AddVideo("v2", 0)
	Recompute(rec, CourseTotals{Videos: 3})
	if rec.OverallProgress != 67 {
		t.Errorf("overallProgress = %d, want 67", rec.OverallProgress)
	}
}

func TestRecompute_DedupIdempotent(t *testing.T) {
	rec := &Record{}
	rec.AddVideo("v1", 100)
	rec.AddVideo("v1", 200) // racing duplicate
	rec.AddVideo("v2", 300)
	rec.AddExam("e1", 5, 5, 100, true)
	rec.AddExam("e1", 3, 5, 60, true) // racing duplicate

	Recompute(rec, CourseTotals{Videos: 2, Exams: 1})

	if len(rec.CompletedVideos) != 2 || len(rec.CompletedExams) != 1 {
		t.Fatalf("dedup left %d videos, %d exams", len(rec.CompletedVideos), len(rec.CompletedExams))
	}
	// First occurrence wins.
	if rec.CompletedVideos[0].WatchedSeconds != 100 {
		t.Errorf("kept wrong duplicate: %+v", rec.CompletedVideos[0])
	}
	if rec.CompletedExams[0].Score != 5 {
		t.Errorf("kept wrong duplicate: %+v", rec.CompletedExams[0])
	}

	// Second pass over already-deduplicated lists changes nothing.
	videosBefore := make([]CompletedVideo, len(rec.CompletedVideos))
	copy(videosBefore, rec.CompletedVideos)
	deduped := DedupVideos(rec.CompletedVideos)
	if len(deduped) != len(videosBefore) {
		t.Fatalf("second dedup changed length: %d -> %d", len(videosBefore), len(deduped))
	}
	for i := range deduped {
		if deduped[i] != videosBefore[i] {
			t.Errorf("entry %d changed: %+v -> %+v", i, videosBefore[i], deduped[i])
		}
	}
}

func TestRecompute_ClampAt100(t *testing.T) {
	// Historical data can hold completions for items removed from the course.
	rec := &Record{}
	rec.AddVideo("v1", 0)
	rec.AddVideo("v2", 0)
	rec.AddVideo("v3", 0)

	Recompute(rec, CourseTotals{Videos: 2})

	if rec.OverallProgress != 100 {
		t.Errorf("overallProgress = %d, want clamped 100", rec.OverallProgress)
	}
}

func TestRecompute_CompletionOneWay(t *testing.T) {
	rec := &Record{}
	rec.AddVideo("v1", 0)
	rec.AddExam("e1", 10, 10, 100, true)

	Recompute(rec, CourseTotals{Videos: 1, Exams: 1})
	if !rec.IsCompleted || rec.CompletedAt == nil {
		t.Fatalf("expected completion: %+v", rec)
	}
	stamped := *rec.CompletedAt

	// Course grew a new video afterwards. Completion never reverts and the
	// original stamp is retained.
	Recompute(rec, CourseTotals{Videos: 2, Exams: 1})
	if !rec.IsCompleted {
		t.Error("completion reverted")
	}
	if rec.CompletedAt == nil || !rec.CompletedAt.Equal(stamped) {
		t.Error("completedAt restamped")
	}
	if rec.OverallProgress != 67 {
		t.Errorf("overallProgress = %d, want 67", rec.OverallProgress)
	}
}

func TestRecompute_MissingCourse(t *testing.T) {
	rec := &Record{}
	rec.AddVideo("v1", 0)

	Recompute(rec, CourseTotals{})

	if rec.OverallProgress != 0 {
		t.Errorf("overallProgress = %d, want 0 for empty totals", rec.OverallProgress)
	}
	if rec.IsCompleted {
		t.Error("empty course must not mark completion")
	}
}

func TestAddStampsActivity(t *testing.T) {
	rec := &Record{}
	before := time.Now().UTC()
	rec.AddVideo("v1", 42)
	if rec.LastActivityAt.Before(before) {
		t.Error("lastActivityAt not stamped")
	}
	if rec.CompletedVideos[0].CompletedAt.IsZero() {
		t.Error("completedAt not stamped")
	}
}
