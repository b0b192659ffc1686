package service

import (
	"encoding/json"
	"testing"

	"github.com/learngate/learngate-backend/internal/grading"
)

func rawJSON(s string) json.RawMessage { return json.RawMessage(s) }

// Drafts are saved with permissive defaults, so publishing has to
// renormalize the raw authoring payload. Otherwise a true/false question
// the author never answered would slip through validation as an assumed
// "true" and draft point defaults would survive publication.
func TestPreparePublishExams_IgnoresDraftDefaults(t *testing.T) {
	raw := grading.RawExam{
		ID: "e1",
		Questions: []grading.RawQuestion{
			{ID: "q1", QuestionText: "t or f?", Type: "true_false"},
		},
	}

	// The draft form of the same payload carries an assumed answer and the
	// draft point default; it would validate cleanly on its own.
	draft := grading.NormalizeExam(raw, grading.DraftDefaults)
	if draft.Questions[0].CorrectBool == nil || draft.Questions[0].Points != 10 {
		t.Fatalf("draft form = %+v, want assumed answer and 10 points", draft.Questions[0])
	}
	if errs := grading.ValidateForPublish(draft); len(errs) != 0 {
		t.Fatalf("draft form unexpectedly invalid: %v", errs)
	}

	_, errs := preparePublishExams([]grading.RawExam{raw})
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].QuestionIndex != 0 || errs[0].Field != "correctAnswer" {
		t.Errorf("error = %+v, want correctAnswer at index 0", errs[0])
	}
}

func TestPreparePublishExams_AppliesDeliveryPointDefault(t *testing.T) {
	raw := grading.RawExam{
		ID: "e1",
		Questions: []grading.RawQuestion{
			{ID: "q1", QuestionText: "ok?", Type: "mcq",
				Options:       []json.RawMessage{rawJSON(`{"id":"a","text":"A"}`), rawJSON(`{"id":"b","text":"B"}`)},
				CorrectAnswer: rawJSON(`"a"`)},
		},
	}

	exams, errs := preparePublishExams([]grading.RawExam{raw})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if exams[0].Questions[0].Points != 1 {
		t.Errorf("points = %d, want the delivery default 1", exams[0].Questions[0].Points)
	}
	if exams[0].TotalPoints != 1 {
		t.Errorf("totalPoints = %d, want 1", exams[0].TotalPoints)
	}

	errsAcross := func() []grading.ValidationError {
		_, e := preparePublishExams([]grading.RawExam{raw, {ID: "e2"}})
		return e
	}()
	// The second exam has no questions; errors from every exam are collected.
	if len(errsAcross) != 1 || errsAcross[0].QuestionIndex != -1 {
		t.Errorf("cross-exam errors = %v, want the empty-exam error", errsAcross)
	}
}
