package grading

import (
	"encoding/json"
	"testing"
)

func intPtr(n int) *int { return &n }

func rawJSON(s string) json.RawMessage { return json.RawMessage(s) }

func TestNormalize_TypeResolution(t *testing.T) {
	tests := []struct {
		name         string
		typ          string
		questionType string
		want         QuestionType
	}{
		{name: "explicit type wins", typ: "mcq", questionType: "essay", want: TypeMCQ},
		{name: "fallback to questionType", typ: "", questionType: "true_false", want: TypeTrueFalse},
		{name: "multiple_choice preserved", typ: "multiple_choice", want: TypeMultipleChoice},
		{name: "case insensitive", typ: "MCQ", want: TypeMCQ},
		{name: "unknown becomes essay", typ: "matching", want: TypeEssay},
		{name: "both empty becomes essay", want: TypeEssay},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := Normalize(RawQuestion{ID: "q1", Type: tc.typ, QuestionType: tc.questionType}, DraftDefaults)
			if q.Type != tc.want {
				t.Errorf("type = %q, want %q", q.Type, tc.want)
			}
		})
	}
}

func TestNormalize_Points(t *testing.T) {
	tests := []struct {
		name   string
		points *int
		marks  *int
		defs   Defaults
		want   int
	}{
		{name: "explicit points", points: intPtr(5), defs: DraftDefaults, want: 5},
		{name: "marks fallback", marks: intPtr(3), defs: DraftDefaults, want: 3},
		{name: "points beats marks", points: intPtr(5), marks: intPtr(3), defs: DraftDefaults, want: 5},
		{name: "draft default", defs: DraftDefaults, want: 10},
		{name: "publish default", defs: PublishDefaults, want: 1},
		{name: "zero points treated as absent", points: intPtr(0), defs: PublishDefaults, want: 1},
		{name: "negative points treated as absent", points: intPtr(-2), defs: DraftDefaults, want: 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := Normalize(RawQuestion{ID: "q1", Type: "mcq", Points: tc.points, Marks: tc.marks}, tc.defs)
			if q.Points != tc.want {
				t.Errorf("points = %d, want %d", q.Points, tc.want)
			}
			if q.Points < 1 {
				t.Errorf("points = %d, must resolve to >= 1", q.Points)
			}
		})
	}
}

func TestNormalize_Options(t *testing.T) {
	t.Run("bare strings get generated ids", func(t *testing.T) {
		q := Normalize(RawQuestion{
			ID:      "q7",
			Type:    "mcq",
			Options: []json.RawMessage{rawJSON(`"Paris"`), rawJSON(`"London"`)},
		}, DraftDefaults)

		if len(q.Options) != 2 {
			t.Fatalf("got %d options, want 2", len(q.Options))
		}
		if q.Options[0].ID != "opt_q7_0" || q.Options[1].ID != "opt_q7_1" {
			t.Errorf("generated ids = %q, %q", q.Options[0].ID, q.Options[1].ID)
		}
		if q.Options[0].Text != "Paris" || q.Options[0].OptionText != "Paris" {
			t.Errorf("text not mirrored: %+v", q.Options[0])
		}
	})

	t.Run("choices alias with optionText", func(t *testing.T) {
		q := Normalize(RawQuestion{
			ID:   "q2",
			Type: "multiple_choice",
			Choices: []json.RawMessage{
				rawJSON(`{"id":"a","optionText":"Red"}`),
				rawJSON(`{"id":"b","text":"Blue"}`),
			},
		}, DraftDefaults)

		if len(q.Options) != 2 {
			t.Fatalf("got %d options, want 2", len(q.Options))
		}
		if q.Options[0].Text != "Red" || q.Options[1].Text != "Blue" {
			t.Errorf("texts = %q, %q", q.Options[0].Text, q.Options[1].Text)
		}
	})

	t.Run("options take precedence over choices", func(t *testing.T) {
		q := Normalize(RawQuestion{
			ID:      "q3",
			Type:    "mcq",
			Options: []json.RawMessage{rawJSON(`"One"`)},
			Choices: []json.RawMessage{rawJSON(`"Two"`), rawJSON(`"Three"`)},
		}, DraftDefaults)

		if len(q.Options) != 1 || q.Options[0].Text != "One" {
			t.Errorf("options = %+v", q.Options)
		}
	})
}

func TestNormalize_CorrectAnswerResolution(t *testing.T) {
	t.Run("explicit correctAnswer trimmed", func(t *testing.T) {
		q := Normalize(RawQuestion{
			ID:            "q1",
			Type:          "mcq",
			Options:       []json.RawMessage{rawJSON(`{"id":"a","text":"A"}`), rawJSON(`{"id":"b","text":"B"}`)},
			CorrectAnswer: rawJSON(`"  b "`),
		}, DraftDefaults)
		if q.CorrectOption != "b" {
			t.Errorf("correct = %q, want b", q.CorrectOption)
		}
	})

	t.Run("isCorrect flag maps to normalized option id", func(t *testing.T) {
		q := Normalize(RawQuestion{
			ID:   "q4",
			Type: "mcq",
			Choices: []json.RawMessage{
				rawJSON(`{"text":"Wrong"}`),
				rawJSON(`{"text":"Right","isCorrect":true}`),
			},
		}, DraftDefaults)
		if q.CorrectOption != "opt_q4_1" {
			t.Errorf("correct = %q, want opt_q4_1", q.CorrectOption)
		}
	})
}

func TestNormalize_TrueFalse(t *testing.T) {
	tests := []struct {
		name    string
		correct json.RawMessage
		defs    Defaults
		want    *bool
	}{
		{name: "boolean kept", correct: rawJSON(`false`), defs: DraftDefaults, want: boolPtr(false)},
		{name: "string true coerced", correct: rawJSON(`"true"`), defs: PublishDefaults, want: boolPtr(true)},
		{name: "string false coerced", correct: rawJSON(`"false"`), defs: PublishDefaults, want: boolPtr(false)},
		{name: "absent defaults true in draft", defs: DraftDefaults, want: boolPtr(true)},
		{name: "absent stays nil in publish", defs: PublishDefaults, want: nil},
		{name: "garbage stays nil in publish", correct: rawJSON(`"yes"`), defs: PublishDefaults, want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := Normalize(RawQuestion{ID: "q1", Type: "true_false", CorrectAnswer: tc.correct}, tc.defs)
			switch {
			case tc.want == nil && q.CorrectBool != nil:
				t.Errorf("correctBool = %v, want nil", *q.CorrectBool)
			case tc.want != nil && (q.CorrectBool == nil || *q.CorrectBool != *tc.want):
				t.Errorf("correctBool = %v, want %v", q.CorrectBool, *tc.want)
			}
		})
	}
}

func TestNormalizeExam(t *testing.T) {
	raw := RawExam{
		ID:    "e1",
		Title: " Algebra Final ",
		Questions: []RawQuestion{
			{ID: "q1", Type: "mcq", Points: intPtr(10), Options: []json.RawMessage{rawJSON(`"a"`), rawJSON(`"b"`)}},
			{ID: "q2", Type: "true_false", Points: intPtr(5), CorrectAnswer: rawJSON(`true`)},
			{ID: "q3", Type: "essay"},
		},
	}

	exam := NormalizeExam(raw, DraftDefaults)

	if exam.Title != "Algebra Final" {
		t.Errorf("title = %q", exam.Title)
	}
	if exam.PassingScore != DefaultPassingScore {
		t.Errorf("passingScore = %d, want %d", exam.PassingScore, DefaultPassingScore)
	}
	// 10 + 5 + draft default 10
	if exam.TotalPoints != 25 {
		t.Errorf("totalPoints = %d, want 25", exam.TotalPoints)
	}
}

func TestValidateForPublish(t *testing.T) {
	exam := NormalizeExam(RawExam{
		ID: "e1",
		Questions: []RawQuestion{
			{ID: "q1", QuestionText: "ok?", Type: "mcq",
				Options:       []json.RawMessage{rawJSON(`{"id":"a","text":"A"}`), rawJSON(`{"id":"b","text":"B"}`)},
				CorrectAnswer: rawJSON(`"a"`)},
			{ID: "q2", Type: "mcq", Options: []json.RawMessage{rawJSON(`"only one"`)}},
			{ID: "q3", QuestionText: "t or f?", Type: "true_false"},
		},
	}, PublishDefaults)

	errs := ValidateForPublish(exam)

	// q2: missing text, <2 options, no correct answer. q3: no explicit bool.
	if len(errs) != 4 {
		t.Fatalf("got %d errors, want 4: %v", len(errs), errs)
	}
	for _, e := range errs[:3] {
		if e.QuestionIndex != 1 {
			t.Errorf("error %v pinned to index %d, want 1", e, e.QuestionIndex)
		}
	}
	if errs[3].QuestionIndex != 2 {
		t.Errorf("true/false error pinned to index %d, want 2", errs[3].QuestionIndex)
	}

	t.Run("valid exam passes", func(t *testing.T) {
		ok := NormalizeExam(RawExam{
			ID: "e2",
			Questions: []RawQuestion{
				{ID: "q1", QuestionText: "ok?", Type: "mcq",
					Options:       []json.RawMessage{rawJSON(`{"id":"a","text":"A"}`), rawJSON(`{"id":"b","text":"B"}`)},
					CorrectAnswer: rawJSON(`"b"`)},
			},
		}, PublishDefaults)
		if errs := ValidateForPublish(ok); len(errs) != 0 {
			t.Errorf("unexpected errors: %v", errs)
		}
	})

	t.Run("empty exam rejected", func(t *testing.T) {
		errs := ValidateForPublish(Exam{ID: "e3"})
		if len(errs) != 1 || errs[0].Field != "questions" {
			t.Errorf("errors = %v", errs)
		}
	})
}

func boolPtr(b bool) *bool { return &b }
