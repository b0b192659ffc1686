package grading

import (
	"encoding/json"
	"time"
)

// QuestionType enumerates the supported question kinds. MCQ and
// MULTIPLE_CHOICE are graded identically; the original label is preserved
// so stored course content round-trips unchanged.
type QuestionType string

const (
	TypeMCQ            QuestionType = "mcq"
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeEssay          QuestionType = "essay"
)

// IsChoice reports whether the type is one of the two choice variants.
func (t QuestionType) IsChoice() bool {
	return t == TypeMCQ || t == TypeMultipleChoice
}

// Known reports whether t is one of the supported question types.
func (t QuestionType) Known() bool {
	switch t {
	case TypeMCQ, TypeMultipleChoice, TypeTrueFalse, TypeEssay:
		return true
	}
	return false
}

// Option is a single answer option of a choice question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	// OptionText mirrors Text for clients that still read the legacy field.
	OptionText string `json:"optionText"`
}

// Question is the canonical question representation produced by Normalize.
// Downstream code (grading, scoring, publish validation) operates on this
// shape only and never re-checks raw input variants.
type Question struct {
	ID           string       `json:"id"`
	Text         string       `json:"questionText"`
	Type         QuestionType `json:"type"`
	Points       int          `json:"points"`
	Options      []Option     `json:"options,omitempty"`
	CorrectOption string      `json:"correctAnswer,omitempty"` // choice types: option id
	CorrectBool  *bool        `json:"correctBool,omitempty"`   // true_false
	SampleAnswer string       `json:"sampleAnswer,omitempty"`  // essay
}

// Exam is an exam embedded in a course's content document.
type Exam struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Questions       []Question `json:"questions"`
	TotalPoints     int        `json:"totalPoints"`
	PassingScore    int        `json:"passingScore"`
	DurationMinutes int        `json:"duration"`
}

// RecomputeTotalPoints sums the question points and stores the result. Called
// on every content save so TotalPoints never drifts from the questions.
func (e *Exam) RecomputeTotalPoints() {
	total := 0
	for i := range e.Questions {
		total += e.Questions[i].Points
	}
	e.TotalPoints = total
}

// StudentQuestion is a question with the answer material stripped, safe to
// send to a student taking the exam.
type StudentQuestion struct {
	ID      string       `json:"id"`
	Text    string       `json:"questionText"`
	Type    QuestionType `json:"type"`
	Points  int          `json:"points"`
	Options []Option     `json:"options,omitempty"`
}

// StudentExam is the student-facing view of an exam.
type StudentExam struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	DurationMinutes int               `json:"duration"`
	TotalPoints     int               `json:"totalPoints"`
	PassingScore    int               `json:"passingScore"`
	Questions       []StudentQuestion `json:"questions"`
}

// ForStudent strips correct answers and sample answers from the exam.
func (e *Exam) ForStudent() StudentExam {
	qs := make([]StudentQuestion, len(e.Questions))
	for i, q := range e.Questions {
		qs[i] = StudentQuestion{
			ID:      q.ID,
			Text:    q.Text,
			Type:    q.Type,
			Points:  q.Points,
			Options: q.Options,
		}
	}
	return StudentExam{
		ID:              e.ID,
		Title:           e.Title,
		DurationMinutes: e.DurationMinutes,
		TotalPoints:     e.TotalPoints,
		PassingScore:    e.PassingScore,
		Questions:       qs,
	}
}

// SubmittedAnswer is one entry of a student's submission payload. Answer is
// left untyped: clients send option ids for choice questions, booleans
// (or their string forms) for true/false and free text for essays.
type SubmittedAnswer struct {
	QuestionID string `json:"questionId"`
	Answer     any    `json:"answer"`
}

// Result is the outcome of scoring a full exam submission.
type Result struct {
	Score       int              `json:"score"`
	MaxScore    int              `json:"maxScore"`
	Percentage  int              `json:"percentage"`
	Grade       string           `json:"grade"`
	Passed      bool             `json:"passed"`
	SubmittedAt time.Time        `json:"submittedAt"`
	Questions   []QuestionResult `json:"questions"`
}

// QuestionResult is the per-question breakdown inside a Result.
type QuestionResult struct {
	QuestionID   string `json:"questionId"`
	Answered     bool   `json:"answered"`
	IsCorrect    bool   `json:"isCorrect"`
	PointsEarned int    `json:"pointsEarned"`
	Points       int    `json:"points"`
}

// decodeAny unmarshals a raw JSON value into the loosest matching Go type.
// Used for the mixed-type correctAnswer field of raw question input.
func decodeAny(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
