package grading

import "fmt"

// ValidationError describes one publish-time problem, pinned to the question
// index so authoring UIs can highlight the offending question.
type ValidationError struct {
	QuestionIndex int    `json:"questionIndex"`
	Field         string `json:"field"`
	Message       string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("question %d: %s: %s", e.QuestionIndex, e.Field, e.Message)
}

// ValidateForPublish checks a normalized exam against the strict publish
// rules. All questions are checked and every problem is reported, so the
// author sees the complete list instead of fixing one error per round-trip.
// An empty slice means the exam is publishable.
func ValidateForPublish(exam Exam) []ValidationError {
	var errs []ValidationError

	add := func(idx int, field, msg string) {
		errs = append(errs, ValidationError{QuestionIndex: idx, Field: field, Message: msg})
	}

	if len(exam.Questions) == 0 {
		add(-1, "questions", "exam has no questions")
	}

	for i, q := range exam.Questions {
		if q.Text == "" {
			add(i, "questionText", "question text is required")
		}
		if q.Points < 1 {
			add(i, "points", "points must be at least 1")
		}

		switch {
		case q.Type.IsChoice():
			if len(q.Options) < 2 {
				add(i, "options", "at least 2 options are required")
			}
			if q.CorrectOption == "" {
				add(i, "correctAnswer", "a correct option must be specified")
			} else if !hasOption(q.Options, q.CorrectOption) {
				add(i, "correctAnswer", "correct answer does not match any option")
			}
		case q.Type == TypeTrueFalse:
			if q.CorrectBool == nil {
				add(i, "correctAnswer", "true/false answer must be explicitly true or false")
			}
		}
	}

	return errs
}

func hasOption(opts []Option, id string) bool {
	for _, o := range opts {
		if o.ID == id {
			return true
		}
	}
	return false
}
