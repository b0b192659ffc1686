package grading

import "strings"

// GradeResult is the outcome of grading a single question.
type GradeResult struct {
	IsCorrect    bool `json:"isCorrect"`
	PointsEarned int  `json:"pointsEarned"`
}

// Essay auto-grading length cutoffs (characters). Responses longer than
// essayFullLength earn full points, responses longer than essayHalfLength
// earn half, shorter responses earn nothing. This is a provisional stand-in
// for manual review, not a real assessment.
const (
	essayFullLength = 50
	essayHalfLength = 20
)

// Grade evaluates a submitted answer against a canonical question. It is a
// pure function: malformed or missing answers earn zero credit, never an
// error.
func Grade(q Question, submitted any) GradeResult {
	switch {
	case q.Type.IsChoice():
		return gradeChoice(q, submitted)
	case q.Type == TypeTrueFalse:
		return gradeTrueFalse(q, submitted)
	case q.Type == TypeEssay:
		return gradeEssay(q, submitted)
	}
	return GradeResult{}
}

// gradeChoice awards full points iff the submitted option id exactly equals
// the stored correct answer. Case-sensitive, no partial credit.
func gradeChoice(q Question, submitted any) GradeResult {
	s, ok := submitted.(string)
	if !ok || q.CorrectOption == "" {
		return GradeResult{}
	}
	if s == q.CorrectOption {
		return GradeResult{IsCorrect: true, PointsEarned: q.Points}
	}
	return GradeResult{}
}

// gradeTrueFalse compares the coerced submitted value to the stored boolean.
// One coercion rule applies everywhere: a submission counts as true iff it is
// boolean true or the string "true". The string form exists for compatibility
// with answers persisted by older clients that serialized booleans as text.
func gradeTrueFalse(q Question, submitted any) GradeResult {
	if q.CorrectBool == nil || submitted == nil {
		return GradeResult{}
	}
	if coerceBool(submitted) == *q.CorrectBool {
		return GradeResult{IsCorrect: true, PointsEarned: q.Points}
	}
	return GradeResult{}
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(strings.TrimSpace(b), "true")
	}
	return false
}

// gradeEssay applies the length-based partial-credit heuristic. Callers
// should treat essay results as provisional pending manual review.
func gradeEssay(q Question, submitted any) GradeResult {
	s, ok := submitted.(string)
	if !ok {
		return GradeResult{}
	}

	n := len(strings.TrimSpace(s))
	switch {
	case n > essayFullLength:
		return GradeResult{IsCorrect: true, PointsEarned: q.Points}
	case n > essayHalfLength:
		return GradeResult{PointsEarned: q.Points / 2}
	}
	return GradeResult{}
}
