package grading

import (
	"math"
	"time"
)

// gradeBucket maps a minimum percentage to a letter grade. Ordered high to
// low; the first bucket whose threshold the percentage meets wins.
type gradeBucket struct {
	min   int
	grade string
}

var gradeBuckets = []gradeBucket{
	{97, "A+"},
	{93, "A"},
	{90, "A-"},
	{87, "B+"},
	{83, "B"},
	{80, "B-"},
	{77, "C+"},
	{73, "C"},
	{70, "C-"},
	{67, "D+"},
	{63, "D"},
	{60, "D-"},
}

// LetterGrade maps a 0-100 percentage to a letter grade.
func LetterGrade(percentage int) string {
	for _, b := range gradeBuckets {
		if percentage >= b.min {
			return b.grade
		}
	}
	return "F"
}

// alwaysPassGrades force passed=true regardless of the exam's passing score.
var alwaysPassGrades = map[string]bool{"A+": true, "A": true, "B+": true}

// Score grades a full submission against an exam. It is a total function:
// it iterates the exam's questions (not the submitted answers), so unanswered
// questions score zero and unknown question ids in the submission are
// ignored. It never returns an error for learner input.
func Score(exam Exam, answers []SubmittedAnswer) Result {
	byQuestion := make(map[string]any, len(answers))
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		if _, dup := answered[a.QuestionID]; dup {
			continue // first submission per question wins
		}
		byQuestion[a.QuestionID] = a.Answer
		answered[a.QuestionID] = true
	}

	result := Result{
		SubmittedAt: time.Now().UTC(),
		Questions:   make([]QuestionResult, 0, len(exam.Questions)),
	}

	sum := 0
	for _, q := range exam.Questions {
		sum += q.Points

		qr := QuestionResult{QuestionID: q.ID, Points: q.Points}
		if submitted, ok := byQuestion[q.ID]; ok {
			qr.Answered = true
			gr := Grade(q, submitted)
			qr.IsCorrect = gr.IsCorrect
			qr.PointsEarned = gr.PointsEarned
		}

		result.Score += qr.PointsEarned
		result.Questions = append(result.Questions, qr)
	}

	// exam.TotalPoints can be stale when content was edited without a
	// recompute; the live sum takes precedence.
	result.MaxScore = sum

	if result.MaxScore > 0 {
		result.Percentage = int(math.Round(float64(result.Score) / float64(result.MaxScore) * 100))
	}

	result.Grade = LetterGrade(result.Percentage)

	passingScore := exam.PassingScore
	if passingScore <= 0 {
		passingScore = DefaultPassingScore
	}
	result.Passed = result.Percentage >= passingScore || alwaysPassGrades[result.Grade]

	return result
}
