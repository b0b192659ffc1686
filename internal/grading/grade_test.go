package grading

import (
	"strings"
	"testing"
)

func TestGrade_Choice(t *testing.T) {
	q := Question{ID: "q1", Type: TypeMCQ, Points: 10, CorrectOption: "b"}

	tests := []struct {
		name      string
		submitted any
		correct   bool
		earned    int
	}{
		{name: "exact match", submitted: "b", correct: true, earned: 10},
		{name: "wrong option", submitted: "a", correct: false, earned: 0},
		{name: "case sensitive", submitted: "B", correct: false, earned: 0},
		{name: "non-string", submitted: 2, correct: false, earned: 0},
		{name: "nil", submitted: nil, correct: false, earned: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Grade(q, tc.submitted)
			if got.IsCorrect != tc.correct || got.PointsEarned != tc.earned {
				t.Errorf("got %+v, want correct=%v earned=%d", got, tc.correct, tc.earned)
			}
		})
	}

	t.Run("multiple_choice same policy", func(t *testing.T) {
		mc := q
		mc.Type = TypeMultipleChoice
		if got := Grade(mc, "b"); !got.IsCorrect || got.PointsEarned != 10 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("no correct answer stored", func(t *testing.T) {
		broken := Question{ID: "q2", Type: TypeMCQ, Points: 10}
		if got := Grade(broken, "a"); got.IsCorrect || got.PointsEarned != 0 {
			t.Errorf("got %+v", got)
		}
	})
}

func TestGrade_TrueFalse(t *testing.T) {
	correctTrue := true
	q := Question{ID: "q1", Type: TypeTrueFalse, Points: 5, CorrectBool: &correctTrue}

	tests := []struct {
		name      string
		submitted any
		correct   bool
	}{
		{name: "boolean true", submitted: true, correct: true},
		{name: "boolean false", submitted: false, correct: false},
		{name: "string true", submitted: "true", correct: true},
		{name: "string TRUE", submitted: "TRUE", correct: true},
		{name: "string false", submitted: "false", correct: false},
		{name: "garbage string is false", submitted: "yes", correct: false},
		{name: "number is false", submitted: float64(1), correct: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Grade(q, tc.submitted)
			if got.IsCorrect != tc.correct {
				t.Errorf("isCorrect = %v, want %v", got.IsCorrect, tc.correct)
			}
			wantEarned := 0
			if tc.correct {
				wantEarned = 5
			}
			if got.PointsEarned != wantEarned {
				t.Errorf("earned = %d, want %d", got.PointsEarned, wantEarned)
			}
		})
	}

	t.Run("correct answer false", func(t *testing.T) {
		correctFalse := false
		qf := Question{ID: "q2", Type: TypeTrueFalse, Points: 5, CorrectBool: &correctFalse}
		if got := Grade(qf, "false"); !got.IsCorrect {
			t.Errorf("got %+v", got)
		}
		if got := Grade(qf, true); got.IsCorrect {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("nil submission never correct", func(t *testing.T) {
		if got := Grade(q, nil); got.IsCorrect {
			t.Errorf("got %+v", got)
		}
	})
}

func TestGrade_Essay(t *testing.T) {
	q := Question{ID: "q1", Type: TypeEssay, Points: 9}

	tests := []struct {
		name    string
		length  int
		correct bool
		earned  int
	}{
		{name: "length 60 full points", length: 60, correct: true, earned: 9},
		{name: "length 51 full points", length: 51, correct: true, earned: 9},
		{name: "length 50 half floored", length: 50, correct: false, earned: 4},
		{name: "length 30 half floored", length: 30, correct: false, earned: 4},
		{name: "length 21 half floored", length: 21, correct: false, earned: 4},
		{name: "length 20 zero", length: 20, correct: false, earned: 0},
		{name: "length 10 zero", length: 10, correct: false, earned: 0},
		{name: "empty zero", length: 0, correct: false, earned: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Grade(q, strings.Repeat("x", tc.length))
			if got.IsCorrect != tc.correct || got.PointsEarned != tc.earned {
				t.Errorf("got %+v, want correct=%v earned=%d", got, tc.correct, tc.earned)
			}
		})
	}

	t.Run("non-string submission", func(t *testing.T) {
		if got := Grade(q, 42); got.PointsEarned != 0 || got.IsCorrect {
			t.Errorf("got %+v", got)
		}
	})
}
