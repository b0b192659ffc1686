package grading

import "testing"

func choiceQ(id, correct string, points int) Question {
	return Question{
		ID: id, Type: TypeMCQ, Points: points,
		Options:       []Option{{ID: "a", Text: "A", OptionText: "A"}, {ID: "b", Text: "B", OptionText: "B"}},
		CorrectOption: correct,
	}
}

func tfQ(id string, correct bool, points int) Question {
	return Question{ID: id, Type: TypeTrueFalse, Points: points, CorrectBool: &correct}
}

func TestScore_AllCorrect(t *testing.T) {
	exam := Exam{
		ID:           "e1",
		TotalPoints:  30,
		PassingScore: 60,
		Questions: []Question{
			choiceQ("q1", "a", 10),
			choiceQ("q2", "b", 15),
			tfQ("q3", true, 5),
		},
	}

	r := Score(exam, []SubmittedAnswer{
		{QuestionID: "q1", Answer: "a"},
		{QuestionID: "q2", Answer: "b"},
		{QuestionID: "q3", Answer: true},
	})

	if r.Score != 30 || r.MaxScore != 30 || r.Percentage != 100 {
		t.Errorf("score=%d max=%d pct=%d", r.Score, r.MaxScore, r.Percentage)
	}
	if r.Grade != "A+" || !r.Passed {
		t.Errorf("grade=%q passed=%v", r.Grade, r.Passed)
	}
}

func TestScore_MixedSubmission(t *testing.T) {
	// One correct MCQ worth 10, one wrong true/false worth 5.
	exam := Exam{
		ID:           "e1",
		TotalPoints:  15,
		PassingScore: 60,
		Questions:    []Question{choiceQ("q1", "b", 10), tfQ("q2", true, 5)},
	}

	r := Score(exam, []SubmittedAnswer{
		{QuestionID: "q1", Answer: "b"},
		{QuestionID: "q2", Answer: false},
	})

	if r.Score != 10 || r.MaxScore != 15 {
		t.Errorf("score=%d max=%d", r.Score, r.MaxScore)
	}
	if r.Percentage != 67 {
		t.Errorf("pct=%d, want 67", r.Percentage)
	}
	if r.Grade != "D+" {
		t.Errorf("grade=%q, want D+", r.Grade)
	}
	if !r.Passed {
		t.Error("67 >= 60 should pass")
	}
}

func TestScore_TotalFunction(t *testing.T) {
	exam := Exam{
		ID:        "e1",
		Questions: []Question{choiceQ("q1", "a", 10), choiceQ("q2", "b", 10)},
	}

	t.Run("missing answers score zero", func(t *testing.T) {
		r := Score(exam, []SubmittedAnswer{{QuestionID: "q1", Answer: "a"}})
		if r.Score != 10 || r.MaxScore != 20 {
			t.Errorf("score=%d max=%d", r.Score, r.MaxScore)
		}
		if len(r.Questions) != 2 {
			t.Fatalf("got %d question results, want 2", len(r.Questions))
		}
		if r.Questions[1].Answered || r.Questions[1].PointsEarned != 0 {
			t.Errorf("unanswered result = %+v", r.Questions[1])
		}
	})

	t.Run("unknown question ids ignored", func(t *testing.T) {
		r := Score(exam, []SubmittedAnswer{
			{QuestionID: "q1", Answer: "a"},
			{QuestionID: "ghost", Answer: "a"},
		})
		if r.Score != 10 || len(r.Questions) != 2 {
			t.Errorf("score=%d results=%d", r.Score, len(r.Questions))
		}
	})

	t.Run("duplicate answers first wins", func(t *testing.T) {
		r := Score(exam, []SubmittedAnswer{
			{QuestionID: "q1", Answer: "a"},
			{QuestionID: "q1", Answer: "wrong"},
		})
		if r.Score != 10 {
			t.Errorf("score=%d, want 10", r.Score)
		}
	})

	t.Run("no submission at all", func(t *testing.T) {
		r := Score(exam, nil)
		if r.Score != 0 || r.Percentage != 0 || r.Grade != "F" || r.Passed {
			t.Errorf("got %+v", r)
		}
	})

	t.Run("empty exam yields zero percentage", func(t *testing.T) {
		r := Score(Exam{ID: "empty"}, nil)
		if r.Percentage != 0 || r.MaxScore != 0 {
			t.Errorf("got pct=%d max=%d", r.Percentage, r.MaxScore)
		}
	})
}

func TestScore_StaleTotalPoints(t *testing.T) {
	// TotalPoints says 100 but the live questions sum to 20.
	exam := Exam{
		ID:          "e1",
		TotalPoints: 100,
		Questions:   []Question{choiceQ("q1", "a", 10), choiceQ("q2", "b", 10)},
	}
	r := Score(exam, []SubmittedAnswer{{QuestionID: "q1", Answer: "a"}, {QuestionID: "q2", Answer: "b"}})
	if r.MaxScore != 20 || r.Percentage != 100 {
		t.Errorf("max=%d pct=%d", r.MaxScore, r.Percentage)
	}
}

func TestLetterGrade_Boundaries(t *testing.T) {
	tests := []struct {
		pct  int
		want string
	}{
		{100, "A+"}, {97, "A+"}, {96, "A"}, {93, "A"}, {92, "A-"},
		{90, "A-"}, {89, "B+"}, {87, "B+"}, {86, "B"}, {83, "B"},
		{80, "B-"}, {77, "C+"}, {73, "C"}, {70, "C-"}, {67, "D+"},
		{63, "D"}, {60, "D-"}, {59, "F"}, {0, "F"},
	}
	for _, tc := range tests {
		if got := LetterGrade(tc.pct); got != tc.want {
			t.Errorf("LetterGrade(%d) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}

func TestScore_GradeOverride(t *testing.T) {
	// High passing score: only the legacy always-pass grades may override it.
	makeExam := func(points int) Exam {
		return Exam{
			ID:           "e1",
			PassingScore: 95,
			Questions:    []Question{choiceQ("q1", "a", points), choiceQ("q2", "b", 100 - points)},
		}
	}

	t.Run("B+ overrides threshold", func(t *testing.T) {
		// 88/100 = B+, below the 95 threshold, still passes.
		r := Score(makeExam(88), []SubmittedAnswer{{QuestionID: "q1", Answer: "a"}})
		if r.Grade != "B+" {
			t.Fatalf("grade=%q", r.Grade)
		}
		if !r.Passed {
			t.Error("B+ must force passed=true")
		}
	})

	t.Run("B- does not override", func(t *testing.T) {
		r := Score(makeExam(80), []SubmittedAnswer{{QuestionID: "q1", Answer: "a"}})
		if r.Grade != "B-" {
			t.Fatalf("grade=%q", r.Grade)
		}
		if r.Passed {
			t.Error("B- below threshold must not pass")
		}
	})

	t.Run("C+ does not override", func(t *testing.T) {
		r := Score(makeExam(77), []SubmittedAnswer{{QuestionID: "q1", Answer: "a"}})
		if r.Grade != "C+" {
			t.Fatalf("grade=%q", r.Grade)
		}
		if r.Passed {
			t.Error("C+ below threshold must not pass")
		}
	})

	t.Run("threshold still applies without override", func(t *testing.T) {
		exam := Exam{
			ID:           "e2",
			PassingScore: 70,
			Questions:    []Question{choiceQ("q1", "a", 65), choiceQ("q2", "b", 35)},
		}
		r := Score(exam, []SubmittedAnswer{{QuestionID: "q1", Answer: "a"}})
		if r.Percentage != 65 || r.Passed {
			t.Errorf("pct=%d passed=%v, want 65/false", r.Percentage, r.Passed)
		}
	})
}

func TestScore_DefaultPassingScore(t *testing.T) {
	exam := Exam{
		ID:        "e1",
		Questions: []Question{choiceQ("q1", "a", 60), choiceQ("q2", "b", 40)},
	}
	r := Score(exam, []SubmittedAnswer{{QuestionID: "q1", Answer: "a"}})
	if r.Percentage != 60 {
		t.Fatalf("pct=%d", r.Percentage)
	}
	if !r.Passed {
		t.Error("60 must pass with the default threshold")
	}
}
