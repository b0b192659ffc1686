package grading

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Defaults controls how Normalize fills gaps in raw question input. Draft
// saves and publish recomputation intentionally use different values, so the
// divergence is explicit instead of buried in literals.
type Defaults struct {
	// Points is used when neither points nor marks is present (or either is
	// non-positive).
	Points int
	// AssumeTrueFalse fills a missing true/false correct answer with true.
	// Publish validation requires an explicit answer, so this is draft-only.
	AssumeTrueFalse bool
}

var (
	// DraftDefaults is the permissive configuration used for autosaved drafts.
	DraftDefaults = Defaults{Points: 10, AssumeTrueFalse: true}
	// PublishDefaults is the strict configuration used when recomputing
	// content for publication.
	PublishDefaults = Defaults{Points: 1}
)

// RawOption is one entry of a raw options/choices array. Authoring clients
// send either bare strings or objects, with text under text or optionText.
type RawOption struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	OptionText string `json:"optionText"`
	IsCorrect  *bool  `json:"isCorrect"`
}

// RawQuestion is the duck-typed question shape accepted from authoring
// clients. Field pairs (type/questionType, options/choices, points/marks)
// are historical aliases that Normalize resolves into one canonical form.
type RawQuestion struct {
	ID            string            `json:"id"`
	QuestionText  string            `json:"questionText"`
	Type          string            `json:"type"`
	QuestionType  string            `json:"questionType"`
	Points        *int              `json:"points"`
	Marks         *int              `json:"marks"`
	Options       []json.RawMessage `json:"options"`
	Choices       []json.RawMessage `json:"choices"`
	CorrectAnswer json.RawMessage   `json:"correctAnswer"`
	SampleAnswer  string            `json:"sampleAnswer"`
}

// RawExam is the exam shape accepted from authoring clients.
type RawExam struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Questions       []RawQuestion `json:"questions"`
	PassingScore    int           `json:"passingScore"`
	DurationMinutes int           `json:"duration"`
}

// DefaultPassingScore is the exam pass threshold (percent) applied when the
// author did not set one.
const DefaultPassingScore = 60

// Normalize converts a raw question into the canonical representation.
// It never fails: malformed draft input is coerced to safe values and the
// stricter publish rules are enforced separately by ValidateForPublish.
func Normalize(raw RawQuestion, defs Defaults) Question {
	q := Question{
		ID:   strings.TrimSpace(raw.ID),
		Text: strings.TrimSpace(raw.QuestionText),
	}
	if q.ID == "" {
		q.ID = uuid.New().String()
	}

	q.Type = resolveType(raw)
	q.Points = resolvePoints(raw, defs)

	switch {
	case q.Type.IsChoice():
		opts, flaggedCorrect := normalizeOptions(raw, q.ID)
		q.Options = opts
		q.CorrectOption = resolveCorrectOption(raw, flaggedCorrect)
	case q.Type == TypeTrueFalse:
		q.CorrectBool = resolveCorrectBool(raw, defs)
	case q.Type == TypeEssay:
		q.SampleAnswer = strings.TrimSpace(raw.SampleAnswer)
	}

	return q
}

// NormalizeExam normalizes every question of a raw exam and recomputes the
// total points. PassingScore falls back to DefaultPassingScore.
func NormalizeExam(raw RawExam, defs Defaults) Exam {
	exam := Exam{
		ID:              strings.TrimSpace(raw.ID),
		Title:           strings.TrimSpace(raw.Title),
		PassingScore:    raw.PassingScore,
		DurationMinutes: raw.DurationMinutes,
	}
	if exam.ID == "" {
		exam.ID = uuid.New().String()
	}
	if exam.PassingScore <= 0 || exam.PassingScore > 100 {
		exam.PassingScore = DefaultPassingScore
	}

	exam.Questions = make([]Question, len(raw.Questions))
	for i, rq := range raw.Questions {
		exam.Questions[i] = Normalize(rq, defs)
	}
	exam.RecomputeTotalPoints()
	return exam
}

// resolveType prefers the explicit type field, falls back to questionType,
// and treats anything unknown as an essay so draft saves never fail.
func resolveType(raw RawQuestion) QuestionType {
	t := QuestionType(strings.ToLower(strings.TrimSpace(raw.Type)))
	if !t.Known() {
		t = QuestionType(strings.ToLower(strings.TrimSpace(raw.QuestionType)))
	}
	if !t.Known() {
		return TypeEssay
	}
	return t
}

func resolvePoints(raw RawQuestion, defs Defaults) int {
	if raw.Points != nil && *raw.Points > 0 {
		return *raw.Points
	}
	if raw.Marks != nil && *raw.Marks > 0 {
		return *raw.Marks
	}
	return defs.Points
}

// normalizeOptions merges the options/choices aliases into canonical options.
// Entries may be bare strings or objects. Missing ids are generated as
// opt_<questionID>_<index>. The second return value is the generated id of
// the first choice flagged isCorrect, or "" when none is flagged.
func normalizeOptions(raw RawQuestion, questionID string) ([]Option, string) {
	entries := raw.Options
	if len(entries) == 0 {
		entries = raw.Choices
	}

	opts := make([]Option, 0, len(entries))
	flaggedCorrect := ""

	for i, entry := range entries {
		var (
			opt       Option
			isCorrect bool
		)

		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			opt.Text = strings.TrimSpace(s)
		} else {
			var ro RawOption
			if err := json.Unmarshal(entry, &ro); err != nil {
				continue // unusable entry, skipped in draft mode
			}
			opt.ID = strings.TrimSpace(ro.ID)
			opt.Text = strings.TrimSpace(ro.Text)
			if opt.Text == "" {
				opt.Text = strings.TrimSpace(ro.OptionText)
			}
			isCorrect = ro.IsCorrect != nil && *ro.IsCorrect
		}

		if opt.ID == "" {
			opt.ID = fmt.Sprintf("opt_%s_%d", questionID, i)
		}
		opt.OptionText = opt.Text

		if isCorrect && flaggedCorrect == "" {
			flaggedCorrect = opt.ID
		}
		opts = append(opts, opt)
	}

	return opts, flaggedCorrect
}

// resolveCorrectOption prefers an explicit correctAnswer string and falls
// back to the option flagged isCorrect in the raw choices.
func resolveCorrectOption(raw RawQuestion, flaggedCorrect string) string {
	if s, ok := decodeAny(raw.CorrectAnswer).(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return flaggedCorrect
}

// resolveCorrectBool coerces a true/false correct answer to a boolean.
// Accepts booleans and the strings "true"/"false". A missing answer becomes
// true only when the defaults allow it (draft mode); otherwise it stays nil
// and publish validation reports it.
func resolveCorrectBool(raw RawQuestion, defs Defaults) *bool {
	switch v := decodeAny(raw.CorrectAnswer).(type) {
	case bool:
		b := v
		return &b
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			b := true
			return &b
		case "false":
			b := false
			return &b
		}
	}
	if defs.AssumeTrueFalse {
		b := true
		return &b
	}
	return nil
}
