package clean

import (
	"fmt"
	"time"

	"github.com/abhisek/quizlens/internal/table"
)

// Attempt is one cleaned quiz attempt. Durations are in seconds.
type Attempt struct {
	ID                  Value
	QuizID              Value
	Score               Value
	TrophyLevel         Value
	Accuracy            Value
	Speed               Value
	FinalScore          Value
	NegativeScore       Value
	CorrectAnswers      Value
	IncorrectScore      Value
	Duration            Value
	BetterThan          Value
	TotalQuestions      Value
	Rank                Value
	MistakesCorrected   Value
	InitialMistakeCount Value
	SubmittedAt         NullTime
}

// numbers lists the plain numeric attempt columns.
func (a *Attempt) numbers() []struct {
	name string
	v    *Value
} {
	return []struct {
		name string
		v    *Value
	}{
		{"id", &a.ID},
		{"quiz_id", &a.QuizID},
		{"score", &a.Score},
		{"trophy_level", &a.TrophyLevel},
		{"accuracy", &a.Accuracy},
		{"speed", &a.Speed},
		{"final_score", &a.FinalScore},
		{"negative_score", &a.NegativeScore},
		{"correct_answers", &a.CorrectAnswers},
		{"incorrect_score", &a.IncorrectScore},
		{"better_than", &a.BetterThan},
		{"total_questions", &a.TotalQuestions},
		{"mistakes_corrected", &a.MistakesCorrected},
		{"initial_mistake_count", &a.InitialMistakeCount},
	}
}

// CleanAttempt selects and coerces the attempt columns of r.
func CleanAttempt(r table.Record) Attempt {
	var a Attempt
	for _, f := range a.numbers() {
		*f.v = Number(r[f.name])
	}
	a.Duration = Duration(r["duration"])
	a.Rank = Rank(r["rank_text"])
	a.SubmittedAt = Time(firstPresent(r, "submitted_at", "created_at"))
	return a
}

// Record returns the cleaned attempt in raw column form. Cleaning the
// result again yields the same values.
func (a Attempt) Record() table.Record {
	r := table.Record{}
	for _, f := range a.numbers() {
		if f.v.Status() != Absent {
			r[f.name] = f.v.Float()
		}
	}
	if a.Duration.Status() != Absent {
		r["duration"] = FormatDuration(a.Duration.Float())
	}
	if a.Rank.Status() != Absent {
		r["rank_text"] = a.Rank.Int()
	}
	if a.SubmittedAt.Valid {
		r["submitted_at"] = a.SubmittedAt.Time.Format(time.RFC3339Nano)
	}
	return r
}

// Defaulted names the attempt fields that were present but unparseable.
func (a Attempt) Defaulted() []string {
	var out []string
	for _, f := range a.numbers() {
		if f.v.Defaulted() {
			out = append(out, f.name)
		}
	}
	if a.Duration.Defaulted() {
		out = append(out, "duration")
	}
	if a.Rank.Defaulted() {
		out = append(out, "rank_text")
	}
	if a.SubmittedAt.Defaulted() {
		out = append(out, "submitted_at")
	}
	return out
}

// Quiz is one cleaned quiz-metadata row. Duration is in seconds.
type Quiz struct {
	ID                 Value
	Topic              string
	HasTopic           bool
	DifficultyLevel    string
	Duration           Value
	NegativeMarks      Value
	CorrectAnswerMarks Value
	MaxMistakeCount    Value
	CreatedAt          NullTime
	UpdatedAt          NullTime
	// ProcessingMinutes is UpdatedAt - CreatedAt.
	ProcessingMinutes Value
}

// CleanQuiz selects and coerces the quiz-metadata columns of r.
func CleanQuiz(r table.Record) Quiz {
	q := Quiz{
		ID:                 Number(r["id"]),
		Duration:           Duration(r["duration"]),
		NegativeMarks:      Number(r["negative_marks"]),
		CorrectAnswerMarks: Number(r["correct_answer_marks"]),
		MaxMistakeCount:    Number(r["max_mistake_count"]),
		CreatedAt:          Time(r["created_at"]),
		UpdatedAt:          Time(r["updated_at"]),
	}
	q.Topic, q.HasTopic = text(r["topic"])
	q.DifficultyLevel, _ = text(r["difficulty_level"])
	q.ProcessingMinutes = GapMinutes(q.CreatedAt, q.UpdatedAt)
	return q
}

// Record returns the cleaned quiz in raw column form.
func (q Quiz) Record() table.Record {
	r := table.Record{}
	if q.HasTopic {
		r["topic"] = q.Topic
	}
	if q.DifficultyLevel != "" {
		r["difficulty_level"] = q.DifficultyLevel
	}
	for name, v := range map[string]Value{
		"id":                   q.ID,
		"negative_marks":       q.NegativeMarks,
		"correct_answer_marks": q.CorrectAnswerMarks,
		"max_mistake_count":    q.MaxMistakeCount,
	} {
		if v.Status() != Absent {
			r[name] = v.Float()
		}
	}
	if q.Duration.Status() != Absent {
		r["duration"] = FormatDuration(q.Duration.Float())
	}
	if q.CreatedAt.Valid {
		r["created_at"] = q.CreatedAt.Time.Format(time.RFC3339Nano)
	}
	if q.UpdatedAt.Valid {
		r["updated_at"] = q.UpdatedAt.Time.Format(time.RFC3339Nano)
	}
	return r
}

// Defaulted names the quiz fields that were present but unparseable.
func (q Quiz) Defaulted() []string {
	var out []string
	for _, f := range []struct {
		name string
		v    Value
	}{
		{"id", q.ID},
		{"duration", q.Duration},
		{"negative_marks", q.NegativeMarks},
		{"correct_answer_marks", q.CorrectAnswerMarks},
		{"max_mistake_count", q.MaxMistakeCount},
	} {
		if f.v.Defaulted() {
			out = append(out, f.name)
		}
	}
	if q.CreatedAt.Defaulted() {
		out = append(out, "created_at")
	}
	if q.UpdatedAt.Defaulted() {
		out = append(out, "updated_at")
	}
	return out
}

// Clean cleans both tables produced by table.Normalize.
func Clean(attempts, quizzes []table.Record) ([]Attempt, []Quiz) {
	ca := make([]Attempt, len(attempts))
	for i, r := range attempts {
		ca[i] = CleanAttempt(r)
	}
	cq := make([]Quiz, len(quizzes))
	for i, r := range quizzes {
		cq[i] = CleanQuiz(r)
	}
	return ca, cq
}

func text(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", false
	case string:
		return s, true
	default:
		return fmt.Sprint(s), true
	}
}

func firstPresent(r table.Record, keys ...string) any {
	for _, k := range keys {
		if v, ok := r[k]; ok && v != nil {
			return v
		}
	}
	return nil
}
