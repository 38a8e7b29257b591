package clean

import (
	"errors"
	"fmt"
)

var (
	// ErrRowMismatch means the attempt and quiz tables differ in length.
	ErrRowMismatch = errors.New("attempt and quiz tables have different row counts")
	// ErrKeyMismatch means an attempt's quiz_id disagrees with the quiz id
	// at the same position.
	ErrKeyMismatch = errors.New("attempt quiz_id does not match quiz id")
)

// QuizRenames maps quiz columns to the names they take in a merged row so
// they cannot collide with attempt columns.
var QuizRenames = map[string]string{
	"duration":             "quiz_duration",
	"negative_marks":       "quiz_negative_marks",
	"correct_answer_marks": "quiz_correct_marks",
	"max_mistake_count":    "quiz_max_mistakes",
	"created_at":           "quiz_created_at",
	"updated_at":           "quiz_updated_at",
}

// Row is one attempt joined with the metadata of its quiz.
type Row struct {
	Attempt Attempt
	Quiz    Quiz
}

// Topic returns the grouping key and whether the row has one.
func (r Row) Topic() (string, bool) {
	return r.Quiz.Topic, r.Quiz.HasTopic
}

// Merge joins attempts[i] with quizzes[i]. The tables must be the same
// length. When both sides carry an id (quiz_id on the attempt, id on the
// quiz) they must agree.
func Merge(attempts []Attempt, quizzes []Quiz) ([]Row, error) {
	if len(attempts) != len(quizzes) {
		return nil, fmt.Errorf("%w: %d attempts, %d quizzes", ErrRowMismatch, len(attempts), len(quizzes))
	}
	rows := make([]Row, len(attempts))
	for i := range attempts {
		a, q := attempts[i], quizzes[i]
		if a.QuizID.Valid() && q.ID.Valid() && a.QuizID.Float() != q.ID.Float() {
			return nil, fmt.Errorf("%w: row %d has quiz_id %v, quiz id %v", ErrKeyMismatch, i, a.QuizID.Float(), q.ID.Float())
		}
		rows[i] = Row{Attempt: a, Quiz: q}
	}
	return rows, nil
}

// Columns returns the merged row as named columns, with colliding quiz
// columns renamed per QuizRenames.
func (r Row) Columns() map[string]any {
	a, q := r.Attempt, r.Quiz
	cols := map[string]any{
		"score":                 a.Score.Float(),
		"trophy_level":          a.TrophyLevel.Float(),
		"accuracy":              a.Accuracy.Float(),
		"speed":                 a.Speed.Float(),
		"final_score":           a.FinalScore.Float(),
		"negative_score":        a.NegativeScore.Float(),
		"correct_answers":       a.CorrectAnswers.Float(),
		"incorrect_score":       a.IncorrectScore.Float(),
		"duration":              a.Duration.Float(),
		"better_than":           a.BetterThan.Float(),
		"total_questions":       a.TotalQuestions.Float(),
		"rank":                  a.Rank.Int(),
		"mistakes_corrected":    a.MistakesCorrected.Float(),
		"initial_mistake_count": a.InitialMistakeCount.Float(),
		"difficulty_level":      q.DifficultyLevel,
		"processing_minutes":    q.ProcessingMinutes.Float(),
	}
	if q.HasTopic {
		cols["topic"] = q.Topic
	} else {
		cols["topic"] = nil
	}

	quizCols := map[string]any{
		"duration":             q.Duration.Float(),
		"negative_marks":       q.NegativeMarks.Float(),
		"correct_answer_marks": q.CorrectAnswerMarks.Float(),
		"max_mistake_count":    q.MaxMistakeCount.Float(),
		"created_at":           q.CreatedAt,
		"updated_at":           q.UpdatedAt,
	}
	for name, v := range quizCols {
		cols[QuizRenames[name]] = v
	}
	return cols
}
