// Package table flattens raw quiz-performance JSON into aligned record
// tables.
package table

import "sort"

// QuizKey is the attempt field that holds the nested quiz metadata object.
const QuizKey = "quiz"

// Record is one flat row keyed by column name.
type Record map[string]any

// Normalize splits raw JSON into an attempt table and a quiz-metadata table.
//
// raw may be a single object or a sequence of objects. The two returned
// slices always have the same length and position i of each describes the
// same attempt: the attempt row has the nested quiz removed, and the quiz
// row is that nested object, or an empty Record when it is missing or not
// an object. A nil payload yields two empty tables.
func Normalize(raw any) (attempts, quizzes []Record) {
	items := asSequence(raw)
	attempts = make([]Record, 0, len(items))
	quizzes = make([]Record, 0, len(items))

	for _, item := range items {
		obj := asRecord(item)

		attempt := make(Record, len(obj))
		for k, v := range obj {
			if k == QuizKey {
				continue
			}
			attempt[k] = v
		}

		quiz := Record{}
		if nested := asRecord(obj[QuizKey]); nested != nil {
			quiz = make(Record, len(nested))
			for k, v := range nested {
				quiz[k] = v
			}
		}

		attempts = append(attempts, attempt)
		quizzes = append(quizzes, quiz)
	}
	return attempts, quizzes
}

func asSequence(raw any) []any {
	switch v := raw.(type) {
	case nil:
		return nil
	case []any:
		return v
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	case []Record:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	default:
		return []any{v}
	}
}

func asRecord(v any) Record {
	switch m := v.(type) {
	case map[string]any:
		return m
	case Record:
		return m
	default:
		return nil
	}
}

// Columns returns the sorted union of column names across records.
func Columns(records []Record) []string {
	seen := map[string]bool{}
	var cols []string
	for _, r := range records {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}
