// Package clean coerces raw quiz-performance fields into typed values.
//
// Nothing in this package fails on bad input. A field that cannot be parsed
// becomes an Invalid Value whose reported number is 0, so callers keep the
// "bad data reads as zero" behaviour while still being able to tell a real
// zero from a defaulted one.
package clean

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Status records where a Value came from.
type Status uint8

const (
	// Absent means the field was missing, null or blank.
	Absent Status = iota
	// Invalid means the field was present but could not be parsed.
	Invalid
	// Valid means the field parsed cleanly.
	Valid
)

func (s Status) String() string {
	switch s {
	case Absent:
		return "absent"
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Value is a coerced number that remembers whether it was defaulted.
type Value struct {
	v      float64
	status Status
}

// Of returns a Valid value.
func Of(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{status: Invalid}
	}
	return Value{v: f, status: Valid}
}

func invalid() Value { return Value{status: Invalid} }

// Float returns the number, or 0 when the value was defaulted.
func (v Value) Float() float64 {
	if v.status != Valid {
		return 0
	}
	return v.v
}

// Int truncates Float toward zero.
func (v Value) Int() int { return int(v.Float()) }

func (v Value) Status() Status { return v.status }
func (v Value) Valid() bool    { return v.status == Valid }

// Defaulted reports whether a present field failed to parse.
func (v Value) Defaulted() bool { return v.status == Invalid }

// MarshalJSON writes the user-visible number.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Float())
}

// Number coerces v to a number. Strings may carry surrounding whitespace
// and a trailing percent sign ("82.5 %").
func Number(v any) Value {
	switch n := v.(type) {
	case nil:
		return Value{}
	case Value:
		return n
	case float64:
		return Of(n)
	case float32:
		return Of(float64(n))
	case int:
		return Of(float64(n))
	case int32:
		return Of(float64(n))
	case int64:
		return Of(float64(n))
	case uint:
		return Of(float64(n))
	case uint32:
		return Of(float64(n))
	case uint64:
		return Of(float64(n))
	case json.Number:
		return parseNumber(string(n))
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return Value{}
		}
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		return parseNumber(s)
	default:
		return invalid()
	}
}

func parseNumber(s string) Value {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return invalid()
	}
	// ParseFloat accepts "NaN" and "Inf"; Of rejects them.
	return Of(f)
}

var digitsRe = regexp.MustCompile(`\d+`)

// Rank extracts the first run of digits from a rank label such as
// "Rank: 17" or "#-171". Numeric input is already a rank and is truncated
// to an integer.
func Rank(v any) Value {
	s, ok := v.(string)
	if !ok {
		n := Number(v)
		if !n.Valid() {
			return n
		}
		return Of(math.Trunc(n.Float()))
	}
	if strings.TrimSpace(s) == "" {
		return Value{}
	}
	m := digitsRe.FindString(s)
	if m == "" {
		return invalid()
	}
	i, err := strconv.Atoi(m)
	if err != nil {
		return invalid()
	}
	return Of(float64(i))
}

// Duration converts a quiz or attempt duration to seconds. It accepts
// "HH:MM:SS", "MM:SS" or a bare number of minutes.
func Duration(v any) Value {
	s, ok := v.(string)
	if !ok {
		n := Number(v)
		if !n.Valid() {
			return n
		}
		return Of(n.Float() * 60)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return Value{}
	}
	if !strings.Contains(s, ":") {
		n := parseNumber(s)
		if !n.Valid() {
			return n
		}
		return Of(n.Float() * 60)
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return invalid()
	}
	var secs float64
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return invalid()
		}
		secs = secs*60 + float64(n)
	}
	return Of(secs)
}

// FormatDuration renders seconds in a form Duration parses back to the
// same value.
func FormatDuration(seconds float64) string {
	if seconds == math.Trunc(seconds) && seconds >= 0 {
		s := int(seconds)
		return fmt.Sprintf("%02d:%02d:%02d", s/3600, s%3600/60, s%60)
	}
	return strconv.FormatFloat(seconds/60, 'f', -1, 64)
}

// NullTime is a timestamp that may be missing or unparseable. Unparsed
// marks a field that was present but could not be read.
type NullTime struct {
	Time     time.Time
	Valid    bool
	Unparsed bool
}

// Defaulted reports whether a present timestamp failed to parse.
func (t NullTime) Defaulted() bool { return t.Unparsed }

// MarshalJSON writes null for an invalid timestamp.
func (t NullTime) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Time parses a timestamp. Missing or blank input is null; anything else
// that does not parse is null and Unparsed.
func Time(v any) NullTime {
	switch t := v.(type) {
	case nil:
		return NullTime{}
	case time.Time:
		return NullTime{Time: t, Valid: true}
	case NullTime:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return NullTime{}
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return NullTime{Time: parsed, Valid: true}
			}
		}
	}
	return NullTime{Unparsed: true}
}

// GapMinutes returns to - from in minutes. The gap reads as 0 when either
// side is null: Invalid if a side failed to parse, Absent otherwise.
func GapMinutes(from, to NullTime) Value {
	if from.Unparsed || to.Unparsed {
		return invalid()
	}
	if !from.Valid || !to.Valid {
		return Value{}
	}
	return Of(to.Time.Sub(from.Time).Minutes())
}
