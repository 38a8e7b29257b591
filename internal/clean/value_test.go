package clean

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		status Status
	}{
		{"01:30:00", 5400, Valid},
		{"02:30", 150, Valid},
		{"5", 300, Valid},
		{"2.5", 150, Valid},
		{json.Number("15"), 900, Valid},
		{15, 900, Valid},
		{" 10:05 ", 605, Valid},
		{"garbage", 0, Invalid},
		{"1:2:3:4", 0, Invalid},
		{"aa:bb", 0, Invalid},
		{"", 0, Absent},
		{nil, 0, Absent},
		{true, 0, Invalid},
		{"99999999999999999:00:00", 0, Invalid},
		{"-1:30", 0, Invalid},
		{"4294967295:00:00", 4294967295 * 3600, Valid},
	}
	for _, tt := range tests {
		got := Duration(tt.in)
		assert.Equal(t, tt.want, got.Float(), "Duration(%#v)", tt.in)
		assert.Equal(t, tt.status, got.Status(), "Duration(%#v) status", tt.in)
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		in     any
		want   int
		status Status
	}{
		{"Rank: 17", 17, Valid},
		{"#-171", 171, Valid},
		{"Rank 42 of 300", 42, Valid},
		{"Unranked", 0, Invalid},
		{17, 17, Valid},
		{17.9, 17, Valid},
		{json.Number("8"), 8, Valid},
		{"", 0, Absent},
		{nil, 0, Absent},
	}
	for _, tt := range tests {
		got := Rank(tt.in)
		assert.Equal(t, tt.want, got.Int(), "Rank(%#v)", tt.in)
		assert.Equal(t, tt.status, got.Status(), "Rank(%#v) status", tt.in)
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		status Status
	}{
		{"N/A", 0, Invalid},
		{"82.5", 82.5, Valid},
		{"90 %", 90, Valid},
		{json.Number("4.0"), 4, Valid},
		{int64(3), 3, Valid},
		{"NaN", 0, Invalid},
		{"Inf", 0, Invalid},
		{map[string]any{}, 0, Invalid},
		{"   ", 0, Absent},
		{nil, 0, Absent},
	}
	for _, tt := range tests {
		got := Number(tt.in)
		assert.Equal(t, tt.want, got.Float(), "Number(%#v)", tt.in)
		assert.Equal(t, tt.status, got.Status(), "Number(%#v) status", tt.in)
	}
}

func TestNumber_ZeroIsDistinguishableFromDefault(t *testing.T) {
	zero := Number("0")
	bad := Number("N/A")

	assert.Equal(t, zero.Float(), bad.Float())
	assert.True(t, zero.Valid())
	assert.False(t, zero.Defaulted())
	assert.True(t, bad.Defaulted())
}

func TestFormatDurationRoundTrips(t *testing.T) {
	for _, secs := range []float64{0, 59, 150, 5400, 3725, 0.6 * 60, 37.5} {
		got := Duration(FormatDuration(secs))
		assert.InDelta(t, secs, got.Float(), 1e-9, "round trip of %v", secs)
	}
}

func TestTime(t *testing.T) {
	tests := []struct {
		in       any
		valid    bool
		unparsed bool
	}{
		{"2024-01-17T10:30:00.000+05:30", true, false},
		{"2024-01-17T10:30:00Z", true, false},
		{"2024-01-17 10:30:00", true, false},
		{"2024-01-17", true, false},
		{"yesterday", false, true},
		{12345, false, true},
		{"  ", false, false},
		{nil, false, false},
	}
	for _, tt := range tests {
		got := Time(tt.in)
		assert.Equal(t, tt.valid, got.Valid, "Time(%#v)", tt.in)
		assert.Equal(t, tt.unparsed, got.Defaulted(), "Time(%#v) defaulted", tt.in)
	}
}

func TestGapMinutes(t *testing.T) {
	from := Time("2024-01-17T10:00:00Z")
	to := Time("2024-01-17T11:30:00Z")

	assert.Equal(t, 90.0, GapMinutes(from, to).Float())

	gap := GapMinutes(from, Time("not a time"))
	assert.Equal(t, 0.0, gap.Float())
	assert.Equal(t, Invalid, gap.Status())

	gap = GapMinutes(from, Time(nil))
	assert.Equal(t, 0.0, gap.Float())
	assert.Equal(t, Absent, gap.Status())
}

func TestNullTimeJSON(t *testing.T) {
	b, err := json.Marshal(NullTime{})
	assert.NoError(t, err)
	assert.Equal(t, "null", string(b))

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	b, err = json.Marshal(NullTime{Time: ts, Valid: true})
	assert.NoError(t, err)
	assert.Equal(t, `"2024-01-02T03:04:05Z"`, string(b))
}

func TestValueJSONWritesVisibleNumber(t *testing.T) {
	b, err := json.Marshal(map[string]Value{"ok": Of(1.5), "bad": Number("x")})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"ok":1.5,"bad":0}`, string(b))
}
