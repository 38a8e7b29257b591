package llm

import (
	"context"
)

// Purpose says what a request is for. It picks the request profile and is
// recorded with every request event.
type Purpose string

const (
	// PurposeSuggestions is the free-text improvement advice printed at the
	// end of the analysis report.
	PurposeSuggestions Purpose = "suggestions"
	// PurposeStudyPlan is the same advice as JSON matching the study-plan
	// schema.
	PurposeStudyPlan Purpose = "study-plan"
	// PurposeUnknown marks requests sent without a purpose.
	PurposeUnknown Purpose = "unknown"
)

// Profile is the request shape and retry budget for one purpose.
type Profile struct {
	MaxTokens   int
	Temperature float64
	// MaxAttempts counts the first try.
	MaxAttempts int
	// InvalidRetries is how many schema or empty-answer failures are
	// retried before giving up.
	InvalidRetries int
}

// The report blocks on the suggestions call, so it gets fewer attempts
// than the study plan, which is requested on demand.
var profiles = map[Purpose]Profile{
	PurposeSuggestions: {MaxTokens: 1024, Temperature: 0.4, MaxAttempts: 2, InvalidRetries: 1},
	PurposeStudyPlan:   {MaxTokens: 2048, Temperature: 0.2, MaxAttempts: 3, InvalidRetries: 2},
	PurposeUnknown:     {MaxTokens: 1024, Temperature: 0.4, MaxAttempts: 1, InvalidRetries: 0},
}

// ProfileFor returns the profile for p, falling back to PurposeUnknown.
func ProfileFor(p Purpose) Profile {
	if prof, ok := profiles[p]; ok {
		return prof
	}
	return profiles[PurposeUnknown]
}

// Shape fills the zero-valued sampling fields of req from the profile.
func (p Profile) Shape(req Request) Request {
	if req.MaxTokens <= 0 {
		req.MaxTokens = p.MaxTokens
	}
	if req.Temperature <= 0 {
		req.Temperature = p.Temperature
	}
	return req
}

type purposeKey struct{}

// WithPurpose tags ctx with the purpose of the requests made under it.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose tagged on ctx, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}

type purposeDefaults struct {
	inner Provider
}

// WithPurposeDefaults shapes every request with the profile of the purpose
// found on its context.
func WithPurposeDefaults(p Provider) Provider {
	return &purposeDefaults{inner: p}
}

func (d *purposeDefaults) Generate(ctx context.Context, req Request) (*Response, error) {
	return d.inner.Generate(ctx, ProfileFor(PurposeFrom(ctx)).Shape(req))
}

func (d *purposeDefaults) ModelID() string { return d.inner.ModelID() }
