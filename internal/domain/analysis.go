package domain

import "fmt"

// Priority ranks how urgently a recommendation should be addressed
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether the priority is one of the known levels
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ScoreSet holds the four structural scores of a floor-plan critique.
// Every score is constrained to the closed range [0,100].
type ScoreSet struct {
	Lighting      int `json:"lighting"`
	Space         int `json:"space"`
	Flow          int `json:"flow"`
	Accessibility int `json:"accessibility"`
}

// Validate checks that every score lies in [0,100]
func (s ScoreSet) Validate() error {
	fields := map[string]int{
		"lighting":      s.Lighting,
		"space":         s.Space,
		"flow":          s.Flow,
		"accessibility": s.Accessibility,
	}
	for name, score := range fields {
		if score < 0 || score > 100 {
			return fmt.Errorf("score %s out of range: %d", name, score)
		}
	}
	return nil
}

// IsZero reports whether every score is exactly zero
func (s ScoreSet) IsZero() bool {
	return s.Lighting == 0 && s.Space == 0 && s.Flow == 0 && s.Accessibility == 0
}

// Recommendation is one prioritized improvement for an area of the plan
type Recommendation struct {
	Area       string   `json:"area"`
	Issue      string   `json:"issue"`
	Suggestion string   `json:"suggestion"`
	Priority   Priority `json:"priority"`
}

// FloorPlanAnalysis is the structured critique produced for one floor-plan
// image: four scores plus a prioritized list of recommendations.
type FloorPlanAnalysis struct {
	Scores          ScoreSet         `json:"scores"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Validate checks the score-range invariant and recommendation priorities
func (a FloorPlanAnalysis) Validate() error {
	if err := a.Scores.Validate(); err != nil {
		return err
	}
	for i, rec := range a.Recommendations {
		if !rec.Priority.Valid() {
			return fmt.Errorf("recommendation %d has invalid priority %q", i, rec.Priority)
		}
	}
	return nil
}

// SentinelAnalysis returns the reserved all-zero analysis that denotes
// "the input was not a floor plan". Callers treat all-zero scores with no
// recommendations as the rejection signal.
func SentinelAnalysis() FloorPlanAnalysis {
	return FloorPlanAnalysis{Recommendations: []Recommendation{}}
}

// IsSentinel reports whether the analysis is the not-a-floor-plan sentinel
func (a FloorPlanAnalysis) IsSentinel() bool {
	return a.Scores.IsZero() && len(a.Recommendations) == 0
}
