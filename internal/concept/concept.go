// Package concept defines the mastery records tracked for a learner and the
// store contract the mastery engines operate on.
package concept

import (
	"slices"
	"time"
)

// Score bounds. Every stored mastery score lies in [MinScore, MaxScore].
const (
	MinScore = 0.0
	MaxScore = 1.0
)

// GrammarConcept tracks mastery of a single grammar pattern.
type GrammarConcept struct {
	Pattern        string
	MasteryScore   float64
	LastReviewed   time.Time
	WeaknessFlags  []string
	TimesIncorrect int

	// Bootstrap is set on the synthetic cold-start concept returned when no
	// grammar has been stored yet. Never persisted.
	Bootstrap bool
}

// AddFlags unions flags into WeaknessFlags, preserving first-seen order.
// Empty strings are ignored.
func (g *GrammarConcept) AddFlags(flags ...string) {
	for _, f := range flags {
		if f == "" || slices.Contains(g.WeaknessFlags, f) {
			continue
		}
		g.WeaknessFlags = append(g.WeaknessFlags, f)
	}
}

// VocabularyConcept tracks mastery of a single vocabulary word.
type VocabularyConcept struct {
	WordKorean     string
	MasteryScore   float64
	LastReviewed   time.Time
	TimesCorrect   int
	TimesIncorrect int
}

// MasteryUpdate is one score change proposed by the grading oracle.
type MasteryUpdate struct {
	Concept    string   `json:"concept"`
	NewScore   float64  `json:"new_score"`
	FlagsAdded []string `json:"flags_added,omitempty"`
}

// Evaluation is a graded submission together with the mastery updates it
// implies.
type Evaluation struct {
	Grade          int             `json:"grade"`
	FeedbackText   string          `json:"feedback_text"`
	MasteryUpdates []MasteryUpdate `json:"mastery_updates"`
}

// ClampScore limits s to [MinScore, MaxScore].
func ClampScore(s float64) float64 {
	return max(MinScore, min(MaxScore, s))
}
