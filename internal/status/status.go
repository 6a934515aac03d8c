// Package status computes the learner's dashboard summary from stored
// mastery and keeps the persisted copy fresh.
package status

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/abhisek/hanmadi/internal/concept"
	"github.com/abhisek/hanmadi/internal/mastery"
	"github.com/abhisek/hanmadi/internal/store"
)

// Levels reported on the dashboard.
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// Mean grammar score needed for each level above Beginner.
const (
	intermediateMin = 0.4
	advancedMin     = 0.75
)

// noWeakFocus is reported when no grammar has been stored.
const noWeakFocus = "None"

// Summary is the dashboard view of the learner.
type Summary struct {
	Level           string    `json:"level"`
	KnownVocab      int       `json:"known_vocab"`
	GrammarMastered int       `json:"grammar_mastered"`
	WeakFocus       string    `json:"weak_focus"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Service computes and persists the dashboard summary.
type Service struct {
	concepts concept.Store
	repo     store.StatusRepo
	logger   *log.Logger
	now      func() time.Time
}

// NewService creates a status service.
func NewService(concepts concept.Store, repo store.StatusRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New("status")
	}
	return &Service{concepts: concepts, repo: repo, logger: logger, now: time.Now}
}

// Summary computes the current summary from the concept store and saves it.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	grammar, err := s.concepts.ListGrammar(ctx, concept.ListOptions{Order: concept.OrderWeakestFirst})
	if err != nil {
		return nil, fmt.Errorf("list grammar: %w", err)
	}
	known, err := s.concepts.ListVocabulary(ctx, concept.VocabularyFilter{
		MinScore: concept.Float(mastery.KnownMin),
	}, concept.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list known vocabulary: %w", err)
	}

	sum := &Summary{
		Level:      levelFor(grammar),
		KnownVocab: len(known),
		WeakFocus:  noWeakFocus,
		UpdatedAt:  s.now().UTC(),
	}
	if len(grammar) > 0 {
		sum.WeakFocus = grammar[0].Pattern
	}
	for _, g := range grammar {
		if g.MasteryScore >= mastery.MasteredMin {
			sum.GrammarMastered++
		}
	}

	err = s.repo.Save(ctx, store.UserStatus{
		Level:           sum.Level,
		KnownVocab:      sum.KnownVocab,
		GrammarMastered: sum.GrammarMastered,
		WeakFocus:       sum.WeakFocus,
		UpdatedAt:       sum.UpdatedAt,
	})
	if err != nil {
		return nil, concept.Unavailable("save user status", err)
	}
	return sum, nil
}

// Latest returns the last persisted summary, or nil if none was saved.
func (s *Service) Latest(ctx context.Context) (*Summary, error) {
	st, err := s.repo.Latest(ctx)
	if err != nil {
		return nil, concept.Unavailable("load user status", err)
	}
	if st == nil {
		return nil, nil
	}
	return &Summary{
		Level:           st.Level,
		KnownVocab:      st.KnownVocab,
		GrammarMastered: st.GrammarMastered,
		WeakFocus:       st.WeakFocus,
		UpdatedAt:       st.UpdatedAt,
	}, nil
}

func levelFor(grammar []concept.GrammarConcept) string {
	if len(grammar) == 0 {
		return LevelBeginner
	}
	var total float64
	for _, g := range grammar {
		total += g.MasteryScore
	}
	switch mean := total / float64(len(grammar)); {
	case mean >= advancedMin:
		return LevelAdvanced
	case mean >= intermediateMin:
		return LevelIntermediate
	default:
		return LevelBeginner
	}
}
