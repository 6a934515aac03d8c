package mastery

import (
	"context"
	"time"

	"github.com/abhisek/hanmadi/internal/concept"
)

// BootstrapPattern is the grammar pattern taught to a learner with no
// recorded grammar yet.
const BootstrapPattern = "Verb + (으)ㅂ니다/습니다 (Formal Ending)"

// bootstrapAge backdates the cold-start concept so it sorts as overdue.
const bootstrapAge = 30 * 24 * time.Hour

// SelectWeakestGrammar returns the grammar concept with the lowest mastery
// score, breaking ties by least recently reviewed. With no stored grammar it
// returns an unpersisted bootstrap concept.
func (s *Service) SelectWeakestGrammar(ctx context.Context) (concept.GrammarConcept, error) {
	rows, err := s.store.ListGrammar(ctx, concept.ListOptions{
		Order: concept.OrderWeakestFirst,
		Limit: 1,
	})
	if err != nil {
		return concept.GrammarConcept{}, err
	}
	if len(rows) == 0 {
		return s.bootstrapGrammar(), nil
	}
	return rows[0], nil
}

func (s *Service) bootstrapGrammar() concept.GrammarConcept {
	return concept.GrammarConcept{
		Pattern:       BootstrapPattern,
		MasteryScore:  0.0,
		LastReviewed:  s.now().UTC().Add(-bootstrapAge),
		WeaknessFlags: []string{},
		Bootstrap:     true,
	}
}

// SelectVocabForDrilling samples up to count vocabulary concepts whose score
// lies in the closed drilling band [0.4, 0.7].
func (s *Service) SelectVocabForDrilling(ctx context.Context, count int) ([]concept.VocabularyConcept, error) {
	return s.sampleVocabulary(ctx, concept.VocabularyFilter{
		MinScore: concept.Float(DrillingMin),
		MaxScore: concept.Float(DrillingMax),
	}, count)
}

// SelectNewVocab samples up to count vocabulary concepts that are not yet
// learned (score < 0.2).
func (s *Service) SelectNewVocab(ctx context.Context, count int) ([]concept.VocabularyConcept, error) {
	return s.sampleVocabulary(ctx, concept.VocabularyFilter{
		MaxScore:     concept.Float(NewVocabMax),
		MaxExclusive: true,
	}, count)
}

func (s *Service) sampleVocabulary(ctx context.Context, filter concept.VocabularyFilter, count int) ([]concept.VocabularyConcept, error) {
	if count <= 0 {
		return []concept.VocabularyConcept{}, nil
	}
	rows, err := s.store.ListVocabulary(ctx, filter, concept.ListOptions{
		Order: concept.OrderRandom,
		Limit: count,
	})
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []concept.VocabularyConcept{}
	}
	return rows, nil
}
