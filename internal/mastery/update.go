package mastery

import (
	"context"
	"time"

	"github.com/abhisek/hanmadi/internal/concept"
)

// ApplyReport lists what an evaluation changed.
type ApplyReport struct {
	Grammar    []string // patterns updated
	Vocabulary []string // words updated
	Dropped    []string // update targets that matched no stored concept
}

// Applied returns the number of updates that matched a concept.
func (r ApplyReport) Applied() int {
	return len(r.Grammar) + len(r.Vocabulary)
}

// ApplyEvaluation applies every mastery update of eval, in order, inside a
// single store transaction. Updates naming an unknown concept are dropped
// without creating anything. Store failures roll the whole evaluation back
// and are returned unchanged.
func (s *Service) ApplyEvaluation(ctx context.Context, eval concept.Evaluation) (ApplyReport, error) {
	var report ApplyReport
	now := s.now().UTC()

	err := s.store.WithTx(ctx, func(tx concept.Tx) error {
		report = ApplyReport{}
		for _, u := range eval.MasteryUpdates {
			if err := applyUpdate(ctx, tx, u, now, &report); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ApplyReport{}, err
	}

	s.metrics.observe(report)
	return report, nil
}

// applyUpdate matches u against grammar first, then vocabulary.
func applyUpdate(ctx context.Context, tx concept.Tx, u concept.MasteryUpdate, now time.Time, report *ApplyReport) error {
	g, ok, err := tx.GetGrammar(ctx, u.Concept)
	if err != nil {
		return err
	}
	if ok {
		applyGrammarUpdate(&g, u, now)
		if err := tx.SaveGrammar(ctx, g); err != nil {
			return err
		}
		report.Grammar = append(report.Grammar, g.Pattern)
		return nil
	}

	v, ok, err := tx.GetVocabulary(ctx, u.Concept)
	if err != nil {
		return err
	}
	if ok {
		applyVocabularyUpdate(&v, u, now)
		if err := tx.SaveVocabulary(ctx, v); err != nil {
			return err
		}
		report.Vocabulary = append(report.Vocabulary, v.WordKorean)
		return nil
	}

	report.Dropped = append(report.Dropped, u.Concept)
	return nil
}

func applyGrammarUpdate(g *concept.GrammarConcept, u concept.MasteryUpdate, now time.Time) {
	g.AddFlags(u.FlagsAdded...)
	if u.NewScore < g.MasteryScore {
		g.TimesIncorrect++
	}
	g.MasteryScore = concept.ClampScore(u.NewScore)
	g.LastReviewed = now
}

// applyVocabularyUpdate counts an unchanged score as incorrect.
func applyVocabularyUpdate(v *concept.VocabularyConcept, u concept.MasteryUpdate, now time.Time) {
	if u.NewScore > v.MasteryScore {
		v.TimesCorrect++
	} else {
		v.TimesIncorrect++
	}
	v.MasteryScore = concept.ClampScore(u.NewScore)
	v.LastReviewed = now
}
