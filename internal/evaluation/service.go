// Package evaluation grades exercise submissions through the oracle and
// folds the result into mastery scores.
package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/abhisek/hanmadi/internal/concept"
	"github.com/abhisek/hanmadi/internal/exercises"
	"github.com/abhisek/hanmadi/internal/llm"
	"github.com/abhisek/hanmadi/internal/mastery"
	"github.com/abhisek/hanmadi/internal/store"
)

// Service grades submissions.
type Service struct {
	provider  llm.Provider
	engine    *mastery.Service
	concepts  concept.Store
	exercises *exercises.Service
	repo      store.ExerciseRepo
	cfg       Config
	logger    *log.Logger
	now       func() time.Time
}

// NewService creates an evaluation service.
func NewService(provider llm.Provider, engine *mastery.Service, concepts concept.Store, ex *exercises.Service, repo store.ExerciseRepo, cfg Config, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New("evaluation")
	}
	return &Service{
		provider:  provider,
		engine:    engine,
		concepts:  concepts,
		exercises: ex,
		repo:      repo,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Evaluate grades sub, applies the oracle's mastery updates, and records the
// graded submission on the exercise.
func (s *Service) Evaluate(ctx context.Context, sub Submission) (*Result, error) {
	ex, err := s.exercises.Get(ctx, sub.ExerciseID)
	if err != nil {
		return nil, err
	}

	target, err := s.target(ctx, ex)
	if err != nil {
		return nil, err
	}

	eval, err := s.grade(ctx, ex, target, sub.UserResponse)
	if err != nil {
		return nil, err
	}

	report, err := s.engine.ApplyEvaluation(ctx, *eval)
	if err != nil {
		return nil, fmt.Errorf("apply mastery updates: %w", err)
	}
	if len(report.Dropped) > 0 {
		s.logger.Warnj(log.JSON{
			"msg": "mastery updates dropped", "exercise_id": ex.ID, "concepts": report.Dropped,
		})
	}

	if err := s.repo.SaveSubmission(ctx, ex.ID, sub.UserResponse, eval.Grade, eval.FeedbackText, s.now()); err != nil {
		return nil, concept.Unavailable("save submission", err)
	}

	s.logger.Infoj(log.JSON{
		"msg": "submission evaluated", "exercise_id": ex.ID, "grade": eval.Grade,
		"grammar_updates": len(report.Grammar), "vocabulary_updates": len(report.Vocabulary),
	})
	return eval, nil
}

// target resolves the grammar concept the exercise was generated for,
// falling back to the current weakest pattern.
func (s *Service) target(ctx context.Context, ex *store.Exercise) (concept.GrammarConcept, error) {
	if p := ex.Question.TargetGrammar; p != "" {
		g, ok, err := s.concepts.GetGrammar(ctx, p)
		if err != nil {
			return concept.GrammarConcept{}, fmt.Errorf("load target grammar: %w", err)
		}
		if ok {
			return g, nil
		}
	}
	g, err := s.engine.SelectWeakestGrammar(ctx)
	if err != nil {
		return concept.GrammarConcept{}, fmt.Errorf("select grammar: %w", err)
	}
	return g, nil
}

func (s *Service) grade(ctx context.Context, ex *store.Exercise, target concept.GrammarConcept, response string) (*concept.Evaluation, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeEvaluation)

	req := llm.Request{
		System: evaluationSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildEvaluationUserMessage(ex, target, response)},
		},
		Schema:      EvaluationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		s.logger.Errorj(log.JSON{"msg": "evaluation failed", "exercise_id": ex.ID, "error": err.Error()})
		return nil, llm.Oracle(llm.PurposeEvaluation, err)
	}

	var eval concept.Evaluation
	if err := json.Unmarshal(resp.Content, &eval); err != nil {
		return nil, llm.Oracle(llm.PurposeEvaluation, fmt.Errorf("parse evaluation response: %w", err))
	}
	eval.Grade = max(0, min(100, eval.Grade))
	if eval.MasteryUpdates == nil {
		eval.MasteryUpdates = []concept.MasteryUpdate{}
	}
	return &eval, nil
}
