// Package exercises generates practice exercises for the learner's weakest
// grammar and drillable vocabulary.
package exercises

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/gommon/log"

	"github.com/abhisek/hanmadi/internal/concept"
	"github.com/abhisek/hanmadi/internal/llm"
	"github.com/abhisek/hanmadi/internal/mastery"
	"github.com/abhisek/hanmadi/internal/store"
)

// Service generates and stores exercises.
type Service struct {
	provider llm.Provider
	engine   *mastery.Service
	concepts concept.Store
	repo     store.ExerciseRepo
	cfg      Config
	logger   *log.Logger
}

// NewService creates an exercise service.
func NewService(provider llm.Provider, engine *mastery.Service, concepts concept.Store, repo store.ExerciseRepo, cfg Config, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New("exercises")
	}
	return &Service{
		provider: provider,
		engine:   engine,
		concepts: concepts,
		repo:     repo,
		cfg:      cfg,
		logger:   logger,
	}
}

type exerciseOutput struct {
	QuestionText   string `json:"question_text"`
	ExpectedFormat string `json:"expected_format"`
}

// Generate picks a target, chooses the exercise type, asks the oracle for
// the exercise, and stores it.
func (s *Service) Generate(ctx context.Context, req Request) (*Details, error) {
	grammar, err := s.target(ctx, req.TargetConceptID)
	if err != nil {
		return nil, err
	}
	drilling, err := s.engine.SelectVocabForDrilling(ctx, s.cfg.DrillingCount)
	if err != nil {
		return nil, fmt.Errorf("select drilling vocabulary: %w", err)
	}

	typ, subType := ChooseType(req, grammar, drilling)

	gen, err := s.generate(ctx, typ, subType, grammar, drilling)
	if err != nil {
		return nil, err
	}

	words := make([]string, len(drilling))
	for i, v := range drilling {
		words[i] = v.WordKorean
	}
	ex := &store.Exercise{
		Type:    gen.Type,
		SubType: gen.SubType,
		Question: store.QuestionData{
			QuestionText:   gen.QuestionText,
			ExpectedFormat: gen.ExpectedFormat,
			TargetGrammar:  grammar.Pattern,
			TargetVocab:    words,
		},
	}
	if err := s.repo.Create(ctx, ex); err != nil {
		return nil, concept.Unavailable("save exercise", err)
	}

	if _, err := s.concepts.UpsertGrammar(ctx, grammar.Pattern, concept.GrammarDefaults{}); err != nil {
		return nil, fmt.Errorf("track grammar %q: %w", grammar.Pattern, err)
	}

	s.logger.Infoj(log.JSON{
		"msg": "exercise generated", "exercise_id": ex.ID, "type": ex.Type,
		"sub_type": ex.SubType, "grammar": grammar.Pattern, "drilling": len(words),
	})

	return &Details{
		ExerciseID:     ex.ID,
		Type:           ex.Type,
		SubType:        ex.SubType,
		QuestionText:   ex.Question.QuestionText,
		ExpectedFormat: ex.Question.ExpectedFormat,
	}, nil
}

// Get returns a stored exercise, or ErrExerciseNotFound.
func (s *Service) Get(ctx context.Context, id int) (*store.Exercise, error) {
	ex, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrExerciseNotFound, id)
	}
	if err != nil {
		return nil, concept.Unavailable("load exercise", err)
	}
	return ex, nil
}

// target resolves the requested grammar concept, falling back to the
// weakest one when the id is empty or unknown.
func (s *Service) target(ctx context.Context, id string) (concept.GrammarConcept, error) {
	if id = strings.TrimSpace(id); id != "" {
		g, ok, err := s.concepts.GetGrammar(ctx, id)
		if err != nil {
			return concept.GrammarConcept{}, fmt.Errorf("load target grammar: %w", err)
		}
		if ok {
			return g, nil
		}
		s.logger.Debugj(log.JSON{"msg": "unknown target concept, using weakest", "target_concept_id": id})
	}

	g, err := s.engine.SelectWeakestGrammar(ctx)
	if err != nil {
		return concept.GrammarConcept{}, fmt.Errorf("select grammar: %w", err)
	}
	return g, nil
}

func (s *Service) generate(ctx context.Context, typ, subType string, g concept.GrammarConcept, drilling []concept.VocabularyConcept) (*Generated, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeExercise)

	req := llm.Request{
		System: exerciseSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildExerciseUserMessage(typ, subType, g, drilling)},
		},
		Schema:      ExerciseSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		s.logger.Errorj(log.JSON{"msg": "exercise generation failed", "type": typ, "error": err.Error()})
		return nil, llm.Oracle(llm.PurposeExercise, err)
	}

	var out exerciseOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, llm.Oracle(llm.PurposeExercise, fmt.Errorf("parse exercise response: %w", err))
	}

	gen := &Generated{
		Type:           typ,
		SubType:        subType,
		QuestionText:   strings.TrimSpace(out.QuestionText),
		ExpectedFormat: strings.TrimSpace(out.ExpectedFormat),
	}
	for _, v := range s.cfg.Validators {
		if verr := v.Validate(gen); verr != nil {
			return nil, llm.Oracle(llm.PurposeExercise, &llm.ErrInvalidResponse{Content: resp.Content, Err: verr})
		}
	}
	return gen, nil
}
