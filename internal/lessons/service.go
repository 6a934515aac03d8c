// Package lessons generates grammar lessons aimed at the learner's weakest
// pattern.
package lessons

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

// Service generates and stores lessons.
type Service struct {
	provider llm.Provider
	engine   *mastery.Service
	concepts concept.Store
	repo     store.LessonRepo
	cfg      Config
	logger   *log.Logger
}

// NewService creates a lesson service. A nil logger falls back to a
// "lessons" gommon logger.
func NewService(provider llm.Provider, engine *mastery.Service, concepts concept.Store, repo store.LessonRepo, cfg Config, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New("lessons")
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

type lessonOutput struct {
	GrammarPattern   string           `json:"grammar_pattern"`
	ExplanationText  string           `json:"explanation_text"`
	ExampleSentences []string         `json:"example_sentences"`
	NewVocabulary    []VocabularyItem `json:"new_vocabulary"`
}

// NextLesson builds a lesson for the weakest grammar pattern, stores it, and
// makes sure its grammar focus and vocabulary exist as tracked concepts.
func (s *Service) NextLesson(ctx context.Context) (*LessonContent, error) {
	grammar, err := s.engine.SelectWeakestGrammar(ctx)
	if err != nil {
		return nil, fmt.Errorf("select grammar: %w", err)
	}
	vocab, err := s.engine.SelectNewVocab(ctx, s.cfg.NewVocabCount)
	if err != nil {
		return nil, fmt.Errorf("select new vocabulary: %w", err)
	}

	out, err := s.generate(ctx, grammar, vocab)
	if err != nil {
		return nil, err
	}

	// The stored focus is the pattern we asked for, whatever the oracle echoed.
	focus := grammar.Pattern

	lesson := &store.Lesson{
		GrammarFocus:     focus,
		Content:          out.ExplanationText,
		ExampleSentences: out.ExampleSentences,
		NewVocabulary:    toStoreVocabulary(out.NewVocabulary),
	}
	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, concept.Unavailable("save lesson", err)
	}

	if err := s.track(ctx, focus, out.NewVocabulary); err != nil {
		return nil, err
	}

	s.logger.Infoj(log.JSON{
		"msg": "lesson generated", "lesson_id": lesson.ID, "grammar": focus,
		"bootstrap": grammar.Bootstrap, "new_vocabulary": len(out.NewVocabulary),
	})

	return fromStore(lesson), nil
}

// Get returns a stored lesson, or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id int) (*LessonContent, error) {
	l, err := s.repo.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, concept.Unavailable("load lesson", err)
	}
	return fromStore(l), nil
}

func (s *Service) generate(ctx context.Context, g concept.GrammarConcept, vocab []concept.VocabularyConcept) (*lessonOutput, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeLesson)

	req := llm.Request{
		System: lessonSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildLessonUserMessage(g, vocab)},
		},
		Schema:      LessonSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		s.logger.Errorj(log.JSON{"msg": "lesson generation failed", "grammar": g.Pattern, "error": err.Error()})
		return nil, llm.Oracle(llm.PurposeLesson, err)
	}

	var out lessonOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, llm.Oracle(llm.PurposeLesson, fmt.Errorf("parse lesson response: %w", err))
	}
	out.NewVocabulary = cleanVocabulary(out.NewVocabulary)
	return &out, nil
}

// track creates the grammar focus and every introduced word as concepts
// with a zero score, leaving existing records untouched.
func (s *Service) track(ctx context.Context, pattern string, vocab []VocabularyItem) error {
	if _, err := s.concepts.UpsertGrammar(ctx, pattern, concept.GrammarDefaults{}); err != nil {
		return fmt.Errorf("track grammar %q: %w", pattern, err)
	}
	for _, v := range vocab {
		if _, err := s.concepts.UpsertVocabulary(ctx, v.Korean, concept.VocabularyDefaults{}); err != nil {
			return fmt.Errorf("track vocabulary %q: %w", v.Korean, err)
		}
	}
	return nil
}

// cleanVocabulary trims entries and drops blanks and duplicates.
func cleanVocabulary(items []VocabularyItem) []VocabularyItem {
	seen := make(map[string]bool, len(items))
	out := make([]VocabularyItem, 0, len(items))
	for _, it := range items {
		it.Korean = strings.TrimSpace(it.Korean)
		it.English = strings.TrimSpace(it.English)
		if it.Korean == "" || seen[it.Korean] {
			continue
		}
		seen[it.Korean] = true
		out = append(out, it)
	}
	return out
}

func toStoreVocabulary(items []VocabularyItem) []store.VocabularyItem {
	out := make([]store.VocabularyItem, len(items))
	for i, it := range items {
		out[i] = store.VocabularyItem{Korean: it.Korean, English: it.English}
	}
	return out
}

func fromStore(l *store.Lesson) *LessonContent {
	vocab := make([]VocabularyItem, len(l.NewVocabulary))
	for i, it := range l.NewVocabulary {
		vocab[i] = VocabularyItem{Korean: it.Korean, English: it.English}
	}
	examples := l.ExampleSentences
	if examples == nil {
		examples = []string{}
	}
	return &LessonContent{
		LessonID:         l.ID,
		GrammarPattern:   l.GrammarFocus,
		ExplanationText:  l.Content,
		ExampleSentences: examples,
		NewVocabulary:    vocab,
		CreatedAt:        l.CreatedAt,
	}
}
