package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abhisek/hanmadi/internal/concept"
	"github.com/abhisek/hanmadi/internal/evaluation"
	"github.com/abhisek/hanmadi/internal/exercises"
)

type grammarView struct {
	Pattern        string    `json:"pattern"`
	MasteryScore   float64   `json:"mastery_score"`
	WeaknessFlags  []string  `json:"weakness_flags"`
	TimesIncorrect int       `json:"times_incorrect"`
	LastReviewed   time.Time `json:"last_reviewed"`
}

type vocabularyView struct {
	WordKorean     string    `json:"word_korean"`
	MasteryScore   float64   `json:"mastery_score"`
	TimesCorrect   int       `json:"times_correct"`
	TimesIncorrect int       `json:"times_incorrect"`
	LastReviewed   time.Time `json:"last_reviewed"`
}

type historyView struct {
	ExerciseID int       `json:"exercise_id"`
	Grade      int       `json:"grade"`
	Type       string    `json:"type"`
	Date       time.Time `json:"date"`
}

func (s *server) dashboardStatus(c echo.Context) error {
	sum, err := s.opts.Status.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sum)
}

func (s *server) nextLesson(c echo.Context) error {
	lesson, err := s.opts.Lessons.NextLesson(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lesson)
}

func (s *server) getLesson(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	lesson, err := s.opts.Lessons.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lesson)
}

func (s *server) generateExercise(c echo.Context) error {
	var req exercises.Request
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	details, err := s.opts.Exercises.Generate(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

func (s *server) submitExercise(c echo.Context) error {
	var sub evaluation.Submission
	if err := c.Bind(&sub); err != nil {
		return err
	}
	if err := c.Validate(&sub); err != nil {
		return err
	}
	result, err := s.opts.Evaluation.Evaluate(c.Request().Context(), sub)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (s *server) reviewHistory(c echo.Context) error {
	limit, err := limitParam(c)
	if err != nil {
		return err
	}
	items, err := s.opts.History.History(c.Request().Context(), limit)
	if err != nil {
		return concept.Unavailable("review history", err)
	}
	out := make([]historyView, len(items))
	for i, it := range items {
		out[i] = historyView{ExerciseID: it.ExerciseID, Grade: it.Grade, Type: it.Type, Date: it.EvaluatedAt}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *server) listGrammar(c echo.Context) error {
	opts, err := listOptions(c)
	if err != nil {
		return err
	}
	rows, err := s.opts.Concepts.ListGrammar(c.Request().Context(), opts)
	if err != nil {
		return err
	}
	out := make([]grammarView, len(rows))
	for i, g := range rows {
		flags := g.WeaknessFlags
		if flags == nil {
			flags = []string{}
		}
		out[i] = grammarView{
			Pattern:        g.Pattern,
			MasteryScore:   g.MasteryScore,
			WeaknessFlags:  flags,
			TimesIncorrect: g.TimesIncorrect,
			LastReviewed:   g.LastReviewed,
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *server) listVocabulary(c echo.Context) error {
	opts, err := listOptions(c)
	if err != nil {
		return err
	}
	rows, err := s.opts.Concepts.ListVocabulary(c.Request().Context(), concept.VocabularyFilter{}, opts)
	if err != nil {
		return err
	}
	out := make([]vocabularyView, len(rows))
	for i, v := range rows {
		out[i] = vocabularyView{
			WordKorean:     v.WordKorean,
			MasteryScore:   v.MasteryScore,
			TimesCorrect:   v.TimesCorrect,
			TimesIncorrect: v.TimesIncorrect,
			LastReviewed:   v.LastReviewed,
		}
	}
	return c.JSON(http.StatusOK, out)
}
