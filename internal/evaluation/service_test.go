package evaluation

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hanmadi/internal/concept"
	"github.com/abhisek/hanmadi/internal/exercises"
	"github.com/abhisek/hanmadi/internal/llm"
	"github.com/abhisek/hanmadi/internal/mastery"
	"github.com/abhisek/hanmadi/internal/store"
)

var testNow = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	concepts *store.ConceptStore
	repo     store.ExerciseRepo
	mock     *llm.MockProvider
	svc      *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "evaluation.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cs := st.ConceptStore()
	engine := mastery.NewService(cs, mastery.WithClock(func() time.Time { return testNow }))
	mock := llm.NewMockProvider()
	ex := exercises.NewService(mock, engine, cs, st.ExerciseRepo(), exercises.DefaultConfig(), nil)
	svc := NewService(mock, engine, cs, ex, st.ExerciseRepo(), DefaultConfig(), nil)
	svc.now = func() time.Time { return testNow }

	return &testEnv{concepts: cs, repo: st.ExerciseRepo(), mock: mock, svc: svc}
}

func (e *testEnv) seedExercise(t *testing.T, target string, vocab ...string) int {
	t.Helper()
	ex := &store.Exercise{
		Type:    exercises.TypeWriting,
		SubType: exercises.SubTypeTargetedEssay,
		Question: store.QuestionData{
			QuestionText:   "Write about what you want to do this weekend.",
			ExpectedFormat: "3 Korean sentences",
			TargetGrammar:  target,
			TargetVocab:    vocab,
		},
	}
	require.NoError(t, e.repo.Create(context.Background(), ex))
	return ex.ID
}

func TestEvaluate_AppliesUpdatesAndStoresSubmission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.concepts.UpsertGrammar(ctx, "-고 싶다", concept.GrammarDefaults{MasteryScore: 0.5})
	require.NoError(t, err)
	_, err = env.concepts.UpsertVocabulary(ctx, "먹다", concept.VocabularyDefaults{MasteryScore: 0.3})
	require.NoError(t, err)
	id := env.seedExercise(t, "-고 싶다", "먹다")

	env.mock.AddResponse(llm.MockJSON(concept.Evaluation{
		Grade:        72,
		FeedbackText: "Good use of -고 싶다; watch the tense.",
		MasteryUpdates: []concept.MasteryUpdate{
			{Concept: "-고 싶다", NewScore: 0.6, FlagsAdded: []string{"tense mismatch"}},
			{Concept: "먹다", NewScore: 0.25},
			{Concept: "없는단어", NewScore: 0.9},
		},
	}))

	res, err := env.svc.Evaluate(ctx, Submission{ExerciseID: id, UserResponse: "주말에 영화를 보고 싶었어요."})
	require.NoError(t, err)
	assert.Equal(t, 72, res.Grade)
	assert.Len(t, res.MasteryUpdates, 3)

	g, _, err := env.concepts.GetGrammar(ctx, "-고 싶다")
	require.NoError(t, err)
	assert.Equal(t, 0.6, g.MasteryScore)
	assert.Equal(t, []string{"tense mismatch"}, g.WeaknessFlags)
	assert.Zero(t, g.TimesIncorrect)
	assert.True(t, g.LastReviewed.Equal(testNow))

	v, _, err := env.concepts.GetVocabulary(ctx, "먹다")
	require.NoError(t, err)
	assert.Equal(t, 0.25, v.MasteryScore)
	assert.Equal(t, 1, v.TimesIncorrect)
	assert.Zero(t, v.TimesCorrect)

	// Unmatched updates never create concepts.
	_, ok, err := env.concepts.GetVocabulary(ctx, "없는단어")
	require.NoError(t, err)
	assert.False(t, ok)

	ex, err := env.repo.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, ex.Evaluated())
	assert.Equal(t, 72, ex.Grade)
	assert.Equal(t, "주말에 영화를 보고 싶었어요.", ex.UserResponse)

	req, ok := env.mock.LastCall()
	require.True(t, ok)
	assert.Contains(t, req.Messages[0].Content, `Target concept: "-고 싶다"`)
	assert.Contains(t, req.Messages[0].Content, "Current mastery score: 0.50")
	assert.Contains(t, req.Messages[0].Content, "Vocabulary being drilled: 먹다")
}

func TestEvaluate_ClampsGradeAndScores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.concepts.UpsertGrammar(ctx, "-(으)면", concept.GrammarDefaults{MasteryScore: 0.9})
	require.NoError(t, err)
	_, err = env.concepts.UpsertVocabulary(ctx, "가다", concept.VocabularyDefaults{MasteryScore: 0.1})
	require.NoError(t, err)
	id := env.seedExercise(t, "-(으)면")

	env.mock.AddResponse(llm.MockJSON(map[string]any{
		"grade":         130,
		"feedback_text": "Perfect.",
		"mastery_updates": []map[string]any{
			{"concept": "-(으)면", "new_score": 1.5},
			{"concept": "가다", "new_score": -0.3},
		},
	}))

	res, err := env.svc.Evaluate(ctx, Submission{ExerciseID: id, UserResponse: "시간이 있으면 가요."})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Grade)

	g, _, err := env.concepts.GetGrammar(ctx, "-(으)면")
	require.NoError(t, err)
	assert.Equal(t, 1.0, g.MasteryScore)

	v, _, err := env.concepts.GetVocabulary(ctx, "가다")
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.MasteryScore)
}

func TestEvaluate_FallsBackToWeakestGrammar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.concepts.UpsertGrammar(ctx, "-는데", concept.GrammarDefaults{MasteryScore: 0.2})
	require.NoError(t, err)
	id := env.seedExercise(t, "")

	env.mock.AddResponse(llm.MockJSON(concept.Evaluation{Grade: 50, FeedbackText: "ok"}))
	_, err = env.svc.Evaluate(ctx, Submission{ExerciseID: id, UserResponse: "네"})
	require.NoError(t, err)

	req, _ := env.mock.LastCall()
	assert.Contains(t, req.Messages[0].Content, `Target concept: "-는데"`)
}

func TestEvaluate_UnknownExercise(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Evaluate(context.Background(), Submission{ExerciseID: 404, UserResponse: "x"})
	assert.ErrorIs(t, err, exercises.ErrExerciseNotFound)
	assert.Zero(t, env.mock.CallCount())
}

func TestEvaluate_OracleFailureChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.concepts.UpsertGrammar(ctx, "-지만", concept.GrammarDefaults{MasteryScore: 0.4})
	require.NoError(t, err)
	id := env.seedExercise(t, "-지만")
	env.mock.AddResponse(llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: errors.New("bad json")}})

	_, err = env.svc.Evaluate(ctx, Submission{ExerciseID: id, UserResponse: "비싸지만 좋아요."})
	var oe *llm.ErrOracle
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, llm.PurposeEvaluation, oe.Purpose)

	g, _, err := env.concepts.GetGrammar(ctx, "-지만")
	require.NoError(t, err)
	assert.Equal(t, 0.4, g.MasteryScore)

	ex, err := env.repo.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ex.Evaluated())
}
