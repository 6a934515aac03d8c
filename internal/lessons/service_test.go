package lessons

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hanmadi/internal/concept"
	"github.com/abhisek/hanmadi/internal/llm"
	"github.com/abhisek/hanmadi/internal/mastery"
	"github.com/abhisek/hanmadi/internal/store"
)

type testEnv struct {
	store    *store.Store
	concepts *store.ConceptStore
	mock     *llm.MockProvider
	svc      *Service
}

func newTestEnv(t *testing.T, responses ...llm.MockResponse) *testEnv {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "lessons.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cs := st.ConceptStore()
	mock := llm.NewMockProvider(responses...)
	svc := NewService(mock, mastery.NewService(cs), cs, st.LessonRepo(), DefaultConfig(), nil)
	return &testEnv{store: st, concepts: cs, mock: mock, svc: svc}
}

func lessonResponse(pattern string, vocab ...VocabularyItem) llm.MockResponse {
	return llm.MockJSON(map[string]any{
		"grammar_pattern":   pattern,
		"explanation_text":  "Attach to the verb stem to say what you want to do.",
		"example_sentences": []string{"집에 가고 싶어요. (I want to go home.)", "김치를 먹고 싶어요. (I want to eat kimchi.)"},
		"new_vocabulary":    vocab,
	})
}

func TestNextLesson_BootstrapOnEmptyStore(t *testing.T) {
	env := newTestEnv(t, lessonResponse(mastery.BootstrapPattern,
		VocabularyItem{Korean: "하다", English: "to do"},
		VocabularyItem{Korean: "먹다", English: "to eat"},
	))
	ctx := context.Background()

	lesson, err := env.svc.NextLesson(ctx)
	require.NoError(t, err)

	assert.NotZero(t, lesson.LessonID)
	assert.Equal(t, mastery.BootstrapPattern, lesson.GrammarPattern)
	assert.Len(t, lesson.ExampleSentences, 2)
	assert.Len(t, lesson.NewVocabulary, 2)

	// The lesson's grammar focus and vocabulary are now tracked at score 0.
	g, ok, err := env.concepts.GetGrammar(ctx, mastery.BootstrapPattern)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, g.MasteryScore)

	for _, w := range []string{"하다", "먹다"} {
		v, ok, err := env.concepts.GetVocabulary(ctx, w)
		require.NoError(t, err)
		require.True(t, ok, w)
		assert.Zero(t, v.MasteryScore)
	}

	stored, err := env.svc.Get(ctx, lesson.LessonID)
	require.NoError(t, err)
	assert.Equal(t, lesson.ExplanationText, stored.ExplanationText)
	assert.Equal(t, lesson.NewVocabulary, stored.NewVocabulary)
}

func TestNextLesson_TargetsWeakestAndKeepsScores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.concepts.UpsertGrammar(ctx, "-고 싶다", concept.GrammarDefaults{MasteryScore: 0.3})
	require.NoError(t, err)
	_, err = env.concepts.UpsertGrammar(ctx, "-아/어서", concept.GrammarDefaults{MasteryScore: 0.8})
	require.NoError(t, err)
	_, err = env.concepts.UpsertVocabulary(ctx, "집", concept.VocabularyDefaults{MasteryScore: 0.1})
	require.NoError(t, err)
	_, err = env.concepts.UpsertVocabulary(ctx, "가다", concept.VocabularyDefaults{MasteryScore: 0.6})
	require.NoError(t, err)

	env.mock.AddResponse(lessonResponse("-고 싶다 (want to)",
		VocabularyItem{Korean: "집", English: "house"},
		VocabularyItem{Korean: " 가다 ", English: "to go"},
		VocabularyItem{Korean: "가다", English: "duplicate"},
		VocabularyItem{Korean: "", English: "blank"},
	))

	lesson, err := env.svc.NextLesson(ctx)
	require.NoError(t, err)

	// The stored focus is the selected pattern, not the oracle's echo.
	assert.Equal(t, "-고 싶다", lesson.GrammarPattern)
	assert.Equal(t, []VocabularyItem{{Korean: "집", English: "house"}, {Korean: "가다", English: "to go"}}, lesson.NewVocabulary)

	// Existing concepts keep their scores.
	v, _, err := env.concepts.GetVocabulary(ctx, "가다")
	require.NoError(t, err)
	assert.Equal(t, 0.6, v.MasteryScore)

	// The prompt names the weak pattern and only the not-yet-learned word.
	req, ok := env.mock.LastCall()
	require.True(t, ok)
	msg := req.Messages[0].Content
	assert.Contains(t, msg, "Grammar pattern: -고 싶다")
	assert.Contains(t, msg, "- 집")
	assert.NotContains(t, msg, "- 가다")
	assert.Same(t, LessonSchema, req.Schema)
}

func TestNextLesson_OracleFailure(t *testing.T) {
	env := newTestEnv(t, llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})

	_, err := env.svc.NextLesson(context.Background())
	require.Error(t, err)

	var oe *llm.ErrOracle
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, llm.PurposeLesson, oe.Purpose)

	// Nothing is persisted on failure.
	_, ok, err := env.concepts.GetGrammar(context.Background(), mastery.BootstrapPattern)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNextLesson_StoreUnavailable(t *testing.T) {
	env := newTestEnv(t, lessonResponse("x"))
	env.store.Close()

	_, err := env.svc.NextLesson(context.Background())
	var unavailable *concept.ErrStoreUnavailable
	assert.ErrorAs(t, err, &unavailable)
	assert.Zero(t, env.mock.CallCount())
}

func TestGet_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Get(context.Background(), 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGet_StoreUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.store.Close()

	_, err := env.svc.Get(context.Background(), 1)
	var unavailable *concept.ErrStoreUnavailable
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "load lesson", unavailable.Op)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}

func TestBuildLessonUserMessage(t *testing.T) {
	msg := buildLessonUserMessage(concept.GrammarConcept{
		Pattern:       "-(으)면",
		MasteryScore:  0.25,
		WeaknessFlags: []string{"conjugation", "spacing"},
	}, nil)

	assert.Contains(t, msg, "Learner mastery score: 0.25")
	assert.Contains(t, msg, "Known weaknesses: conjugation, spacing")
	assert.True(t, strings.Contains(msg, "None. Choose 5"), "expected fallback vocabulary instruction")
}
