package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repositories when a record id does not exist.
var ErrNotFound = errors.New("store: record not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact purpose match ("" = any)
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// VocabularyItem is a word introduced by a lesson.
type VocabularyItem struct {
	Korean  string `json:"korean"`
	English string `json:"english"`
}

// Lesson is a generated lesson as persisted.
type Lesson struct {
	ID               int
	GrammarFocus     string
	Content          string
	ExampleSentences []string
	NewVocabulary    []VocabularyItem
	CreatedAt        time.Time
}

// QuestionData is the stored description of an exercise prompt.
type QuestionData struct {
	QuestionText   string   `json:"question_text"`
	ExpectedFormat string   `json:"expected_format"`
	TargetGrammar  string   `json:"target_grammar"`
	TargetVocab    []string `json:"target_vocab"`
}

// Exercise is a generated exercise, plus the learner's graded submission
// once one exists.
type Exercise struct {
	ID           int
	Type         string
	SubType      string
	Question     QuestionData
	UserResponse string
	Grade        int
	Feedback     string
	CreatedAt    time.Time
	EvaluatedAt  *time.Time
}

// Evaluated reports whether a submission has been graded.
func (e *Exercise) Evaluated() bool {
	return e.EvaluatedAt != nil
}

// HistoryItem is one row of the review history.
type HistoryItem struct {
	ExerciseID  int       `db:"id"`
	Grade       int       `db:"grade"`
	Type        string    `db:"type"`
	EvaluatedAt time.Time `db:"evaluated_at"`
}

// UserStatus is the persisted dashboard summary.
type UserStatus struct {
	Level           string
	KnownVocab      int
	GrammarMastered int
	WeakFocus       string
	UpdatedAt       time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID           int       `db:"id"`
	Timestamp    time.Time `db:"created_at"`
	Provider     string    `db:"provider"`
	Model        string    `db:"model"`
	Purpose      string    `db:"purpose"`
	InputTokens  int       `db:"input_tokens"`
	OutputTokens int       `db:"output_tokens"`
	LatencyMs    int64     `db:"latency_ms"`
	Success      bool      `db:"success"`
	ErrorMessage string    `db:"error_message"`
	RequestBody  string    `db:"request_body"`
	ResponseBody string    `db:"response_body"`
}

// PurposeUsage aggregates LLM usage for one purpose.
type PurposeUsage struct {
	Purpose      string `db:"purpose"`
	Calls        int    `db:"calls"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
	AvgLatencyMs int64  `db:"avg_latency_ms"`
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string `db:"model"`
	Calls        int    `db:"calls"`
	InputTokens  int    `db:"input_tokens"`
	OutputTokens int    `db:"output_tokens"`
}

// LessonRepo stores generated lessons.
type LessonRepo interface {
	// Create stores a lesson and sets its ID and CreatedAt.
	Create(ctx context.Context, l *Lesson) error

	// Get returns a lesson by id, or ErrNotFound.
	Get(ctx context.Context, id int) (*Lesson, error)
}

// ExerciseRepo stores generated exercises and their submissions.
type ExerciseRepo interface {
	// Create stores an exercise and sets its ID and CreatedAt.
	Create(ctx context.Context, e *Exercise) error

	// Get returns an exercise by id, or ErrNotFound.
	Get(ctx context.Context, id int) (*Exercise, error)

	// SaveSubmission records the learner's response and its grade.
	SaveSubmission(ctx context.Context, id int, response string, grade int, feedback string, at time.Time) error

	// History returns evaluated exercises, newest first.
	History(ctx context.Context, limit int) ([]HistoryItem, error)
}

// StatusRepo stores the single dashboard status row.
type StatusRepo interface {
	// Save replaces the stored status.
	Save(ctx context.Context, st UserStatus) error

	// Latest returns the stored status, or nil if none has been saved.
	Latest(ctx context.Context) (*UserStatus, error)
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents lists events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates calls and tokens per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates calls and tokens per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
