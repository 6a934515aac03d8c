package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const textSize = 2147483647

var (
	// GrammarConceptsColumns holds the columns for the "grammar_concepts" table.
	GrammarConceptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "pattern", Type: field.TypeString, Unique: true},
		{Name: "mastery_score", Type: field.TypeFloat64, Default: 0},
		{Name: "last_reviewed", Type: field.TypeTime},
		{Name: "weakness_flags", Type: field.TypeString, Size: textSize},
		{Name: "times_incorrect", Type: field.TypeInt, Default: 0},
	}
	// GrammarConceptsTable holds the schema information for the "grammar_concepts" table.
	GrammarConceptsTable = &schema.Table{
		Name:       "grammar_concepts",
		Columns:    GrammarConceptsColumns,
		PrimaryKey: []*schema.Column{GrammarConceptsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "grammarconcept_mastery_score_last_reviewed",
				Unique:  false,
				Columns: []*schema.Column{GrammarConceptsColumns[2], GrammarConceptsColumns[3]},
			},
		},
	}

	// VocabularyConceptsColumns holds the columns for the "vocabulary_concepts" table.
	VocabularyConceptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "word_korean", Type: field.TypeString, Unique: true},
		{Name: "mastery_score", Type: field.TypeFloat64, Default: 0},
		{Name: "last_reviewed", Type: field.TypeTime},
		{Name: "times_correct", Type: field.TypeInt, Default: 0},
		{Name: "times_incorrect", Type: field.TypeInt, Default: 0},
	}
	// VocabularyConceptsTable holds the schema information for the "vocabulary_concepts" table.
	VocabularyConceptsTable = &schema.Table{
		Name:       "vocabulary_concepts",
		Columns:    VocabularyConceptsColumns,
		PrimaryKey: []*schema.Column{VocabularyConceptsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "vocabularyconcept_mastery_score",
				Unique:  false,
				Columns: []*schema.Column{VocabularyConceptsColumns[2]},
			},
		},
	}

	// LessonsColumns holds the columns for the "lessons" table.
	LessonsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "grammar_focus", Type: field.TypeString},
		{Name: "content", Type: field.TypeString, Size: textSize},
		{Name: "example_sentences", Type: field.TypeString, Size: textSize},
		{Name: "new_vocabulary", Type: field.TypeString, Size: textSize},
		{Name: "created_at", Type: field.TypeTime},
	}
	// LessonsTable holds the schema information for the "lessons" table.
	LessonsTable = &schema.Table{
		Name:       "lessons",
		Columns:    LessonsColumns,
		PrimaryKey: []*schema.Column{LessonsColumns[0]},
	}

	// ExercisesColumns holds the columns for the "exercises" table.
	ExercisesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "type", Type: field.TypeString},
		{Name: "sub_type", Type: field.TypeString},
		{Name: "question_data", Type: field.TypeString, Size: textSize},
		{Name: "user_response", Type: field.TypeString, Size: textSize, Nullable: true},
		{Name: "grade", Type: field.TypeInt, Nullable: true},
		{Name: "feedback", Type: field.TypeString, Size: textSize, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "evaluated_at", Type: field.TypeTime, Nullable: true},
	}
	// ExercisesTable holds the schema information for the "exercises" table.
	ExercisesTable = &schema.Table{
		Name:       "exercises",
		Columns:    ExercisesColumns,
		PrimaryKey: []*schema.Column{ExercisesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "exercise_evaluated_at",
				Unique:  false,
				Columns: []*schema.Column{ExercisesColumns[8]},
			},
		},
	}

	// UserStatusColumns holds the columns for the "user_status" table.
	UserStatusColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "current_level", Type: field.TypeString},
		{Name: "known_vocab_count", Type: field.TypeInt, Default: 0},
		{Name: "grammar_mastered_count", Type: field.TypeInt, Default: 0},
		{Name: "most_recent_weak_area", Type: field.TypeString},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// UserStatusTable holds the schema information for the "user_status" table.
	UserStatusTable = &schema.Table{
		Name:       "user_status",
		Columns:    UserStatusColumns,
		PrimaryKey: []*schema.Column{UserStatusColumns[0]},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Nullable: true},
		{Name: "request_body", Type: field.TypeString, Size: textSize, Nullable: true},
		{Name: "response_body", Type: field.TypeString, Size: textSize, Nullable: true},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestEventsColumns[4]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		GrammarConceptsTable,
		VocabularyConceptsTable,
		LessonsTable,
		ExercisesTable,
		UserStatusTable,
		LlmRequestEventsTable,
	}
)

// migrate creates missing tables, columns and indexes. Existing data is
// never dropped.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
