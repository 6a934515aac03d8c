package exercises

import "github.com/abhisek/hanmadi/internal/llm"

// ExerciseSchema defines the JSON schema for exercise generation.
var ExerciseSchema = &llm.Schema{
	Name:        "korean-exercise",
	Description: "A single Korean practice exercise and the expected answer format",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": map[string]any{
				"type":        "string",
				"description": "The full exercise prompt shown to the learner, including any Korean passage or word list",
			},
			"expected_format": map[string]any{
				"type":        "string",
				"description": "What the learner should submit, e.g. 'A 5-sentence paragraph in Korean'",
			},
		},
		"required":             []any{"question_text", "expected_format"},
		"additionalProperties": false,
	},
}
