package lessons

import "github.com/abhisek/hanmadi/internal/llm"

// LessonSchema defines the JSON schema for lesson generation.
var LessonSchema = &llm.Schema{
	Name:        "korean-lesson",
	Description: "A Korean grammar lesson with explanation, example sentences and new vocabulary",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"grammar_pattern": map[string]any{
				"type":        "string",
				"description": "The grammar pattern taught, exactly as given",
			},
			"explanation_text": map[string]any{
				"type":        "string",
				"description": "Explanation of meaning, form and usage, addressing the listed weaknesses",
			},
			"example_sentences": map[string]any{
				"type":        "array",
				"description": "3-4 Korean example sentences using the pattern, each followed by an English translation",
				"items":       map[string]any{"type": "string"},
			},
			"new_vocabulary": map[string]any{
				"type":        "array",
				"description": "Vocabulary introduced by this lesson",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"korean":  map[string]any{"type": "string", "description": "Dictionary form in Hangul"},
						"english": map[string]any{"type": "string", "description": "Short English gloss"},
					},
					"required":             []any{"korean", "english"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"grammar_pattern", "explanation_text", "example_sentences", "new_vocabulary"},
		"additionalProperties": false,
	},
}
