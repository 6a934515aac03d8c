package evaluation

import "github.com/abhisek/hanmadi/internal/llm"

// EvaluationSchema defines the JSON schema for grading a submission.
var EvaluationSchema = &llm.Schema{
	Name:        "korean-evaluation",
	Description: "A graded exercise submission with feedback and mastery updates",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"grade": map[string]any{
				"type":        "integer",
				"description": "Overall grade from 0 to 100",
				"minimum":     0,
				"maximum":     100,
			},
			"feedback_text": map[string]any{
				"type":        "string",
				"description": "Clear, constructive feedback for the learner",
			},
			"mastery_updates": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"concept": map[string]any{
							"type":        "string",
							"description": "Grammar pattern or Korean word, exactly as given",
						},
						"new_score": map[string]any{
							"type":        "number",
							"description": "New mastery score between 0.0 and 1.0",
						},
						"flags_added": map[string]any{
							"type":        "array",
							"description": "New error types not already among the known weaknesses",
							"items":       map[string]any{"type": "string"},
						},
					},
					"required": []any{"concept", "new_score"},
				},
			},
		},
		"required": []any{"grade", "feedback_text", "mastery_updates"},
	},
}
