package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func gradingSchema() *Schema {
	return &Schema{
		Name:        "test-grading",
		Description: "A graded answer",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"grade":         map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
				"feedback_text": map[string]any{"type": "string"},
				"level":         map[string]any{"type": "string", "enum": []any{"Beginner", "Intermediate", "Advanced"}},
				"mastery_updates": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"concept":   map[string]any{"type": "string"},
							"new_score": map[string]any{"type": "number"},
						},
						"required": []any{"concept", "new_score"},
					},
				},
			},
			"required": []any{"grade", "feedback_text"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"grade":80,"feedback_text":"좋아요","level":"Beginner"}`, false},
		{"valid without optional", `{"grade":0,"feedback_text":""}`, false},
		{"nested updates", `{"grade":70,"feedback_text":"ok","mastery_updates":[{"concept":"-고 싶다","new_score":0.6}]}`, false},
		{"missing required", `{"grade":80}`, true},
		{"wrong type", `{"grade":"eighty","feedback_text":"x"}`, true},
		{"out of range", `{"grade":120,"feedback_text":"x"}`, true},
		{"invalid enum", `{"grade":10,"feedback_text":"x","level":"Expert"}`, true},
		{"nested missing field", `{"grade":70,"feedback_text":"ok","mastery_updates":[{"concept":"먹다"}]}`, true},
		{"malformed JSON", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(gradingSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`{"anything":"goes"}`)
	if err := validateResponse(nil, raw); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_SameNameDifferentDefinition(t *testing.T) {
	loose := &Schema{Name: "test-shared", Definition: map[string]any{"type": "object"}}
	strict := &Schema{Name: "test-shared", Definition: map[string]any{
		"type":     "object",
		"required": []any{"grade"},
	}}

	raw := json.RawMessage(`{}`)
	if err := validateResponse(loose, raw); err != nil {
		t.Fatalf("loose schema: %v", err)
	}
	if err := validateResponse(strict, raw); err == nil {
		t.Fatal("strict schema should not reuse the loose compiled schema")
	}
}
