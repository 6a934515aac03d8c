package exercises

import "errors"

// ErrExerciseNotFound is returned when a submission names an exercise id
// that was never generated.
var ErrExerciseNotFound = errors.New("exercise not found")

// Request asks for an exercise. Every field is optional.
type Request struct {
	Type            string `json:"type" validate:"omitempty,oneof=Writing Reading Flashcards"`
	SubType         string `json:"sub_type" validate:"omitempty,max=64"`
	TargetConceptID string `json:"target_concept_id" validate:"omitempty,max=200"`
}

// Details is a generated exercise as returned to clients.
type Details struct {
	ExerciseID     int    `json:"exercise_id"`
	Type           string `json:"type"`
	SubType        string `json:"sub_type"`
	QuestionText   string `json:"question_text"`
	ExpectedFormat string `json:"expected_format"`
}
