package evaluation

import "github.com/abhisek/hanmadi/internal/concept"

// Submission is a learner's answer to a stored exercise.
type Submission struct {
	ExerciseID   int    `json:"exercise_id" validate:"required,gt=0"`
	UserResponse string `json:"user_response" validate:"required,max=10000"`
}

// Result is the graded submission returned to clients. It mirrors the
// oracle's evaluation with the grade clamped to 0-100.
type Result = concept.Evaluation
