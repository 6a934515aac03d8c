package exercises

import (
	"fmt"
	"strings"
	"unicode"
)

// Generated is an oracle-produced exercise before it is stored.
type Generated struct {
	Type           string
	SubType        string
	QuestionText   string
	ExpectedFormat string
}

// Validator checks a generated exercise before it is stored.
type Validator interface {
	Name() string
	Validate(g *Generated) *ValidationError
}

// ValidationError describes why a generated exercise was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator rejects blank fields.
type StructuralValidator struct{}

func (*StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(g *Generated) *ValidationError {
	switch {
	case strings.TrimSpace(g.QuestionText) == "":
		return &ValidationError{Validator: v.Name(), Message: "question_text is empty"}
	case strings.TrimSpace(g.ExpectedFormat) == "":
		return &ValidationError{Validator: v.Name(), Message: "expected_format is empty"}
	}
	return nil
}

// HangulValidator requires reading and flashcard exercises to contain
// Korean text for the learner to work with.
type HangulValidator struct{}

func (*HangulValidator) Name() string { return "hangul" }

func (v *HangulValidator) Validate(g *Generated) *ValidationError {
	if g.Type != TypeReading && g.Type != TypeFlashcards {
		return nil
	}
	if !strings.ContainsFunc(g.QuestionText, isHangul) {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("%s exercise contains no Korean text", g.Type)}
	}
	return nil
}

func isHangul(r rune) bool {
	return unicode.Is(unicode.Hangul, r)
}
