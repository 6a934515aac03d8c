package evaluation

import (
	"fmt"
	"strings"

	"github.com/abhisek/hanmadi/internal/concept"
	"github.com/abhisek/hanmadi/internal/store"
)

const evaluationSystemPrompt = `You are an expert Korean language teacher and data analyst. You grade a learner's exercise submission and report how it should change their mastery scores.`

func buildEvaluationUserMessage(ex *store.Exercise, target concept.GrammarConcept, response string) string {
	var b strings.Builder

	b.WriteString("Context:\n")
	fmt.Fprintf(&b, "- Exercise (%s / %s): %q\n", ex.Type, ex.SubType, ex.Question.QuestionText)
	fmt.Fprintf(&b, "- Expected format: %s\n", ex.Question.ExpectedFormat)
	fmt.Fprintf(&b, "- Target concept: %q\n", target.Pattern)
	fmt.Fprintf(&b, "- Current mastery score: %.2f\n", target.MasteryScore)

	b.WriteString("- Known weakness flags: ")
	if len(target.WeaknessFlags) == 0 {
		b.WriteString("None\n")
	} else {
		b.WriteString(strings.Join(target.WeaknessFlags, ", "))
		b.WriteString("\n")
	}
	if len(ex.Question.TargetVocab) > 0 {
		fmt.Fprintf(&b, "- Vocabulary being drilled: %s\n", strings.Join(ex.Question.TargetVocab, ", "))
	}

	fmt.Fprintf(&b, "\nLearner's submission:\n%q\n", response)

	fmt.Fprintf(&b, `
Tasks:
1. grade: an integer from 0 to 100.
2. feedback_text: clear, constructive feedback that quotes the learner's mistakes and shows corrections.
3. mastery_updates: one update whose concept is exactly %q. new_score is a number between 0.0 and 1.0; raise it for correct usage and lower it for incorrect usage, in proportion to the performance. flags_added lists specific new error types not already among the known weakness flags, or is empty.
4. You may add one update per drilled vocabulary word the learner used, with concept set to the word exactly as listed.`, target.Pattern)

	return b.String()
}
