package exercises

import (
	"fmt"
	"strings"

	"github.com/abhisek/hanmadi/internal/concept"
)

const exerciseSystemPrompt = `You are a helpful Korean language exercise generator. You write one self-contained exercise at a time for an adult learner.`

var typeGuidance = map[string]string{
	TypeWriting:    "Ask the learner to write a short Korean text that must use the grammar pattern several times. Give a concrete topic.",
	TypeFlashcards: "List the drilling words and ask the learner to translate each one (Korean to English or the reverse), then use two of them in a sentence.",
	TypeReading:    "Write a short Korean passage (4-6 sentences) that uses the grammar pattern, followed by 2-3 comprehension questions.",
}

func buildExerciseUserMessage(typ, subType string, g concept.GrammarConcept, drilling []concept.VocabularyConcept) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Exercise type: %s\n", typ)
	fmt.Fprintf(&b, "Sub-type: %s\n", subType)
	fmt.Fprintf(&b, "Grammar focus: %s (mastery %.2f)\n", g.Pattern, g.MasteryScore)

	b.WriteString("Known weaknesses: ")
	if len(g.WeaknessFlags) == 0 {
		b.WriteString("None\n")
	} else {
		b.WriteString(strings.Join(g.WeaknessFlags, ", "))
		b.WriteString("\n")
	}

	b.WriteString("Drilling vocabulary: ")
	if len(drilling) == 0 {
		b.WriteString("None\n")
	} else {
		words := make([]string, len(drilling))
		for i, v := range drilling {
			words[i] = v.WordKorean
		}
		b.WriteString(strings.Join(words, ", "))
		b.WriteString("\n")
	}

	b.WriteString("\nInstructions:\n")
	if guide, ok := typeGuidance[typ]; ok {
		b.WriteString(guide)
		b.WriteString("\n")
	}
	b.WriteString(`Target the known weaknesses where possible. Include some of the drilling vocabulary.
Provide a clear question_text and describe the expected_format of the learner's answer.`)

	return b.String()
}
