package lessons

import (
	"fmt"
	"strings"

	"github.com/abhisek/hanmadi/internal/concept"
)

const lessonSystemPrompt = `You are a helpful Korean language tutor. You write short, personalized grammar lessons for an adult learner, in English with Korean examples.`

func buildLessonUserMessage(g concept.GrammarConcept, vocab []concept.VocabularyConcept) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Grammar pattern: %s\n", g.Pattern)
	fmt.Fprintf(&b, "Learner mastery score: %.2f\n", g.MasteryScore)

	b.WriteString("Known weaknesses: ")
	if len(g.WeaknessFlags) == 0 {
		b.WriteString("None\n")
	} else {
		b.WriteString(strings.Join(g.WeaknessFlags, ", "))
		b.WriteString("\n")
	}

	b.WriteString("\nWords the learner has not learned yet:\n")
	if len(vocab) == 0 {
		b.WriteString("None. Choose 5 beginner-friendly words that fit the pattern.\n")
	} else {
		for _, v := range vocab {
			fmt.Fprintf(&b, "- %s\n", v.WordKorean)
		}
	}

	b.WriteString(`
Instructions:
1. Explain the grammar pattern: meaning, how it attaches to verbs/adjectives, and when to use it. Address the known weaknesses directly.
2. Give 3-4 example sentences that use the pattern. Follow each Korean sentence with its English translation in parentheses.
3. Use the listed words in the examples where natural, and return every word you introduce in new_vocabulary with a short English gloss. Use dictionary forms.
4. Return grammar_pattern exactly as given above.`)

	return b.String()
}
