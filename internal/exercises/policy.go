package exercises

import "github.com/abhisek/hanmadi/internal/concept"

// Exercise types.
const (
	TypeWriting    = "Writing"
	TypeReading    = "Reading"
	TypeFlashcards = "Flashcards"
)

// Default sub-types per exercise type.
const (
	SubTypeTargetedEssay     = "Targeted Essay"
	SubTypeTranslationRecall = "Translation Recall"
	SubTypeStoryAnalysis     = "Short Story Analysis"
	subTypeGeneral           = "General Practice"
)

// WeakGrammarThreshold is the grammar score below which the learner is
// asked to write.
const WeakGrammarThreshold = 0.5

var defaultSubTypes = map[string]string{
	TypeWriting:    SubTypeTargetedEssay,
	TypeFlashcards: SubTypeTranslationRecall,
	TypeReading:    SubTypeStoryAnalysis,
}

// ChooseType applies the exercise type policy. An explicit req.Type wins;
// otherwise weak grammar asks for writing, drillable vocabulary asks for
// flashcards, and everything else gets a reading exercise.
func ChooseType(req Request, grammar concept.GrammarConcept, drilling []concept.VocabularyConcept) (typ, subType string) {
	typ = req.Type
	if typ == "" {
		switch {
		case grammar.MasteryScore < WeakGrammarThreshold:
			typ = TypeWriting
		case len(drilling) > 0:
			typ = TypeFlashcards
		default:
			typ = TypeReading
		}
		// A sub-type only makes sense for the type it was asked with.
		return typ, defaultSubTypes[typ]
	}

	subType = req.SubType
	if subType == "" {
		subType = DefaultSubType(typ)
	}
	return typ, subType
}

// DefaultSubType returns the sub-type used for typ when none is requested.
func DefaultSubType(typ string) string {
	if s, ok := defaultSubTypes[typ]; ok {
		return s
	}
	return subTypeGeneral
}
