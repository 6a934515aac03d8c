package lessons

import "time"

// VocabularyItem is a word introduced by a lesson.
type VocabularyItem struct {
	Korean  string `json:"korean"`
	English string `json:"english"`
}

// LessonContent is a generated lesson as returned to clients.
type LessonContent struct {
	LessonID         int              `json:"lesson_id"`
	GrammarPattern   string           `json:"grammar_pattern"`
	ExplanationText  string           `json:"explanation_text"`
	ExampleSentences []string         `json:"example_sentences"`
	NewVocabulary    []VocabularyItem `json:"new_vocabulary"`
	CreatedAt        time.Time        `json:"created_at"`
}
