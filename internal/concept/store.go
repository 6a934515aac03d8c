package concept

import "context"

// Order selects how list operations sort their results.
type Order int

const (
	// OrderWeakestFirst sorts by mastery score ascending, then least
	// recently reviewed first.
	OrderWeakestFirst Order = iota
	// OrderStrongestFirst sorts by mastery score descending.
	OrderStrongestFirst
	// OrderRecentlyReviewed sorts by last_reviewed descending.
	OrderRecentlyReviewed
	// OrderAlphabetical sorts by the concept identifier.
	OrderAlphabetical
	// OrderRandom returns rows in random order. Used for sampling.
	OrderRandom
)

// ListOptions configures ordering and pagination of list operations.
type ListOptions struct {
	Order  Order
	Offset int
	Limit  int // 0 = unlimited
}

// VocabularyFilter restricts vocabulary listings to a score band.
// Nil bounds are open.
type VocabularyFilter struct {
	MinScore *float64 // score >= MinScore
	MaxScore *float64 // score <= MaxScore, or < MaxScore when MaxExclusive
	// MaxExclusive makes the upper bound strict.
	MaxExclusive bool
}

// GrammarDefaults are the initial values of a lazily created grammar concept.
type GrammarDefaults struct {
	MasteryScore float64
}

// VocabularyDefaults are the initial values of a lazily created vocabulary
// concept.
type VocabularyDefaults struct {
	MasteryScore float64
}

// Store holds grammar and vocabulary mastery records keyed by their text.
//
// Lookups use the comma-ok shape: a missing record is (zero, false, nil),
// never an error. Every store-layer failure is returned as
// *ErrStoreUnavailable.
type Store interface {
	GetGrammar(ctx context.Context, pattern string) (GrammarConcept, bool, error)
	ListGrammar(ctx context.Context, opts ListOptions) ([]GrammarConcept, error)
	// UpsertGrammar returns the stored concept, creating it with defaults
	// when absent. Existing records are not modified.
	UpsertGrammar(ctx context.Context, pattern string, defaults GrammarDefaults) (GrammarConcept, error)

	GetVocabulary(ctx context.Context, word string) (VocabularyConcept, bool, error)
	ListVocabulary(ctx context.Context, filter VocabularyFilter, opts ListOptions) ([]VocabularyConcept, error)
	UpsertVocabulary(ctx context.Context, word string, defaults VocabularyDefaults) (VocabularyConcept, error)

	// WithTx runs fn inside a write transaction. The transaction commits
	// when fn returns nil and rolls back on error or panic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the view of the store available inside WithTx.
type Tx interface {
	GetGrammar(ctx context.Context, pattern string) (GrammarConcept, bool, error)
	SaveGrammar(ctx context.Context, g GrammarConcept) error
	GetVocabulary(ctx context.Context, word string) (VocabularyConcept, bool, error)
	SaveVocabulary(ctx context.Context, v VocabularyConcept) error
}

// Float returns a pointer to f, for building filters.
func Float(f float64) *float64 { return &f }
