package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/hanmadi/internal/concept"
)

var (
	grammarFields    = []string{"pattern", "mastery_score", "last_reviewed", "weakness_flags", "times_incorrect"}
	vocabularyFields = []string{"word_korean", "mastery_score", "last_reviewed", "times_correct", "times_incorrect"}
)

// ConceptStore implements concept.Store on top of the SQL database.
// Every failure is reported as *concept.ErrStoreUnavailable.
type ConceptStore struct {
	s *Store
}

var _ concept.Store = (*ConceptStore)(nil)

func (c *ConceptStore) q() querier {
	return querier{ExecQuerier: c.s.drv, dialect: c.s.dialect}
}

func (c *ConceptStore) GetGrammar(ctx context.Context, pattern string) (concept.GrammarConcept, bool, error) {
	return c.q().getGrammar(ctx, pattern)
}

func (c *ConceptStore) ListGrammar(ctx context.Context, opts concept.ListOptions) ([]concept.GrammarConcept, error) {
	b := entsql.Dialect(c.s.dialect)
	sel := b.Select(grammarFields...).From(b.Table(GrammarConceptsTable.Name))
	applyListOptions(sel, opts, "pattern")

	rows, err := c.q().query(ctx, sel)
	if err != nil {
		return nil, concept.Unavailable("list grammar", err)
	}
	defer rows.Close()

	var out []concept.GrammarConcept
	for rows.Next() {
		g, err := scanGrammar(rows)
		if err != nil {
			return nil, concept.Unavailable("list grammar", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, concept.Unavailable("list grammar", err)
	}
	return out, nil
}

func (c *ConceptStore) UpsertGrammar(ctx context.Context, pattern string, def concept.GrammarDefaults) (concept.GrammarConcept, error) {
	ins := entsql.Dialect(c.s.dialect).Insert(GrammarConceptsTable.Name).
		Columns(grammarFields...).
		Values(pattern, concept.ClampScore(def.MasteryScore), time.Now().UTC(), "[]", 0).
		OnConflict(entsql.ConflictColumns("pattern"), entsql.DoNothing())
	if err := c.q().exec(ctx, ins); err != nil {
		return concept.GrammarConcept{}, concept.Unavailable("upsert grammar", err)
	}

	g, ok, err := c.GetGrammar(ctx, pattern)
	if err != nil {
		return concept.GrammarConcept{}, err
	}
	if !ok {
		return concept.GrammarConcept{}, concept.Unavailable("upsert grammar", fmt.Errorf("pattern %q vanished after insert", pattern))
	}
	return g, nil
}

func (c *ConceptStore) GetVocabulary(ctx context.Context, word string) (concept.VocabularyConcept, bool, error) {
	return c.q().getVocabulary(ctx, word)
}

func (c *ConceptStore) ListVocabulary(ctx context.Context, f concept.VocabularyFilter, opts concept.ListOptions) ([]concept.VocabularyConcept, error) {
	b := entsql.Dialect(c.s.dialect)
	sel := b.Select(vocabularyFields...).From(b.Table(VocabularyConceptsTable.Name))
	if f.MinScore != nil {
		sel.Where(entsql.GTE("mastery_score", *f.MinScore))
	}
	if f.MaxScore != nil {
		if f.MaxExclusive {
			sel.Where(entsql.LT("mastery_score", *f.MaxScore))
		} else {
			sel.Where(entsql.LTE("mastery_score", *f.MaxScore))
		}
	}
	applyListOptions(sel, opts, "word_korean")

	rows, err := c.q().query(ctx, sel)
	if err != nil {
		return nil, concept.Unavailable("list vocabulary", err)
	}
	defer rows.Close()

	var out []concept.VocabularyConcept
	for rows.Next() {
		v, err := scanVocabulary(rows)
		if err != nil {
			return nil, concept.Unavailable("list vocabulary", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, concept.Unavailable("list vocabulary", err)
	}
	return out, nil
}

func (c *ConceptStore) UpsertVocabulary(ctx context.Context, word string, def concept.VocabularyDefaults) (concept.VocabularyConcept, error) {
	ins := entsql.Dialect(c.s.dialect).Insert(VocabularyConceptsTable.Name).
		Columns(vocabularyFields...).
		Values(word, concept.ClampScore(def.MasteryScore), time.Now().UTC(), 0, 0).
		OnConflict(entsql.ConflictColumns("word_korean"), entsql.DoNothing())
	if err := c.q().exec(ctx, ins); err != nil {
		return concept.VocabularyConcept{}, concept.Unavailable("upsert vocabulary", err)
	}

	v, ok, err := c.GetVocabulary(ctx, word)
	if err != nil {
		return concept.VocabularyConcept{}, err
	}
	if !ok {
		return concept.VocabularyConcept{}, concept.Unavailable("upsert vocabulary", fmt.Errorf("word %q vanished after insert", word))
	}
	return v, nil
}

// WithTx runs fn in a database transaction. The transaction commits when fn
// returns nil and rolls back otherwise. A panic in fn rolls back and
// re-panics.
func (c *ConceptStore) WithTx(ctx context.Context, fn func(tx concept.Tx) error) error {
	tx, err := c.s.drv.Tx(ctx)
	if err != nil {
		return concept.Unavailable("begin tx", err)
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()

	if err := fn(&conceptTx{q: querier{ExecQuerier: tx, dialect: c.s.dialect}}); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return concept.Unavailable("commit", err)
	}
	return nil
}

// conceptTx implements concept.Tx over a dialect.Tx.
type conceptTx struct {
	q querier
}

func (t *conceptTx) GetGrammar(ctx context.Context, pattern string) (concept.GrammarConcept, bool, error) {
	return t.q.getGrammar(ctx, pattern)
}

func (t *conceptTx) SaveGrammar(ctx context.Context, g concept.GrammarConcept) error {
	flags := g.WeaknessFlags
	if flags == nil {
		flags = []string{}
	}
	raw, err := json.Marshal(flags)
	if err != nil {
		return fmt.Errorf("encode weakness flags: %w", err)
	}
	ins := entsql.Dialect(t.q.dialect).Insert(GrammarConceptsTable.Name).
		Columns(grammarFields...).
		Values(g.Pattern, concept.ClampScore(g.MasteryScore), g.LastReviewed.UTC(), string(raw), g.TimesIncorrect).
		OnConflict(entsql.ConflictColumns("pattern"), entsql.ResolveWithNewValues())
	if err := t.q.exec(ctx, ins); err != nil {
		return concept.Unavailable("save grammar", err)
	}
	return nil
}

func (t *conceptTx) GetVocabulary(ctx context.Context, word string) (concept.VocabularyConcept, bool, error) {
	return t.q.getVocabulary(ctx, word)
}

func (t *conceptTx) SaveVocabulary(ctx context.Context, v concept.VocabularyConcept) error {
	ins := entsql.Dialect(t.q.dialect).Insert(VocabularyConceptsTable.Name).
		Columns(vocabularyFields...).
		Values(v.WordKorean, concept.ClampScore(v.MasteryScore), v.LastReviewed.UTC(), v.TimesCorrect, v.TimesIncorrect).
		OnConflict(entsql.ConflictColumns("word_korean"), entsql.ResolveWithNewValues())
	if err := t.q.exec(ctx, ins); err != nil {
		return concept.Unavailable("save vocabulary", err)
	}
	return nil
}

// querier runs ent SQL builders against either the driver or an open
// transaction.
type querier struct {
	dialect.ExecQuerier
	dialect string
}

func (q querier) query(ctx context.Context, b entsql.Querier) (*entsql.Rows, error) {
	query, args := b.Query()
	rows := &entsql.Rows{}
	if err := q.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (q querier) exec(ctx context.Context, b entsql.Querier) error {
	query, args := b.Query()
	var res sql.Result
	return q.Exec(ctx, query, args, &res)
}

func (q querier) getGrammar(ctx context.Context, pattern string) (concept.GrammarConcept, bool, error) {
	b := entsql.Dialect(q.dialect)
	sel := b.Select(grammarFields...).
		From(b.Table(GrammarConceptsTable.Name)).
		Where(entsql.EQ("pattern", pattern)).
		Limit(1)

	rows, err := q.query(ctx, sel)
	if err != nil {
		return concept.GrammarConcept{}, false, concept.Unavailable("get grammar", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return concept.GrammarConcept{}, false, concept.Unavailable("get grammar", err)
		}
		return concept.GrammarConcept{}, false, nil
	}
	g, err := scanGrammar(rows)
	if err != nil {
		return concept.GrammarConcept{}, false, concept.Unavailable("get grammar", err)
	}
	return g, true, nil
}

func (q querier) getVocabulary(ctx context.Context, word string) (concept.VocabularyConcept, bool, error) {
	b := entsql.Dialect(q.dialect)
	sel := b.Select(vocabularyFields...).
		From(b.Table(VocabularyConceptsTable.Name)).
		Where(entsql.EQ("word_korean", word)).
		Limit(1)

	rows, err := q.query(ctx, sel)
	if err != nil {
		return concept.VocabularyConcept{}, false, concept.Unavailable("get vocabulary", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return concept.VocabularyConcept{}, false, concept.Unavailable("get vocabulary", err)
		}
		return concept.VocabularyConcept{}, false, nil
	}
	v, err := scanVocabulary(rows)
	if err != nil {
		return concept.VocabularyConcept{}, false, concept.Unavailable("get vocabulary", err)
	}
	return v, true, nil
}

func applyListOptions(sel *entsql.Selector, opts concept.ListOptions, nameColumn string) {
	switch opts.Order {
	case concept.OrderStrongestFirst:
		sel.OrderBy(entsql.Desc("mastery_score"), entsql.Asc(nameColumn))
	case concept.OrderRecentlyReviewed:
		sel.OrderBy(entsql.Desc("last_reviewed"), entsql.Asc(nameColumn))
	case concept.OrderAlphabetical:
		sel.OrderBy(entsql.Asc(nameColumn))
	case concept.OrderRandom:
		sel.OrderExpr(entsql.Expr("RANDOM()"))
	default:
		sel.OrderBy(entsql.Asc("mastery_score"), entsql.Asc("last_reviewed"), entsql.Asc(nameColumn))
	}

	switch {
	case opts.Limit > 0:
		sel.Limit(opts.Limit)
	case opts.Offset > 0:
		// OFFSET needs a LIMIT on SQLite.
		sel.Limit(math.MaxInt32)
	}
	if opts.Offset > 0 {
		sel.Offset(opts.Offset)
	}
}

func scanGrammar(rows *entsql.Rows) (concept.GrammarConcept, error) {
	var (
		g     concept.GrammarConcept
		flags string
	)
	if err := rows.Scan(&g.Pattern, &g.MasteryScore, &g.LastReviewed, &flags, &g.TimesIncorrect); err != nil {
		return g, fmt.Errorf("scan grammar: %w", err)
	}
	if flags != "" {
		if err := json.Unmarshal([]byte(flags), &g.WeaknessFlags); err != nil {
			return g, fmt.Errorf("decode weakness flags for %q: %w", g.Pattern, err)
		}
	}
	if g.WeaknessFlags == nil {
		g.WeaknessFlags = []string{}
	}
	g.LastReviewed = g.LastReviewed.UTC()
	return g, nil
}

func scanVocabulary(rows *entsql.Rows) (concept.VocabularyConcept, error) {
	var v concept.VocabularyConcept
	if err := rows.Scan(&v.WordKorean, &v.MasteryScore, &v.LastReviewed, &v.TimesCorrect, &v.TimesIncorrect); err != nil {
		return v, fmt.Errorf("scan vocabulary: %w", err)
	}
	v.LastReviewed = v.LastReviewed.UTC()
	return v, nil
}
