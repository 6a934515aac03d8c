package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var lessonFields = []string{"grammar_focus", "content", "example_sentences", "new_vocabulary", "created_at"}

type lessonRepo struct {
	s *Store
}

func (r *lessonRepo) Create(ctx context.Context, l *Lesson) error {
	examples, err := json.Marshal(nonNil(l.ExampleSentences))
	if err != nil {
		return fmt.Errorf("encode example sentences: %w", err)
	}
	vocab, err := json.Marshal(nonNil(l.NewVocabulary))
	if err != nil {
		return fmt.Errorf("encode new vocabulary: %w", err)
	}

	now := time.Now().UTC()
	ins := r.s.builder().Insert(LessonsTable.Name).
		Columns(lessonFields...).
		Values(l.GrammarFocus, l.Content, string(examples), string(vocab), now)

	id, err := r.s.insertID(ctx, ins)
	if err != nil {
		return fmt.Errorf("save lesson: %w", err)
	}
	l.ID = id
	l.CreatedAt = now
	return nil
}

func (r *lessonRepo) Get(ctx context.Context, id int) (*Lesson, error) {
	b := r.s.builder()
	sel := b.Select(append([]string{"id"}, lessonFields...)...).
		From(b.Table(LessonsTable.Name)).
		Where(entsql.EQ("id", id))

	rows, err := r.s.q().query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query lesson: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query lesson: %w", err)
		}
		return nil, ErrNotFound
	}

	var (
		l                 Lesson
		examples, vocabul string
	)
	if err := rows.Scan(&l.ID, &l.GrammarFocus, &l.Content, &examples, &vocabul, &l.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan lesson: %w", err)
	}
	if err := json.Unmarshal([]byte(examples), &l.ExampleSentences); err != nil {
		return nil, fmt.Errorf("decode example sentences: %w", err)
	}
	if err := json.Unmarshal([]byte(vocabul), &l.NewVocabulary); err != nil {
		return nil, fmt.Errorf("decode new vocabulary: %w", err)
	}
	l.CreatedAt = l.CreatedAt.UTC()
	return &l, nil
}

// insertID runs an insert and returns the generated primary key.
// Postgres has no LastInsertId, so it reads the RETURNING clause instead.
func (s *Store) insertID(ctx context.Context, ins *entsql.InsertBuilder) (int, error) {
	if s.dialect == dialect.Postgres {
		ins.Returning("id")
		rows, err := s.q().query(ctx, ins)
		if err != nil {
			return 0, err
		}
		defer rows.Close()
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return 0, err
			}
			return 0, fmt.Errorf("insert returned no id")
		}
		var id int
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	query, args := ins.Query()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

func (s *Store) q() querier {
	return querier{ExecQuerier: s.drv, dialect: s.dialect}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
