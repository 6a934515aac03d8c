package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// statusRowID is the id of the single user_status row.
const statusRowID = 1

type statusRepo struct {
	s *Store
}

func (r *statusRepo) Save(ctx context.Context, st UserStatus) error {
	ins := r.s.builder().Insert(UserStatusTable.Name).
		Columns("id", "current_level", "known_vocab_count", "grammar_mastered_count", "most_recent_weak_area", "updated_at").
		Values(statusRowID, st.Level, st.KnownVocab, st.GrammarMastered, st.WeakFocus, st.UpdatedAt.UTC()).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues())
	if err := r.s.q().exec(ctx, ins); err != nil {
		return fmt.Errorf("save user status: %w", err)
	}
	return nil
}

func (r *statusRepo) Latest(ctx context.Context) (*UserStatus, error) {
	b := r.s.builder()
	sel := b.Select("current_level", "known_vocab_count", "grammar_mastered_count", "most_recent_weak_area", "updated_at").
		From(b.Table(UserStatusTable.Name)).
		Where(entsql.EQ("id", statusRowID))

	rows, err := r.s.q().query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query user status: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var st UserStatus
	if err := rows.Scan(&st.Level, &st.KnownVocab, &st.GrammarMastered, &st.WeakFocus, &st.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan user status: %w", err)
	}
	st.UpdatedAt = st.UpdatedAt.UTC()
	return &st, nil
}
