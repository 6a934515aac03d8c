package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var exerciseFields = []string{
	"id", "type", "sub_type", "question_data", "user_response",
	"grade", "feedback", "created_at", "evaluated_at",
}

type exerciseRepo struct {
	s *Store
}

func (r *exerciseRepo) Create(ctx context.Context, e *Exercise) error {
	q := e.Question
	q.TargetVocab = nonNil(q.TargetVocab)
	raw, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode question data: %w", err)
	}

	now := time.Now().UTC()
	ins := r.s.builder().Insert(ExercisesTable.Name).
		Columns("type", "sub_type", "question_data", "created_at").
		Values(e.Type, e.SubType, string(raw), now)

	id, err := r.s.insertID(ctx, ins)
	if err != nil {
		return fmt.Errorf("save exercise: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	return nil
}

func (r *exerciseRepo) Get(ctx context.Context, id int) (*Exercise, error) {
	b := r.s.builder()
	sel := b.Select(exerciseFields...).
		From(b.Table(ExercisesTable.Name)).
		Where(entsql.EQ("id", id))

	rows, err := r.s.q().query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query exercise: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query exercise: %w", err)
		}
		return nil, ErrNotFound
	}

	var (
		e           Exercise
		question    string
		response    sql.NullString
		grade       sql.NullInt64
		feedback    sql.NullString
		evaluatedAt sql.NullTime
	)
	if err := rows.Scan(&e.ID, &e.Type, &e.SubType, &question, &response, &grade, &feedback, &e.CreatedAt, &evaluatedAt); err != nil {
		return nil, fmt.Errorf("scan exercise: %w", err)
	}
	if err := json.Unmarshal([]byte(question), &e.Question); err != nil {
		return nil, fmt.Errorf("decode question data: %w", err)
	}
	e.UserResponse = response.String
	e.Grade = int(grade.Int64)
	e.Feedback = feedback.String
	e.CreatedAt = e.CreatedAt.UTC()
	if evaluatedAt.Valid {
		t := evaluatedAt.Time.UTC()
		e.EvaluatedAt = &t
	}
	return &e, nil
}

func (r *exerciseRepo) SaveSubmission(ctx context.Context, id int, response string, grade int, feedback string, at time.Time) error {
	upd := r.s.builder().Update(ExercisesTable.Name).
		Set("user_response", response).
		Set("grade", grade).
		Set("feedback", feedback).
		Set("evaluated_at", at.UTC()).
		Where(entsql.EQ("id", id))

	query, args := upd.Query()
	res, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *exerciseRepo) History(ctx context.Context, limit int) ([]HistoryItem, error) {
	query := `SELECT id, COALESCE(grade, 0) AS grade, type, evaluated_at
		FROM exercises
		WHERE evaluated_at IS NOT NULL
		ORDER BY evaluated_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var items []HistoryItem
	if err := r.s.x.SelectContext(ctx, &items, r.s.x.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query review history: %w", err)
	}
	for i := range items {
		items[i].EvaluatedAt = items[i].EvaluatedAt.UTC()
	}
	return items, nil
}
