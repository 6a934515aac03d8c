package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// eventRepo implements EventRepo. Inserts go through the ent builder;
// reporting queries scan straight into structs with sqlx.
type eventRepo struct {
	s *Store
}

const llmEventColumns = `id, created_at, provider, model, purpose, input_tokens, output_tokens,
	latency_ms, success, COALESCE(error_message, '') AS error_message,
	COALESCE(request_body, '') AS request_body, COALESCE(response_body, '') AS response_body`

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	ins := r.s.builder().Insert(LlmRequestEventsTable.Name).
		Columns("created_at", "provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "request_body", "response_body").
		Values(time.Now().UTC(), data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
			data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody)
	if err := r.s.q().exec(ctx, ins); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	var (
		where []string
		args  []any
	)
	if opts.Purpose != "" {
		where = append(where, "purpose = ?")
		args = append(args, opts.Purpose)
	}
	if !opts.From.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, opts.From.UTC())
	}
	if !opts.To.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, opts.To.UTC())
	}

	query := "SELECT " + llmEventColumns + " FROM llm_request_events"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	var events []LLMEvent
	if err := r.s.x.SelectContext(ctx, &events, r.s.x.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	for i := range events {
		events[i].Timestamp = events[i].Timestamp.UTC()
	}
	return events, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	var ev LLMEvent
	query := "SELECT " + llmEventColumns + " FROM llm_request_events WHERE id = ?"
	if err := r.s.x.GetContext(ctx, &ev, r.s.x.Rebind(query), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	ev.Timestamp = ev.Timestamp.UTC()
	return &ev, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	const query = `SELECT purpose,
		COUNT(*) AS calls,
		COALESCE(CAST(SUM(input_tokens) AS BIGINT), 0) AS input_tokens,
		COALESCE(CAST(SUM(output_tokens) AS BIGINT), 0) AS output_tokens,
		COALESCE(CAST(AVG(latency_ms) AS BIGINT), 0) AS avg_latency_ms
		FROM llm_request_events
		GROUP BY purpose
		ORDER BY calls DESC, purpose`

	var usage []PurposeUsage
	if err := r.s.x.SelectContext(ctx, &usage, query); err != nil {
		return nil, fmt.Errorf("query LLM usage by purpose: %w", err)
	}
	return usage, nil
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	const query = `SELECT model,
		COUNT(*) AS calls,
		COALESCE(CAST(SUM(input_tokens) AS BIGINT), 0) AS input_tokens,
		COALESCE(CAST(SUM(output_tokens) AS BIGINT), 0) AS output_tokens
		FROM llm_request_events
		GROUP BY model
		ORDER BY calls DESC, model`

	var usage []ModelUsage
	if err := r.s.x.SelectContext(ctx, &usage, query); err != nil {
		return nil, fmt.Errorf("query LLM usage by model: %w", err)
	}
	return usage, nil
}
