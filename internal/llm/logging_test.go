package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/abhisek/hanmadi/internal/store"
)

func openEventRepo(t *testing.T) store.EventRepo {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.EventRepo()
}

func TestLoggingProvider_RecordsEvents(t *testing.T) {
	repo := openEventRepo(t)
	metrics := NewMetrics(prometheus.NewRegistry())
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"grade":90}`), Usage: Usage{InputTokens: 120, OutputTokens: 30}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
	)
	p := WithLogging(mock, "gemini", repo, RecordMetrics(metrics))

	ctx := WithPurpose(context.Background(), PurposeEvaluation)
	req := Request{
		System:   "grader",
		Messages: []Message{{Role: RoleUser, Content: "채점해 주세요"}},
		Schema:   gradingSchema(),
	}
	if _, err := p.Generate(ctx, req); err != nil {
		t.Fatalf("first call: %v", err)
	}
	if _, err := p.Generate(ctx, req); err == nil {
		t.Fatal("expected second call to fail")
	}

	events, err := repo.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	failed, ok := events[0], events[1]
	if failed.Success || failed.ErrorMessage == "" {
		t.Errorf("failed event = %+v", failed)
	}
	if !ok.Success || ok.InputTokens != 120 || ok.OutputTokens != 30 {
		t.Errorf("ok event = %+v", ok)
	}
	if ok.Provider != "gemini" || ok.Model != "mock" || ok.Purpose != "evaluation" {
		t.Errorf("ok event labels = %q/%q/%q", ok.Provider, ok.Model, ok.Purpose)
	}
	if ok.ResponseBody != `{"grade":90}` {
		t.Errorf("response body = %q", ok.ResponseBody)
	}

	if got := testutil.ToFloat64(metrics.calls.WithLabelValues("evaluation", "ok")); got != 1 {
		t.Errorf("ok calls = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.calls.WithLabelValues("evaluation", "rate_limited")); got != 1 {
		t.Errorf("rate limited calls = %v, want 1", got)
	}
}

func TestSerializeRequest(t *testing.T) {
	got := serializeRequest(Request{
		System:   "You are a Korean tutor.",
		Messages: []Message{{Role: RoleUser, Content: "Teach -고 싶다"}},
		Schema:   &Schema{Name: "lesson", Definition: map[string]any{"type": "object"}},
	})
	want := "[system]\nYou are a Korean tutor.\n\n[user]\nTeach -고 싶다\n\n[schema: lesson]\n{\"type\":\"object\"}\n"
	if got != want {
		t.Errorf("serializeRequest() =\n%q\nwant\n%q", got, want)
	}
}
