package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/abhisek/hanmadi/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an
// event row, a log line, and (optionally) Prometheus samples.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	logger    *log.Logger
	metrics   *Metrics
}

// LoggingOption configures a LoggingProvider.
type LoggingOption func(*LoggingProvider)

// LogTo sends request summaries and event-write failures to l.
func LogTo(l *log.Logger) LoggingOption {
	return func(p *LoggingProvider) { p.logger = l }
}

// RecordMetrics observes every call on m.
func RecordMetrics(m *Metrics) LoggingOption {
	return func(p *LoggingProvider) { p.metrics = m }
}

// WithLogging wraps a Provider with event logging. provider is the
// configured provider name ("gemini", "openai", ...).
func WithLogging(p Provider, provider string, repo store.EventRepo, opts ...LoggingOption) Provider {
	lp := &LoggingProvider{inner: p, provider: provider, eventRepo: repo, logger: log.New("llm")}
	for _, opt := range opts {
		opt(lp)
	}
	return lp
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latency := time.Since(start)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.Warnj(log.JSON{
			"msg": "llm request failed", "purpose": purpose, "model": data.Model,
			"latency_ms": data.LatencyMs, "error": data.ErrorMessage,
		})
	} else {
		l.logger.Debugj(log.JSON{
			"msg": "llm request", "purpose": purpose, "model": data.Model,
			"latency_ms": data.LatencyMs, "input_tokens": data.InputTokens, "output_tokens": data.OutputTokens,
		})
	}

	l.metrics.observe(purpose, err, latency)

	// A failed event write never fails the request.
	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
			l.logger.Warnf("failed to record LLM request event: %v", logErr)
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(schemaDef)
			b.WriteString("\n")
		}
	}

	return b.String()
}
