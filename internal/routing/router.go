package routing

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wibisono/ais-console/internal/observability/metrics"
	"github.com/wibisono/ais-console/pkg/logging"
)

var routingTracer = otel.Tracer("ais.internal.routing")

// Options tune the routing call.
type Options struct {
	// Timeout bounds one routing call. A hung transport must not block
	// the session forever; when the deadline passes the caller gets the
	// fallback decision.
	Timeout     time.Duration
	Temperature float32
	MaxTokens   int32
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	if o.Temperature <= 0 {
		o.Temperature = 0.2
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 1024
	}
	return o
}

// Router turns a user utterance into a validated Decision. One network
// attempt per turn, no retry; every failure collapses into the fixed
// fallback so callers never see an error.
type Router struct {
	client  LLMClient
	logger  *logging.Logger
	metrics *metrics.RoutingMetrics
	opts    Options
}

// NewRouter creates a router over the given LLM client.
func NewRouter(client LLMClient, logger *logging.Logger, m *metrics.RoutingMetrics, opts Options) *Router {
	if logger == nil {
		logger = logging.Default()
	}
	return &Router{
		client:  client,
		logger:  logger,
		metrics: m,
		opts:    opts.withDefaults(),
	}
}

// Route sends the utterance plus the current context summary to the model
// and returns a well-formed Decision. It never returns an error: transport
// failures, empty bodies, parse failures, and out-of-enum tag values all
// resolve to FallbackDecision.
func (r *Router) Route(ctx context.Context, utterance, contextSummary string) Decision {
	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	ctx, span := routingTracer.Start(ctx, "routing.route",
		trace.WithAttributes(attribute.Int("ais.routing.utterance_len", len(utterance))),
	)
	defer span.End()

	start := time.Now()
	resp, err := r.client.Complete(ctx, LLMRequest{
		System:      []string{systemInstruction(contextSummary)},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: utterance}},
		MaxTokens:   r.opts.MaxTokens,
		Temperature: r.opts.Temperature,
	})
	latency := time.Since(start)
	r.metrics.ObserveTokens(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	outcome := "ok"
	defer func() {
		r.metrics.ObserveRequest(outcome, latency.Seconds())
		span.SetAttributes(
			attribute.String("ais.routing.outcome", outcome),
			attribute.Float64("ais.routing.latency_ms", float64(latency.Milliseconds())),
		)
	}()

	if err != nil {
		outcome = "transport_error"
		r.logger.Warn("routing: model call failed", "error", err)
		return FallbackDecision()
	}
	if strings.TrimSpace(resp.Text) == "" {
		outcome = "empty_response"
		r.logger.Warn("routing: model returned empty body")
		return FallbackDecision()
	}

	decision, perr := parseDecision(resp.Text)
	if perr != nil {
		outcome = "parse_error"
		r.logger.Warn("routing: could not interpret model response",
			"error", perr,
			"raw", truncate(resp.Text, 512),
		)
		return FallbackDecision()
	}

	span.SetAttributes(
		attribute.String("ais.routing.agent", string(decision.Agent)),
		attribute.String("ais.routing.action", string(decision.Action)),
		attribute.Bool("ais.routing.entity_present", decision.EntityID != ""),
	)
	return decision
}

// parseError describes why a model response could not become a Decision.
type parseError struct {
	reason string
}

func (e *parseError) Error() string { return "routing: " + e.reason }

// parseDecision interprets the raw model text as a routing decision.
// Markdown fences are tolerated and the outermost JSON object is extracted
// before decoding; every field is then checked against the fixed tag sets.
func parseDecision(raw string) (Decision, error) {
	jsonText := strings.TrimSpace(raw)
	jsonText = strings.TrimPrefix(jsonText, "```json")
	jsonText = strings.TrimPrefix(jsonText, "```")
	jsonText = strings.TrimSuffix(jsonText, "```")
	jsonText = strings.TrimSpace(jsonText)
	if start, end := strings.Index(jsonText, "{"), strings.LastIndex(jsonText, "}"); start >= 0 && end > start {
		jsonText = jsonText[start : end+1]
	}

	var wire struct {
		Text          string `json:"text"`
		DetectedAgent string `json:"detectedAgent"`
		Action        string `json:"action"`
		EntityID      string `json:"entityId"`
	}
	if err := json.Unmarshal([]byte(jsonText), &wire); err != nil {
		return Decision{}, &parseError{reason: "invalid JSON: " + err.Error()}
	}

	if strings.TrimSpace(wire.Text) == "" {
		return Decision{}, &parseError{reason: "missing required text field"}
	}
	agent, ok := ParseAgentTag(wire.DetectedAgent)
	if !ok {
		return Decision{}, &parseError{reason: "unknown agent tag " + wire.DetectedAgent}
	}
	action, ok := ParseActionTag(wire.Action)
	if !ok {
		return Decision{}, &parseError{reason: "unknown action tag " + wire.Action}
	}

	return Decision{
		Text:     strings.TrimSpace(wire.Text),
		Agent:    agent,
		Action:   action,
		EntityID: strings.TrimSpace(wire.EntityID),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
