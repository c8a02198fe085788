package routing

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wibisono/ais-console/internal/observability/metrics"
	"github.com/wibisono/ais-console/pkg/logging"
)

// fakeClient returns a canned response or error and records the request.
type fakeClient struct {
	resp LLMResponse
	err  error
	last LLMRequest
}

func (f *fakeClient) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	f.last = req
	if f.err != nil {
		return LLMResponse{}, f.err
	}
	return f.resp, nil
}

// blockingClient hangs until the context is done.
type blockingClient struct{}

func (blockingClient) Complete(ctx context.Context, _ LLMRequest) (LLMResponse, error) {
	<-ctx.Done()
	return LLMResponse{}, ctx.Err()
}

func newTestRouter(client LLMClient) *Router {
	m := metrics.NewRoutingMetrics(prometheus.NewRegistry())
	return NewRouter(client, logging.NewWithWriter("error", io.Discard), m, Options{})
}

func TestRouteSuccess(t *testing.T) {
	client := &fakeClient{resp: LLMResponse{
		Text: `{"text":"Here is the clinical history for Budi Santoso.","detectedAgent":"MEDICAL_RECORDS","action":"VIEW_MEDICAL","entityId":"RM-2024-001"}`,
	}}
	r := newTestRouter(client)

	d := r.Route(context.Background(), "Check medical history for RM-2024-001", "Patients: Budi Santoso (RM-2024-001)")

	assert.Equal(t, AgentMedicalRecords, d.Agent)
	assert.Equal(t, ActionViewMedical, d.Action)
	assert.Equal(t, "RM-2024-001", d.EntityID)
	assert.False(t, d.Fallback)
	assert.Equal(t, "Here is the clinical history for Budi Santoso.", d.Text)

	// The system instruction carries both the policy and the context.
	require.Len(t, client.last.System, 1)
	assert.Contains(t, client.last.System[0], "Central Coordinator")
	assert.Contains(t, client.last.System[0], "Budi Santoso (RM-2024-001)")
	require.Len(t, client.last.Messages, 1)
	assert.Equal(t, ChatRoleUser, client.last.Messages[0].Role)
}

func TestRouteToleratesFencedJSON(t *testing.T) {
	client := &fakeClient{resp: LLMResponse{
		Text: "```json\n{\"text\":\"Done.\",\"detectedAgent\":\"BILLING\",\"action\":\"VIEW_BILLING\"}\n```",
	}}
	d := newTestRouter(client).Route(context.Background(), "show invoices", "")
	assert.Equal(t, AgentBilling, d.Agent)
	assert.Equal(t, ActionViewBilling, d.Action)
	assert.Empty(t, d.EntityID)
}

func TestRouteExtractsEmbeddedJSON(t *testing.T) {
	client := &fakeClient{resp: LLMResponse{
		Text: `Sure! {"text":"Schedule below.","detectedAgent":"APPOINTMENT_SCHEDULING","action":"VIEW_SCHEDULE"} hope that helps`,
	}}
	d := newTestRouter(client).Route(context.Background(), "what is booked", "")
	assert.Equal(t, AgentAppointmentScheduling, d.Agent)
	assert.Equal(t, ActionViewSchedule, d.Action)
}

func TestRouteToleratesTrailingProse(t *testing.T) {
	client := &fakeClient{resp: LLMResponse{
		Text: `{"text":"Invoices below.","detectedAgent":"BILLING","action":"VIEW_BILLING"} Let me know if you need anything else.`,
	}}
	d := newTestRouter(client).Route(context.Background(), "show invoices", "")
	assert.Equal(t, AgentBilling, d.Agent)
	assert.False(t, d.Fallback)
}

func TestRouteFallbackPaths(t *testing.T) {
	tests := []struct {
		name   string
		client LLMClient
	}{
		{"transport error", &fakeClient{err: errors.New("connection refused")}},
		{"empty body", &fakeClient{resp: LLMResponse{Text: "   "}}},
		{"invalid JSON", &fakeClient{resp: LLMResponse{Text: "not json at all"}}},
		{"missing text", &fakeClient{resp: LLMResponse{Text: `{"detectedAgent":"BILLING","action":"NONE"}`}}},
		{"unknown agent tag", &fakeClient{resp: LLMResponse{Text: `{"text":"ok","detectedAgent":"PHARMACY","action":"NONE"}`}}},
		{"unknown action tag", &fakeClient{resp: LLMResponse{Text: `{"text":"ok","detectedAgent":"BILLING","action":"VIEW_EVERYTHING"}`}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestRouter(tt.client).Route(context.Background(), "hello", "")
			assert.Equal(t, FallbackDecision(), d)
		})
	}
}

func TestRouteTimeoutForcesFallback(t *testing.T) {
	m := metrics.NewRoutingMetrics(prometheus.NewRegistry())
	r := NewRouter(blockingClient{}, logging.NewWithWriter("error", io.Discard), m, Options{Timeout: 20 * time.Millisecond})

	done := make(chan Decision, 1)
	go func() { done <- r.Route(context.Background(), "hello", "") }()

	select {
	case d := <-done:
		assert.Equal(t, FallbackDecision(), d)
	case <-time.After(2 * time.Second):
		t.Fatal("routing call did not respect its timeout")
	}
}

func TestParseAgentTag(t *testing.T) {
	tests := []struct {
		raw  string
		want AgentTag
		ok   bool
	}{
		{"MEDICAL_RECORDS", AgentMedicalRecords, true},
		{"billing", AgentBilling, true},
		{" coordinator ", AgentCoordinator, true},
		{"RADIOLOGY", AgentCoordinator, false},
		{"", AgentCoordinator, false},
	}
	for _, tt := range tests {
		got, ok := ParseAgentTag(tt.raw)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
		assert.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
	}
}

func TestParseActionTag(t *testing.T) {
	got, ok := ParseActionTag("view_patient")
	assert.True(t, ok)
	assert.Equal(t, ActionViewPatient, got)

	got, ok = ParseActionTag("DELETE_ALL")
	assert.False(t, ok)
	assert.Equal(t, ActionNone, got)
}

func TestFallbackDecisionShape(t *testing.T) {
	d := FallbackDecision()
	assert.Equal(t, AgentCoordinator, d.Agent)
	assert.Equal(t, ActionNone, d.Action)
	assert.Empty(t, d.EntityID)
	assert.True(t, d.Fallback)
	assert.NotEmpty(t, d.Text)
}
