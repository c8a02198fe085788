package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wibisono/ais-console/internal/conversation"
	"github.com/wibisono/ais-console/internal/dataview"
	"github.com/wibisono/ais-console/internal/hospital"
	"github.com/wibisono/ais-console/internal/routing"
	"github.com/wibisono/ais-console/pkg/logging"
)

// scriptedRouter returns queued decisions in order, then falls back.
type scriptedRouter struct {
	decisions []routing.Decision
	calls     int
}

func (r *scriptedRouter) Route(context.Context, string, string) routing.Decision {
	if r.calls < len(r.decisions) {
		d := r.decisions[r.calls]
		r.calls++
		return d
	}
	r.calls++
	return routing.FallbackDecision()
}

func newTestHandler(decisions ...routing.Decision) (*Handler, *conversation.Manager) {
	logger := logging.NewWithWriter("error", io.Discard)
	repo := hospital.Seed()
	manager := conversation.NewManager(&scriptedRouter{decisions: decisions}, repo, "", logger)
	return NewHandler(manager, repo, 200, logger), manager
}

func TestCreateSession(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/chat/sessions", nil)
	w := httptest.NewRecorder()
	h.CreateSession(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var state conversation.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.NotEmpty(t, state.SessionID)
	assert.Equal(t, routing.AgentCoordinator, state.Agent)
	require.Len(t, state.Messages, 2)
	assert.Equal(t, conversation.RoleSystem, state.Messages[0].Role)
}

func TestMessageTurn(t *testing.T) {
	h, manager := newTestHandler(routing.Decision{
		Text:     "Here is the clinical history for Budi Santoso.",
		Agent:    routing.AgentMedicalRecords,
		Action:   routing.ActionViewMedical,
		EntityID: "RM-2024-001",
	})
	s := manager.Create()

	body := `{"session_id":"` + s.ID() + `","text":"Check medical history for RM-2024-001"}`
	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.Message(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		SessionID string `json:"session_id"`
		conversation.Turn
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, s.ID(), resp.SessionID)
	assert.Equal(t, routing.AgentMedicalRecords, resp.Agent)
	assert.Equal(t, "RM-2024-001", resp.Filter)
	assert.Equal(t, conversation.RoleModel, resp.ModelMessage.Role)

	state := s.Snapshot()
	assert.Equal(t, routing.AgentMedicalRecords, state.Agent)
	assert.Equal(t, "RM-2024-001", state.Filter)
}

func TestMessageRejectsBlankText(t *testing.T) {
	h, manager := newTestHandler()
	s := manager.Create()
	before := len(s.Snapshot().Messages)

	body := `{"session_id":"` + s.ID() + `","text":"   "}`
	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Message(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, before, len(s.Snapshot().Messages))
}

func TestMessageUnknownSession(t *testing.T) {
	h, _ := newTestHandler()

	body := `{"session_id":"missing","text":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Message(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	h, manager := newTestHandler()
	s := manager.Create()

	req := httptest.NewRequest(http.MethodGet, "/chat/history?session="+s.ID(), nil)
	w := httptest.NewRecorder()
	h.History(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		SessionID string                 `json:"session_id"`
		Messages  []conversation.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Messages, 2)
}

func TestHistoryRequiresSessionParam(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	w := httptest.NewRecorder()
	h.History(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/chat/history?session=missing", nil)
	w = httptest.NewRecorder()
	h.History(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSelectAgentClearsFilter(t *testing.T) {
	h, manager := newTestHandler(routing.Decision{
		Text:     "ok",
		Agent:    routing.AgentBilling,
		EntityID: "RM-2024-001",
	})
	s := manager.Create()
	_, err := s.Submit(context.Background(), "invoice for budi")
	require.NoError(t, err)
	require.Equal(t, "RM-2024-001", s.Snapshot().Filter)

	body := `{"session_id":"` + s.ID() + `","agent":"PATIENT_MANAGEMENT"}`
	req := httptest.NewRequest(http.MethodPost, "/chat/agent", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.SelectAgent(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var state conversation.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, routing.AgentPatientManagement, state.Agent)
	assert.Empty(t, state.Filter)
}

func TestSelectAgentRejectsUnknownTag(t *testing.T) {
	h, manager := newTestHandler()
	s := manager.Create()

	body := `{"session_id":"` + s.ID() + `","agent":"PHARMACY"}`
	req := httptest.NewRequest(http.MethodPost, "/chat/agent", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.SelectAgent(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearFilterEndpoint(t *testing.T) {
	h, manager := newTestHandler(routing.Decision{
		Text:     "ok",
		Agent:    routing.AgentMedicalRecords,
		EntityID: "RM-2024-001",
	})
	s := manager.Create()
	_, err := s.Submit(context.Background(), "history for budi")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/chat/filter?session="+s.ID(), nil)
	w := httptest.NewRecorder()
	h.ClearFilter(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var state conversation.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Empty(t, state.Filter)
	assert.Equal(t, routing.AgentMedicalRecords, state.Agent)
}

func TestViewEndpointFollowsSessionState(t *testing.T) {
	h, manager := newTestHandler(routing.Decision{
		Text:     "Here you go.",
		Agent:    routing.AgentMedicalRecords,
		Action:   routing.ActionViewMedical,
		EntityID: "RM-2024-001",
	})
	s := manager.Create()
	_, err := s.Submit(context.Background(), "Check medical history for RM-2024-001")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/chat/view?session="+s.ID(), nil)
	w := httptest.NewRecorder()
	h.View(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var view dataview.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, dataview.KindMedicalRecords, view.Kind)
	assert.True(t, view.Filtered)
	require.Len(t, view.MedicalRecords, 1)
	assert.Equal(t, "RM-2024-001", view.MedicalRecords[0].RecordNumber)
}

func TestRouterWiring(t *testing.T) {
	h, _ := newTestHandler()
	r := NewRouter(&RouterConfig{
		Logger:  logging.NewWithWriter("error", io.Discard),
		Handler: h,
	})

	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Post(srv.URL+"/chat/sessions", "application/json", nil)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusCreated, resp2.StatusCode)
}
