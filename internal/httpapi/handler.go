package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wibisono/ais-console/internal/conversation"
	"github.com/wibisono/ais-console/internal/dataview"
	"github.com/wibisono/ais-console/internal/hospital"
	"github.com/wibisono/ais-console/internal/routing"
	"github.com/wibisono/ais-console/pkg/logging"
)

// Handler wires HTTP requests to the conversation sessions and the data
// view renderer.
type Handler struct {
	sessions     *conversation.Manager
	repo         hospital.Repository
	logger       *logging.Logger
	historyLimit int
}

// NewHandler creates the chat API handler.
func NewHandler(sessions *conversation.Manager, repo hospital.Repository, historyLimit int, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		sessions:     sessions,
		repo:         repo,
		logger:       logger,
		historyLimit: historyLimit,
	}
}

// CreateSession handles POST /chat/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Create()
	h.writeJSON(w, http.StatusCreated, s.Snapshot())
}

// Message handles POST /chat/message: one conversation turn.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s, err := h.sessions.Get(req.SessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	turn, err := s.Submit(r.Context(), req.Text)
	switch {
	case errors.Is(err, conversation.ErrEmptyMessage):
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	case errors.Is(err, conversation.ErrTurnInFlight):
		http.Error(w, "a turn is already in flight", http.StatusConflict)
		return
	case err != nil:
		h.logger.Error("chat: turn failed", "error", err)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, struct {
		SessionID string `json:"session_id"`
		conversation.Turn
	}{SessionID: s.ID(), Turn: turn})
}

// History handles GET /chat/history?session=.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromQuery(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, struct {
		SessionID string                 `json:"session_id"`
		Messages  []conversation.Message `json:"messages"`
	}{SessionID: s.ID(), Messages: s.History(h.historyLimit)})
}

// SelectAgent handles POST /chat/agent: manual navigation to a desk. This
// always clears the active filter.
func (h *Handler) SelectAgent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Agent     string `json:"agent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s, err := h.sessions.Get(req.SessionID)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	tag, ok := routing.ParseAgentTag(req.Agent)
	if !ok {
		http.Error(w, "unknown agent tag", http.StatusBadRequest)
		return
	}

	s.SelectAgent(tag)
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

// ClearFilter handles DELETE /chat/filter?session=.
func (h *Handler) ClearFilter(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromQuery(w, r)
	if !ok {
		return
	}
	s.ClearFilter()
	h.writeJSON(w, http.StatusOK, s.Snapshot())
}

// View handles GET /chat/view?session=: the rendered data table for the
// session's current (agent, filter) pair.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	s, ok := h.sessionFromQuery(w, r)
	if !ok {
		return
	}

	state := s.Snapshot()
	view, err := dataview.Render(r.Context(), state.Agent, state.Filter, h.repo)
	if err != nil {
		h.logger.Error("chat: view render failed", "error", err)
		http.Error(w, "failed to render view", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) sessionFromQuery(w http.ResponseWriter, r *http.Request) (*conversation.Session, bool) {
	id := r.URL.Query().Get("session")
	if id == "" {
		http.Error(w, "session query parameter is required", http.StatusBadRequest)
		return nil, false
	}
	s, err := h.sessions.Get(id)
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("chat: failed to write JSON response", "error", err)
	}
}
