package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"github.com/wibisono/ais-console/internal/conversation"
	"github.com/wibisono/ais-console/internal/dataview"
	"github.com/wibisono/ais-console/internal/routing"
)

// InboundEvent is what the chat page sends over the socket.
type InboundEvent struct {
	Type      string `json:"type"` // "message", "select_agent", "clear_filter", "ping"
	SessionID string `json:"session_id,omitempty"`
	Text      string `json:"text,omitempty"`
	Agent     string `json:"agent,omitempty"`
}

// OutboundEvent is what the server pushes to the chat page.
type OutboundEvent struct {
	Type      string                 `json:"type"` // "session", "history", "typing", "message", "view", "error", "pong"
	SessionID string                 `json:"session_id,omitempty"`
	Text      string                 `json:"text,omitempty"`
	Messages  []conversation.Message `json:"messages,omitempty"`
	Message   *conversation.Message  `json:"message,omitempty"`
	Agent     routing.AgentTag       `json:"agent,omitempty"`
	Filter    string                 `json:"filter,omitempty"`
	View      *dataview.View         `json:"view,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
}

// HandleWebSocket upgrades to WebSocket and drives one live chat session.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	s := h.sessions.GetOrCreate(r.URL.Query().Get("session"))

	state := s.Snapshot()
	_ = websocket.JSON.Send(conn, OutboundEvent{
		Type:      "session",
		SessionID: s.ID(),
		Agent:     state.Agent,
		Filter:    state.Filter,
	})
	_ = websocket.JSON.Send(conn, OutboundEvent{
		Type:      "history",
		SessionID: s.ID(),
		Messages:  state.Messages,
	})

	h.logger.Info("chat: websocket opened", "session_id", s.ID())

	for {
		var evt InboundEvent
		if err := websocket.JSON.Receive(conn, &evt); err != nil {
			h.logger.Debug("chat: websocket closed", "session_id", s.ID(), "error", err)
			return
		}

		switch evt.Type {
		case "ping":
			_ = websocket.JSON.Send(conn, OutboundEvent{Type: "pong"})
		case "select_agent":
			tag, ok := routing.ParseAgentTag(evt.Agent)
			if !ok {
				_ = websocket.JSON.Send(conn, OutboundEvent{Type: "error", Text: "unknown agent tag"})
				continue
			}
			s.SelectAgent(tag)
			h.pushView(r.Context(), conn, s)
		case "clear_filter":
			s.ClearFilter()
			h.pushView(r.Context(), conn, s)
		case "message":
			if strings.TrimSpace(evt.Text) == "" {
				continue
			}
			h.processWSMessage(r.Context(), conn, s, evt.Text)
		}
	}
}

func (h *Handler) processWSMessage(ctx context.Context, conn *websocket.Conn, s *conversation.Session, text string) {
	_ = websocket.JSON.Send(conn, OutboundEvent{Type: "typing"})

	turn, err := s.Submit(ctx, text)
	switch {
	case errors.Is(err, conversation.ErrEmptyMessage):
		return
	case errors.Is(err, conversation.ErrTurnInFlight):
		_ = websocket.JSON.Send(conn, OutboundEvent{
			Type: "error",
			Text: "Please wait for the current reply before sending another message.",
		})
		return
	case err != nil:
		h.logger.Error("chat: websocket turn failed", "session_id", s.ID(), "error", err)
		_ = websocket.JSON.Send(conn, OutboundEvent{
			Type: "error",
			Text: "Sorry, something went wrong. Please try again.",
		})
		return
	}

	_ = websocket.JSON.Send(conn, OutboundEvent{
		Type:      "message",
		SessionID: s.ID(),
		Message:   &turn.ModelMessage,
		Agent:     turn.Agent,
		Filter:    turn.Filter,
		Timestamp: turn.ModelMessage.Timestamp.Format(time.RFC3339),
	})
	if turn.Notice != nil {
		// Fallback turns append a system notice; stream it so the client
		// sees it without refetching history.
		_ = websocket.JSON.Send(conn, OutboundEvent{
			Type:      "message",
			SessionID: s.ID(),
			Message:   turn.Notice,
			Agent:     turn.Agent,
			Filter:    turn.Filter,
			Timestamp: turn.Notice.Timestamp.Format(time.RFC3339),
		})
	}
	h.pushView(ctx, conn, s)
}

// pushView re-derives the data view after any state change and streams it
// alongside the chat reply.
func (h *Handler) pushView(ctx context.Context, conn *websocket.Conn, s *conversation.Session) {
	state := s.Snapshot()
	view, err := dataview.Render(ctx, state.Agent, state.Filter, h.repo)
	if err != nil {
		h.logger.Error("chat: view render failed", "session_id", s.ID(), "error", err)
		return
	}
	_ = websocket.JSON.Send(conn, OutboundEvent{
		Type:      "view",
		SessionID: s.ID(),
		Agent:     state.Agent,
		Filter:    state.Filter,
		View:      &view,
	})
}
