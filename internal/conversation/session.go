package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/wibisono/ais-console/internal/hospital"
	"github.com/wibisono/ais-console/internal/routing"
	"github.com/wibisono/ais-console/pkg/logging"
)

var (
	// ErrEmptyMessage rejects blank submissions. No state changes.
	ErrEmptyMessage = errors.New("conversation: message is empty")
	// ErrTurnInFlight rejects a submission while a routing decision is
	// still pending. Only one request may be in flight per session.
	ErrTurnInFlight = errors.New("conversation: a turn is already in flight")
)

const (
	systemBootText = "System initialized. AIS Core Online."

	defaultGreeting = "Hello. I am the Hospital System Coordinator. I can assist you with Patient Management, Appointments, Medical Records (RME), or Billing. How can I help you today?"

	routingErrorNotice = "Error communicating with routing model."
)

// Decider is the routing dependency. Route never fails; failures arrive as
// the fallback decision.
type Decider interface {
	Route(ctx context.Context, utterance, contextSummary string) routing.Decision
}

// Session owns one conversation: the ordered message log, the currently
// selected agent, and the active entity filter. It alternates between idle
// and awaiting-routing-decision; the in-flight gate guarantees at most one
// routing call at a time.
type Session struct {
	id     string
	router Decider
	repo   hospital.Repository
	logger *logging.Logger

	mu       sync.Mutex
	messages []Message
	agent    routing.AgentTag
	filter   string
	inFlight bool
}

// State is a read-only snapshot of a session, consumed once per render.
type State struct {
	SessionID string           `json:"session_id"`
	Messages  []Message        `json:"messages"`
	Agent     routing.AgentTag `json:"agent"`
	Filter    string           `json:"filter"`
	InFlight  bool             `json:"in_flight"`
}

// Turn is the outcome of one accepted submission. Notice is set only on
// fallback turns, carrying the system message appended after the reply.
type Turn struct {
	UserMessage  Message          `json:"user_message"`
	ModelMessage Message          `json:"model_message"`
	Notice       *Message         `json:"notice,omitempty"`
	Decision     routing.Decision `json:"decision"`
	Agent        routing.AgentTag `json:"agent"`
	Filter       string           `json:"filter"`
}

// NewSession seeds the log with the boot notice and the coordinator
// greeting, both dated at construction time.
func NewSession(id string, router Decider, repo hospital.Repository, greeting string, logger *logging.Logger) *Session {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(greeting) == "" {
		greeting = defaultGreeting
	}
	return &Session{
		id:     id,
		router: router,
		repo:   repo,
		logger: logger,
		messages: []Message{
			newMessage(RoleSystem, systemBootText, ""),
			newMessage(RoleModel, greeting, routing.AgentCoordinator),
		},
		agent: routing.AgentCoordinator,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Submit runs one conversation turn: append the user message, ask the
// router, apply the decision. Blank input and double submission are
// rejected with no state change.
func (s *Session) Submit(ctx context.Context, text string) (Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Turn{}, ErrTurnInFlight
	}
	s.inFlight = true
	userMsg := newMessage(RoleUser, text, "")
	s.messages = append(s.messages, userMsg)
	s.mu.Unlock()

	// Context summary is rebuilt fresh each turn; it is the model's only
	// situational grounding.
	summary, err := s.repo.ContextSummary(ctx)
	if err != nil {
		s.logger.Warn("conversation: context summary unavailable", "session_id", s.id, "error", err)
		summary = ""
	}

	decision := s.router.Route(ctx, text, summary)

	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.inFlight = false }()

	modelMsg := newMessage(RoleModel, decision.Text, decision.Agent)
	s.messages = append(s.messages, modelMsg)
	s.agent = decision.Agent
	if decision.EntityID != "" {
		// An entity reference scopes the data view. A NONE turn with no
		// entity leaves the existing filter untouched; it is never
		// implicitly cleared.
		s.filter = decision.EntityID
	}
	var notice *Message
	if decision.Fallback {
		n := newMessage(RoleSystem, routingErrorNotice, "")
		s.messages = append(s.messages, n)
		notice = &n
	}

	s.logger.Info("conversation: turn completed",
		"session_id", s.id,
		"agent", decision.Agent,
		"action", decision.Action,
		"entity_id", decision.EntityID,
		"fallback", decision.Fallback,
	)

	return Turn{
		UserMessage:  userMsg,
		ModelMessage: modelMsg,
		Notice:       notice,
		Decision:     decision,
		Agent:        s.agent,
		Filter:       s.filter,
	}, nil
}

// SelectAgent is direct user navigation, bypassing the model. Manual
// switching always clears the entity filter: the user is starting a fresh
// view.
func (s *Session) SelectAgent(tag routing.AgentTag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agent = tag
	s.filter = ""
}

// ClearFilter drops the active entity filter without changing the agent.
func (s *Session) ClearFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = ""
}

// Snapshot returns a copy of the session state for rendering.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		SessionID: s.id,
		Messages:  append([]Message(nil), s.messages...),
		Agent:     s.agent,
		Filter:    s.filter,
		InFlight:  s.inFlight,
	}
}

// History returns up to limit most recent messages (all when limit <= 0).
func (s *Session) History(limit int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]Message(nil), msgs...)
}
