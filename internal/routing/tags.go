package routing

import "strings"

// AgentTag classifies which specialist desk should handle a request. It is
// a routing label, not a separate running process.
type AgentTag string

const (
	AgentCoordinator           AgentTag = "COORDINATOR"
	AgentPatientManagement     AgentTag = "PATIENT_MANAGEMENT"
	AgentAppointmentScheduling AgentTag = "APPOINTMENT_SCHEDULING"
	AgentMedicalRecords        AgentTag = "MEDICAL_RECORDS"
	AgentBilling               AgentTag = "BILLING"
)

// ActionTag is the UI action the model may request when the user wants to
// see data rather than just ask a question.
type ActionTag string

const (
	ActionViewPatient  ActionTag = "VIEW_PATIENT"
	ActionViewBilling  ActionTag = "VIEW_BILLING"
	ActionViewSchedule ActionTag = "VIEW_SCHEDULE"
	ActionViewMedical  ActionTag = "VIEW_MEDICAL"
	ActionNone         ActionTag = "NONE"
)

// ParseAgentTag validates a raw model value against the five fixed agent
// tags. The model's output is not formally guaranteed to satisfy the
// requested schema, so nothing is trusted until it parses.
func ParseAgentTag(raw string) (AgentTag, bool) {
	switch AgentTag(strings.ToUpper(strings.TrimSpace(raw))) {
	case AgentCoordinator:
		return AgentCoordinator, true
	case AgentPatientManagement:
		return AgentPatientManagement, true
	case AgentAppointmentScheduling:
		return AgentAppointmentScheduling, true
	case AgentMedicalRecords:
		return AgentMedicalRecords, true
	case AgentBilling:
		return AgentBilling, true
	}
	return AgentCoordinator, false
}

// ParseActionTag validates a raw model value against the five fixed action
// tags.
func ParseActionTag(raw string) (ActionTag, bool) {
	switch ActionTag(strings.ToUpper(strings.TrimSpace(raw))) {
	case ActionViewPatient:
		return ActionViewPatient, true
	case ActionViewBilling:
		return ActionViewBilling, true
	case ActionViewSchedule:
		return ActionViewSchedule, true
	case ActionViewMedical:
		return ActionViewMedical, true
	case ActionNone:
		return ActionNone, true
	}
	return ActionNone, false
}

// Decision is the interpreted result of one routing model call. It drives
// both the chat reply and the data-view selection for the turn.
type Decision struct {
	Text     string    `json:"text"`
	Agent    AgentTag  `json:"detected_agent"`
	Action   ActionTag `json:"action"`
	EntityID string    `json:"entity_id,omitempty"`

	// Fallback marks a decision produced by the error path rather than
	// the model.
	Fallback bool `json:"fallback,omitempty"`
}

const fallbackText = "I apologize, but I'm having trouble connecting to the central server. Please try again."

// FallbackDecision is the fixed value returned for every transport, parse,
// or schema failure. Callers never see a malformed or partially-filled
// decision.
func FallbackDecision() Decision {
	return Decision{
		Text:     fallbackText,
		Agent:    AgentCoordinator,
		Action:   ActionNone,
		Fallback: true,
	}
}
