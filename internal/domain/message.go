package domain

// MessageType tags the envelope so receivers can route on it.
type MessageType string

const (
	MsgIncidentReport         MessageType = "incident_report"
	MsgHierarchicalReport     MessageType = "hierarchical_report"
	MsgEmergencyReport        MessageType = "emergency_report"
	MsgDrainageRequest        MessageType = "drainage_request"
	MsgTrafficCoordination    MessageType = "traffic_coordination"
	MsgTaskAssignment         MessageType = "task_assignment"
	MsgDirectCommand          MessageType = "direct_command"
	MsgHierarchicalAssignment MessageType = "hierarchical_assignment"
)

// Message is the envelope exchanged between agents. Delivery is synchronous
// and reliable; the transport never drops a message. From and Timestamp are
// stamped by the sender at send time.
type Message struct {
	Type      MessageType `json:"type"`
	From      string      `json:"from,omitempty"`
	Timestamp int         `json:"timestamp"`

	// Payload fields. Which ones are set depends on Type.
	TaskID       TaskID       `json:"task_id,omitempty"`
	Category     string       `json:"category,omitempty"` // raw label, parsed fail-soft by the consumer
	Location     string       `json:"location,omitempty"`
	WaterDepth   float64      `json:"water_depth,omitempty"`
	Urgency      float64      `json:"urgency,omitempty"`
	Priority     string       `json:"priority,omitempty"`
	ScenarioMode ScenarioMode `json:"scenario_mode,omitempty"`
}

// UrgencyOr returns the message urgency, falling back to def when the field
// was never set. Real urgencies are always at least 0.3, so zero means
// absent.
func (m Message) UrgencyOr(def float64) float64 {
	if m.Urgency <= 0 {
		return def
	}
	return m.Urgency
}

// LocationOr returns the message location, or def when empty.
func (m Message) LocationOr(def string) string {
	if m.Location == "" {
		return def
	}
	return m.Location
}
