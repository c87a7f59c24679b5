package dto

// AuditEventMessage is the payload published on the internal audit topic.
// The consumer persists it as a system log row.
type AuditEventMessage struct {
	EventType string                 `json:"event_type"`
	Module    string                 `json:"module"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
}
