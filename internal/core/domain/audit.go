package domain

import "time"

// Audit actions recorded by the platform.
const (
	AuditRegister        = "register"
	AuditLoginSuccess    = "login_success"
	AuditLoginFailure    = "login_failure"
	AuditPasswordChange  = "password_change"
	AuditRecordCreated   = "record_created"
	AuditRecordUpdated   = "record_updated"
	AuditAssistantPrompt = "assistant_prompt"
)

// AuditEvent is one entry in the platform audit trail.
type AuditEvent struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Username  string    `json:"username" bson:"username"`
	Action    string    `json:"action" bson:"action"`
	Domain    string    `json:"domain,omitempty" bson:"domain,omitempty"`
	Detail    string    `json:"detail,omitempty" bson:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}
