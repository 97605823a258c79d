package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Incident severities and statuses, as stored.
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

const (
	IncidentStatusOpen          = "Open"
	IncidentStatusInvestigating = "Investigating"
	IncidentStatusResolved      = "Resolved"
	IncidentStatusClosed        = "Closed"
)

var ErrIncidentNotFound = errors.New("incident not found")

// severityLevels maps severity labels to a numeric ordering for sorting.
var severityLevels = map[string]int{
	"low":      1,
	"medium":   2,
	"high":     3,
	"critical": 4,
}

// Incident is a recorded cybersecurity incident.
type Incident struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Date         string    `json:"date" bson:"date"`
	IncidentType string    `json:"incident_type" bson:"incident_type"`
	Severity     string    `json:"severity" bson:"severity"`
	Status       string    `json:"status" bson:"status"`
	Description  string    `json:"description" bson:"description"`
	ReportedBy   string    `json:"reported_by,omitempty" bson:"reported_by,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// SeverityLevel returns 1 (Low) to 4 (Critical), or 0 for unknown values.
func (i *Incident) SeverityLevel() int {
	return severityLevels[strings.ToLower(i.Severity)]
}

// IsCritical reports whether the incident carries Critical severity.
func (i *Incident) IsCritical() bool {
	return strings.EqualFold(i.Severity, SeverityCritical)
}

// IsOpen reports whether the incident still needs attention.
func (i *Incident) IsOpen() bool {
	s := strings.ToLower(i.Status)
	return s == "open" || s == "investigating"
}

// AIContext renders the incident as a plain-text block suitable for use as
// assistant context.
func (i *Incident) AIContext() string {
	reporter := i.ReportedBy
	if reporter == "" {
		reporter = "Unknown"
	}
	return fmt.Sprintf(
		"Incident Type: %s\nSeverity: %s\nStatus: %s\nDate: %s\nDescription: %s\nReported By: %s",
		i.IncidentType, i.Severity, i.Status, i.Date, i.Description, reporter,
	)
}
