package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Ticket priorities. The labels coincide with incident severities but the
// two vocabularies are owned independently.
const (
	TicketPriorityLow      = "Low"
	TicketPriorityMedium   = "Medium"
	TicketPriorityHigh     = "High"
	TicketPriorityCritical = "Critical"
)

const (
	TicketStatusOpen       = "Open"
	TicketStatusInProgress = "In Progress"
	TicketStatusResolved   = "Resolved"
	TicketStatusClosed     = "Closed"
)

var ErrTicketNotFound = errors.New("ticket not found")

// Ticket is an IT support ticket.
type Ticket struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	TicketID     string    `json:"ticket_id" bson:"ticket_id"`
	Priority     string    `json:"priority" bson:"priority"`
	Status       string    `json:"status" bson:"status"`
	Category     string    `json:"category" bson:"category"`
	Subject      string    `json:"subject" bson:"subject"`
	Description  string    `json:"description" bson:"description"`
	CreatedDate  string    `json:"created_date" bson:"created_date"`
	ResolvedDate string    `json:"resolved_date,omitempty" bson:"resolved_date,omitempty"`
	AssignedTo   string    `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// PriorityLevel returns 1 (Low) to 4 (Critical), or 0 for unknown values.
func (t *Ticket) PriorityLevel() int {
	return severityLevels[strings.ToLower(t.Priority)]
}

// IsCritical reports whether the ticket carries Critical priority.
func (t *Ticket) IsCritical() bool {
	return strings.EqualFold(t.Priority, TicketPriorityCritical)
}

// IsOpen reports whether the ticket is still being worked.
func (t *Ticket) IsOpen() bool {
	s := strings.ToLower(t.Status)
	return s == "open" || s == "in progress"
}

// IsAssigned reports whether the ticket has an assignee.
func (t *Ticket) IsAssigned() bool {
	return t.AssignedTo != ""
}

// AIContext renders the ticket as assistant context.
func (t *Ticket) AIContext() string {
	assignee := t.AssignedTo
	if assignee == "" {
		assignee = "Unassigned"
	}
	return fmt.Sprintf(
		"Ticket: %s\nPriority: %s\nStatus: %s\nCategory: %s\nSubject: %s\nDescription: %s\nCreated: %s\nAssigned To: %s",
		t.TicketID, t.Priority, t.Status, t.Category, t.Subject, t.Description, t.CreatedDate, assignee,
	)
}
