package model

import (
	"net/mail"
	"strings"

	"github.com/rotisserie/eris"
)

// Priority ranks how valuable a lead is to pursue.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority converts a stored tag into a Priority. Unknown tags fail
// rather than defaulting, so bad upstream data is surfaced at the boundary.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s), nil
	default:
		return "", eris.Errorf("model: unknown priority %q", s)
	}
}

// Status tracks where a lead sits in the campaign lifecycle.
type Status string

const (
	StatusNew          Status = "new"
	StatusContacted    Status = "contacted"
	StatusResponded    Status = "responded"
	StatusConverted    Status = "converted"
	StatusUnresponsive Status = "unresponsive"
)

// ParseStatus converts a stored tag into a Status. Unknown tags fail.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusContacted, StatusResponded, StatusConverted, StatusUnresponsive:
		return Status(s), nil
	default:
		return "", eris.Errorf("model: unknown status %q", s)
	}
}

// ResponseCategory classifies an inbound reply from a lead.
type ResponseCategory string

const (
	ResponseInterested    ResponseCategory = "interested"
	ResponseNotInterested ResponseCategory = "not_interested"
	ResponseNeedsMoreInfo ResponseCategory = "needs_more_info"
	ResponseOutOfOffice   ResponseCategory = "out_of_office"
	ResponseUnsubscribe   ResponseCategory = "unsubscribe"
	ResponseNoResponse    ResponseCategory = "no_response"
)

// ParseResponseCategory converts a stored tag into a ResponseCategory.
// Unknown tags fail.
func ParseResponseCategory(s string) (ResponseCategory, error) {
	switch ResponseCategory(s) {
	case ResponseInterested, ResponseNotInterested, ResponseNeedsMoreInfo,
		ResponseOutOfOffice, ResponseUnsubscribe, ResponseNoResponse:
		return ResponseCategory(s), nil
	default:
		return "", eris.Errorf("model: unknown response category %q", s)
	}
}

// Lead is a single outreach target. The zero string is the only "unset"
// representation for optional fields; a zero PriorityScore means unscored.
type Lead struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Company     string `json:"company,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	Industry    string `json:"industry,omitempty"`
	CompanySize string `json:"company_size,omitempty"`
	Location    string `json:"location,omitempty"`

	// AI-derived fields.
	Persona        string   `json:"persona,omitempty"`
	Priority       Priority `json:"priority,omitempty"`
	PriorityScore  int      `json:"priority_score,omitempty"`
	PriorityReason string   `json:"priority_reason,omitempty"`

	// Campaign tracking.
	Status           Status           `json:"status"`
	EmailDraft       string           `json:"email_draft,omitempty"`
	ResponseCategory ResponseCategory `json:"response_category,omitempty"`
}

// Validate checks identity and address requirements for a lead.
func (l Lead) Validate() error {
	if l.ID <= 0 {
		return eris.Errorf("model: lead id %d is not positive", l.ID)
	}
	if strings.TrimSpace(l.Name) == "" {
		return eris.Errorf("model: lead %d has no name", l.ID)
	}
	if _, err := mail.ParseAddress(l.Email); err != nil {
		return eris.Wrapf(err, "model: lead %d email %q", l.ID, l.Email)
	}
	return nil
}

// FirstName returns the first whitespace-separated token of the lead's name,
// or the full name when it has no spaces.
func (l Lead) FirstName() string {
	fields := strings.Fields(l.Name)
	if len(fields) == 0 {
		return l.Name
	}
	return fields[0]
}

// NormalizeOptional collapses the textual junk that creeps into exported
// spreadsheets ("nan", "null", bare whitespace) into the single unset value.
func NormalizeOptional(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "n/a":
		return ""
	}
	return s
}
