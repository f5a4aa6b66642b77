// Package request provides the visitor request domain model, its approval
// state machine, and data access.
package request

import (
	"errors"
	"fmt"
	"time"
)

// Status is where a request is in the approval workflow.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// IsResolved reports whether the status is terminal.
func (s Status) IsResolved() bool {
	return s == StatusApproved || s == StatusRejected
}

// Action is an admin decision on a pending request.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// ParseAction converts a path or form value into an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionApprove, ActionReject:
		return Action(s), nil
	}
	return "", fmt.Errorf("unknown action: %q", s)
}

var (
	// ErrNotFound is returned when no request has the given ID.
	ErrNotFound = errors.New("request not found")
	// ErrInvalidTransition is returned when an action is applied to a resolved request.
	ErrInvalidTransition = errors.New("request is not pending")
)

// Transition returns the status an action moves a request to.
// Only pending requests can move; resolved requests are terminal.
func Transition(from Status, a Action) (Status, error) {
	if from != StatusPending {
		return from, fmt.Errorf("%w: status is %s", ErrInvalidTransition, from)
	}
	switch a {
	case ActionApprove:
		return StatusApproved, nil
	case ActionReject:
		return StatusRejected, nil
	}
	return from, fmt.Errorf("unknown action: %q", a)
}

// CommentFor is the admin comment recorded for a resulting status.
// Only the action name is stored; free-text feedback is not supported.
func CommentFor(s Status) string {
	return string(s)
}

// VisitorRequest is a request for a visitor pass.
type VisitorRequest struct {
	ID           string `json:"id,omitempty"`
	RequestedBy  string `json:"requested_by"`
	VisitorName  string `json:"visitor_name"`
	Contact      string `json:"contact"`
	VisitDate    string `json:"visit_date"` // YYYY-MM-DD, not validated
	Purpose      string `json:"purpose"`
	Status       Status `json:"status"`
	AdminComment string `json:"admin_comment"`
	Timestamp    string `json:"timestamp"` // creation time in IST, YYYY-MM-DD HH:MM
}

// Draft is what a requester fills in on the form.
type Draft struct {
	VisitorName string `json:"visitor_name"`
	Contact     string `json:"contact"`
	VisitDate   string `json:"visit_date"`
	Purpose     string `json:"purpose"`
}

// IST is Indian Standard Time. India observes no daylight saving, so a fixed
// zone is exact and does not depend on the host's tz database.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// TimestampLayout is the layout of VisitorRequest.Timestamp.
const TimestampLayout = "2006-01-02 15:04"

// FormatTimestamp renders t in IST using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.In(IST).Format(TimestampLayout)
}

// NewRecord builds the record a store persists for a submission.
// Status is always Pending and the admin comment always empty, whatever the caller sent.
func NewRecord(requestedBy string, d Draft, now time.Time) *VisitorRequest {
	return &VisitorRequest{
		RequestedBy:  requestedBy,
		VisitorName:  d.VisitorName,
		Contact:      d.Contact,
		VisitDate:    d.VisitDate,
		Purpose:      d.Purpose,
		Status:       StatusPending,
		AdminComment: "",
		Timestamp:    FormatTimestamp(now),
	}
}
