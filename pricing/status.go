package pricing

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a status change is not allowed.
var ErrInvalidTransition = errors.New("invalid status transition")

// Status is a document workflow state.
type Status string

const (
	StatusDraft        Status = "draft"
	StatusUnderReview  Status = "under_review"
	StatusApproved     Status = "approved"
	StatusSentToClient Status = "sent_to_client"
	StatusSent         Status = "sent"
	StatusAccepted     Status = "accepted"
	StatusRejected     Status = "rejected"
	StatusExpired      Status = "expired"
)

var boqFlow = map[Status][]Status{
	StatusDraft:        {StatusUnderReview},
	StatusUnderReview:  {StatusApproved, StatusDraft},
	StatusApproved:     {StatusSentToClient, StatusDraft},
	StatusSentToClient: {StatusAccepted, StatusRejected, StatusExpired},
	StatusAccepted:     {},
	StatusRejected:     {StatusDraft},
	StatusExpired:      {StatusDraft},
}

var quotationFlow = map[Status][]Status{
	StatusDraft:    {StatusSent},
	StatusSent:     {StatusAccepted, StatusRejected, StatusExpired, StatusDraft},
	StatusAccepted: {},
	StatusRejected: {StatusDraft},
	StatusExpired:  {StatusDraft},
}

// Statuses lists the workflow states of a model in display order.
func Statuses(model Model) []Status {
	if model == ModelQuotation {
		return []Status{StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired}
	}
	return []Status{
		StatusDraft, StatusUnderReview, StatusApproved, StatusSentToClient,
		StatusAccepted, StatusRejected, StatusExpired,
	}
}

// IsStatus reports whether s is a known status of the model.
func IsStatus(model Model, s Status) bool {
	_, ok := flow(model)[s]
	return ok
}

// NextStatuses returns the statuses reachable from s in one step.
func NextStatuses(model Model, s Status, strict bool) []Status {
	if !strict {
		var out []Status
		for _, st := range Statuses(model) {
			if st != s {
				out = append(out, st)
			}
		}
		return out
	}
	next := flow(model)[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// Transition checks a status change. Unknown statuses are always rejected.
// With strict unset any known status may follow any other.
func Transition(model Model, from, to Status, strict bool) error {
	if !IsStatus(model, to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if from == to {
		return nil
	}
	if !strict {
		return nil
	}
	if from == "" {
		from = StatusDraft
	}
	for _, st := range flow(model)[from] {
		if st == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// StatusLabel returns the display label of a status.
func StatusLabel(s Status) string {
	switch s {
	case StatusDraft:
		return "Draft"
	case StatusUnderReview:
		return "Under Review"
	case StatusApproved:
		return "Approved"
	case StatusSentToClient:
		return "Sent to Client"
	case StatusSent:
		return "Sent"
	case StatusAccepted:
		return "Accepted"
	case StatusRejected:
		return "Rejected"
	case StatusExpired:
		return "Expired"
	}
	return string(s)
}

func flow(model Model) map[Status][]Status {
	if model == ModelQuotation {
		return quotationFlow
	}
	return boqFlow
}
