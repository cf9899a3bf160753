package models

import "time"

// ApplicationStatus is the lifecycle state of an application.
type ApplicationStatus string

const (
	StatusApplied         ApplicationStatus = "applied"
	StatusConfirmed       ApplicationStatus = "confirmed"
	StatusPaid            ApplicationStatus = "paid"
	StatusCheckedIn       ApplicationStatus = "checked-in"
	StatusRefundRequested ApplicationStatus = "refund-requested"
	StatusRefundCompleted ApplicationStatus = "refund-completed"
	StatusCancelled       ApplicationStatus = "cancelled"
)

var transitions = map[ApplicationStatus][]ApplicationStatus{
	StatusApplied:         {StatusConfirmed, StatusPaid, StatusCancelled, StatusRefundRequested},
	StatusConfirmed:       {StatusPaid, StatusCancelled, StatusRefundRequested},
	StatusPaid:            {StatusCheckedIn, StatusRefundRequested},
	StatusRefundRequested: {StatusRefundCompleted, StatusCancelled, StatusPaid},
	StatusCheckedIn:       nil,
	StatusRefundCompleted: nil,
	StatusCancelled:       nil,
}

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether an application may move from one status to
// another. Staying in the same status is always allowed.
func CanTransition(from, to ApplicationStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether the applicant may still request a refund.
func (s ApplicationStatus) Cancellable() bool {
	return s == StatusApplied || s == StatusConfirmed || s == StatusPaid
}

// Reviewable reports whether an application in this status entitles the
// applicant to review the item once it has ended.
func (s ApplicationStatus) Reviewable() bool {
	return s == StatusPaid || s == StatusCheckedIn
}

// Application is a user's request to join an item
type Application struct {
	ID            int64             `json:"id"`
	UserID        string            `json:"user_id"`
	ItemID        int64             `json:"item_id"`
	Status        ApplicationStatus `json:"status"`
	RefundAccount string            `json:"refund_account,omitempty"`
	RefundReason  string            `json:"refund_reason,omitempty"`
	UserName      string            `json:"user_name,omitempty"`
	UserPhone     string            `json:"user_phone,omitempty"`
	AppliedAt     time.Time         `json:"applied_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ApplicationCreate is the request body for applying to an item
type ApplicationCreate struct {
	RefundAccount string `json:"refund_account"`
	UserName      string `json:"user_name"`
	UserPhone     string `json:"user_phone"`
}

// ApplicationCancel is the request body for a refund request
type ApplicationCancel struct {
	Reason  string `json:"reason"`
	Account string `json:"account"`
}

// StatusChange is the request body for a host changing an applicant's status
type StatusChange struct {
	Status ApplicationStatus `json:"status"`
}
