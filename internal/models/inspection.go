// Package models defines the inspection submission payload shared by the
// mechanic client and the backend.
package models

import (
	"errors"
	"fmt"
	"time"
)

// Status is the verdict recorded for one inspected line item.
type Status string

const (
	StatusGreen  Status = "green"  // pass
	StatusYellow Status = "yellow" // monitor
	StatusRed    Status = "red"    // fail
	StatusNA     Status = "na"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusGreen, StatusYellow, StatusRed, StatusNA:
		return true
	}
	return false
}

// ParseStatus accepts the wire form and a few spoken aliases used at the
// prompt ("pass", "monitor", "fail").
func ParseStatus(s string) (Status, error) {
	switch s {
	case "pass":
		return StatusGreen, nil
	case "monitor":
		return StatusYellow, nil
	case "fail":
		return StatusRed, nil
	case "n/a":
		return StatusNA, nil
	}
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidSubmission, s)
	}
	return st, nil
}

var ErrInvalidSubmission = errors.New("invalid submission")

// InspectionResult is the outcome for one line item of a work order.
// Photo is either a local file reference (before upload) or a storage key.
type InspectionResult struct {
	LineItemID int64  `json:"lineItemId"`
	Status     Status `json:"status"`
	Reason     string `json:"reason,omitempty"`
	Photo      string `json:"photo,omitempty"`
}

// Submission is one finished inspection as queued on the device and posted
// to the backend. SubmissionID lets the backend drop replays.
type Submission struct {
	SubmissionID string             `json:"submissionId,omitempty"`
	OrderID      int64              `json:"orderId"`
	MechanicID   int64              `json:"mechanicId"`
	Items        []InspectionResult `json:"items"`
	CreatedAt    time.Time          `json:"createdAt,omitzero"`
}

// Validate applies the same rules as the backend's request validator.
func (s *Submission) Validate() error {
	if s.OrderID <= 0 {
		return fmt.Errorf("%w: orderId required", ErrInvalidSubmission)
	}
	if s.MechanicID <= 0 {
		return fmt.Errorf("%w: mechanicId required", ErrInvalidSubmission)
	}
	if s.Items == nil {
		return fmt.Errorf("%w: items required", ErrInvalidSubmission)
	}
	for i, it := range s.Items {
		if it.LineItemID <= 0 {
			return fmt.Errorf("%w: items[%d].lineItemId required", ErrInvalidSubmission, i)
		}
		if !it.Status.Valid() {
			return fmt.Errorf("%w: items[%d].status %q", ErrInvalidSubmission, i, it.Status)
		}
	}
	return nil
}

// Clone returns a deep copy, so the uploader can rewrite photo references
// without touching the queued payload.
func (s Submission) Clone() Submission {
	c := s
	if s.Items != nil {
		c.Items = make([]InspectionResult, len(s.Items))
		copy(c.Items, s.Items)
	}
	return c
}
