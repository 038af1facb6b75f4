// Package models holds server-only persistence types. Wire types shared with
// the device live in internal/models.
package models

import "time"

// Mechanic is a shop employee allowed to submit inspections.
type Mechanic struct {
	ID      int64
	Name    string
	PINHash []byte
	// CompanyID is zero for a mechanic not attached to a shop.
	CompanyID int64
	CreatedAt time.Time
}
