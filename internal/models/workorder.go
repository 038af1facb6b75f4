package models

import (
	"strings"
	"time"
)

// Work order statuses the shop system uses for finished estimates. Any
// other value is an open order still assignable to a mechanic.
const (
	WorkOrderInvoiced = 4
	WorkOrderClosed   = 5
)

// WorkOrder is an estimate assigned to a mechanic, with the vehicle to
// inspect.
type WorkOrder struct {
	ID         int64     `json:"workOrderId"`
	MechanicID int64     `json:"mechanicId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	CarYear    string    `json:"carYear"`
	Make       string    `json:"make"`
	Model      string    `json:"model"`
	EngineType string    `json:"engineType,omitempty"`
	License    string    `json:"license"`
	Status     int       `json:"status"`
	Date       time.Time `json:"date"`
}

// Open reports whether the order still needs work.
func (w WorkOrder) Open() bool {
	return w.Status != WorkOrderInvoiced && w.Status != WorkOrderClosed
}

// Vehicle renders "2015 Honda Civic (ABC123)".
func (w WorkOrder) Vehicle() string {
	s := strings.Join(strings.Fields(w.CarYear+" "+w.Make+" "+w.Model), " ")
	if w.License != "" {
		s += " (" + w.License + ")"
	}
	return s
}

// Company is a shop location mechanics belong to.
type Company struct {
	ID   int64  `json:"companyId"`
	Name string `json:"name"`
}

// MechanicInfo is the public part of a mechanic, shown on the picker.
type MechanicInfo struct {
	ID        int64  `json:"mechanicId"`
	Name      string `json:"name"`
	CompanyID int64  `json:"companyId"`
}
