package domain

import (
	"time"

	"rentacar-backend/internal/utils"
)

type RentalStatus string

const (
	RentalStatusPending     RentalStatus = "PENDING"
	RentalStatusActive      RentalStatus = "ACTIVE"
	RentalStatusCheckoutDue RentalStatus = "CHECKOUT_DUE"
	RentalStatusFinalized   RentalStatus = "FINALIZED"
	RentalStatusCancelled   RentalStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions are permitted from s.
// CHECKOUT_DUE is never stored, so only the two closing statuses qualify.
func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusFinalized || s == RentalStatusCancelled
}

type Rental struct {
	ID                int64        `json:"id"`
	ClientID          int64        `json:"client_id"`
	VehicleID         int64        `json:"vehicle_id"`
	EmployeeID        int64        `json:"employee_id"`
	ReservationID     *int64       `json:"reservation_id,omitempty"`
	StartDate         utils.Date   `json:"start_date"`
	EndDate           utils.Date   `json:"end_date"`
	BaseCostCents     int64        `json:"base_cost_cents"`
	TotalCostCents    int64        `json:"total_cost_cents"`
	Status            RentalStatus `json:"status"`
	Notes             string       `json:"notes"`
	InitialKm         int64        `json:"initial_km"`
	FinalKm           *int64       `json:"final_km,omitempty"`
	ClosingEmployeeID *int64       `json:"closing_employee_id,omitempty"`
	CancelReason      string       `json:"cancel_reason,omitempty"`
	CancelledOn       *utils.Date  `json:"cancelled_on,omitempty"`
	CancelledBy       *int64       `json:"cancelled_by,omitempty"`
	CreatedOn         time.Time    `json:"created_on"`
	UpdatedOn         time.Time    `json:"updated_on"`
}

// EffectiveStatus derives the rental's status as of the given date.
// Terminal statuses are sticky; everything else is computed from the
// stored date range, regardless of what label happens to be persisted.
func (r *Rental) EffectiveStatus(today utils.Date) RentalStatus {
	if r.Status.IsTerminal() {
		return r.Status
	}
	if today.Before(r.StartDate) {
		return RentalStatusPending
	}
	if !today.After(r.EndDate) {
		return RentalStatusActive
	}
	return RentalStatusCheckoutDue
}
