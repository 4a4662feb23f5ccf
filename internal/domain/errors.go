package domain

import (
	"fmt"
	"strings"

	"rentacar-backend/internal/utils"
)

type ConflictKind string

const (
	ConflictRental      ConflictKind = "RENTAL"
	ConflictMaintenance ConflictKind = "MAINTENANCE"
)

// Conflict identifies one interval that blocks a requested date range.
// EndDate is nil for maintenance windows that have no end date yet.
type Conflict struct {
	Kind      ConflictKind `json:"kind"`
	ID        int64        `json:"id"`
	StartDate utils.Date   `json:"start_date"`
	EndDate   *utils.Date  `json:"end_date,omitempty"`
}

func (c Conflict) String() string {
	end := "open"
	if c.EndDate != nil {
		end = c.EndDate.String()
	}
	return fmt.Sprintf("%s %d (%s to %s)", strings.ToLower(string(c.Kind)), c.ID, c.StartDate, end)
}

// ValidationError signals malformed or missing input. Recoverable by
// correcting the input and retrying.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError signals a missing rental or referenced entity.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func NewNotFoundError(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError carries every interval that overlaps the requested range so
// callers can render full conflict detail.
type ConflictError struct {
	VehicleID int64
	Conflicts []Conflict
}

func (e *ConflictError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = c.String()
	}
	return fmt.Sprintf("vehicle %d is not available in the requested period, conflicts with: %s",
		e.VehicleID, strings.Join(parts, ", "))
}

// StateError signals an operation attempted from an illegal rental status.
type StateError struct {
	RentalID  int64
	Status    RentalStatus
	Operation string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s rental %d in status %s", e.Operation, e.RentalID, e.Status)
}

// CancellationOutcome records the result of one cascading cancellation.
type CancellationOutcome struct {
	RentalID  int64  `json:"rental_id"`
	Cancelled bool   `json:"cancelled"`
	Reason    string `json:"reason,omitempty"`
}

// PartialFailure reports that some cascading cancellations failed while the
// triggering operation itself succeeded. The engine keeps processing the
// remaining rentals instead of aborting.
type PartialFailure struct {
	Outcomes []CancellationOutcome
}

// NewPartialFailure builds a PartialFailure from cascade outcomes, or nil
// when every cancellation went through.
func NewPartialFailure(outcomes []CancellationOutcome) *PartialFailure {
	for _, o := range outcomes {
		if !o.Cancelled {
			return &PartialFailure{Outcomes: outcomes}
		}
	}
	return nil
}

func (e *PartialFailure) Error() string {
	failed := 0
	for _, o := range e.Outcomes {
		if !o.Cancelled {
			failed++
		}
	}
	return fmt.Sprintf("%d of %d cascading cancellations failed", failed, len(e.Outcomes))
}
