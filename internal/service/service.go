package service

import (
	"context"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

// Notifier is the interactive confirmation capability injected into the
// checkout flow. The HTTP layer answers Confirm from a request flag; batch
// callers use a non-interactive implementation.
type Notifier interface {
	Alert(msg string)
	Confirm(msg string) bool
}

// RentalDraft is a candidate booking submitted by a caller.
type RentalDraft struct {
	ClientID      int64
	VehicleID     int64
	EmployeeID    int64
	ReservationID *int64
	StartDate     string // yyyy-mm-dd
	EndDate       string // yyyy-mm-dd
	Notes         string
}

// RentalPatch carries partial edits; nil fields are left unchanged.
type RentalPatch struct {
	ClientID   *int64
	VehicleID  *int64
	EmployeeID *int64
	StartDate  *string
	EndDate    *string
	Notes      *string
}

type CheckoutInput struct {
	FinalKm           int64
	ClosingEmployeeID int64
	Notes             string
}

type CheckoutResult struct {
	Rental              *domain.Rental               `json:"rental"`
	DistanceKm          int64                        `json:"distance_km"`
	RequiresMaintenance bool                         `json:"requires_maintenance"`
	MaintenanceID       *int64                       `json:"maintenance_id,omitempty"`
	Cancellations       []domain.CancellationOutcome `json:"cancellations,omitempty"`
}

type CancelResult struct {
	Rental         *domain.Rental      `json:"rental"`
	PreviousStatus domain.RentalStatus `json:"previous_status"`
}

type AvailabilityResult struct {
	Available bool              `json:"available"`
	Conflicts []domain.Conflict `json:"conflicts"`
}

type MaintenanceDraft struct {
	VehicleID   int64
	StartDate   string
	EndDate     *string
	Kind        string
	Description string
	CostCents   int64
	EmployeeID  *int64
}

// MaintenanceCreateResult reports the record plus any future rentals the new
// window forced out.
type MaintenanceCreateResult struct {
	Maintenance   *domain.Maintenance          `json:"maintenance"`
	Cancellations []domain.CancellationOutcome `json:"cancellations,omitempty"`
}

// TriggerResult is the outcome of the post-checkout mileage evaluation.
type TriggerResult struct {
	MaintenanceCreated bool                         `json:"maintenance_created"`
	MaintenanceID      *int64                       `json:"maintenance_id,omitempty"`
	Cancellations      []domain.CancellationOutcome `json:"cancellations,omitempty"`
}

type RentalService interface {
	Create(ctx context.Context, draft RentalDraft) (*domain.Rental, error)
	Edit(ctx context.Context, id int64, patch RentalPatch) (*domain.Rental, error)
	Checkout(ctx context.Context, id int64, in CheckoutInput, notify Notifier) (*CheckoutResult, error)
	Cancel(ctx context.Context, id int64, reason string, employeeID int64) (*CancelResult, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*domain.Rental, error)
	List(ctx context.Context, filter repository.RentalFilter) ([]domain.Rental, error)
}

// RentalCanceller is the slice of the state machine the maintenance trigger
// needs for cascading cancellations.
type RentalCanceller interface {
	Cancel(ctx context.Context, id int64, reason string, employeeID int64) (*CancelResult, error)
}

type AvailabilityService interface {
	CheckAvailability(ctx context.Context, vehicleID int64, startStr, endStr string, excludeRentalID *int64) (*AvailabilityResult, error)
	// Conflicts is the parsed-dates form used by the state machine's
	// pre-checks.
	Conflicts(ctx context.Context, vehicleID int64, start, end utils.Date, excludeRentalID *int64) ([]domain.Conflict, error)
}

type MaintenanceService interface {
	Create(ctx context.Context, draft MaintenanceDraft) (*MaintenanceCreateResult, error)
	Get(ctx context.Context, id int64) (*domain.Maintenance, error)
	Update(ctx context.Context, id int64, draft MaintenanceDraft) (*domain.Maintenance, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter repository.MaintenanceFilter) ([]domain.Maintenance, error)
	EvaluatePostCheckout(ctx context.Context, vehicleID, distanceKm, employeeID int64) (*TriggerResult, error)
	SetRentalCanceller(c RentalCanceller)
}

type ChargeService interface {
	Add(ctx context.Context, rentalID int64, kind, description string, amountCents int64) (*domain.Charge, error)
	Remove(ctx context.Context, chargeID int64) error
	ListForRental(ctx context.Context, rentalID int64) ([]domain.Charge, error)
}

// VehicleDraft is the caller-supplied shape for fleet registration and edits.
type VehicleDraft struct {
	Plate      string
	Brand      string
	Model      string
	Year       int
	CategoryID int64
	CurrentKm  int64
}

type VehicleService interface {
	Create(ctx context.Context, draft VehicleDraft) (*domain.Vehicle, error)
	Get(ctx context.Context, vehicleID int64) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicleID int64, draft VehicleDraft) (*domain.Vehicle, error)
	Delete(ctx context.Context, vehicleID int64) error
	List(ctx context.Context) ([]domain.Vehicle, error)
	ListWithAvailability(ctx context.Context) ([]domain.VehicleAvailability, error)
	Occupancy(ctx context.Context, vehicleID int64) (*domain.VehicleOccupancy, error)
}

type ReportService interface {
	RentalsPerPeriod(ctx context.Context, period string, from, to *utils.Date) ([]domain.PeriodCount, error)
	MonthlyBilling(ctx context.Context, from, to *utils.Date) ([]domain.PeriodAmount, error)
	TopVehicles(ctx context.Context, limit int) ([]domain.VehicleRentalCount, error)
	RentalsPerClient(ctx context.Context) ([]domain.ClientRentalCount, error)
}

type EmailService interface {
	SendCancellationNotice(ctx context.Context, toEmail, clientName, vehicleLabel, reason string) error
	SendCheckoutDueReminder(ctx context.Context, toEmail string, rentalID int64, vehicleLabel string, endDate utils.Date) error
}
