package repository

import (
	"context"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/utils"
)

// RentalFilter narrows rental listings. All fields are optional and combine
// with AND semantics. Bucket selects by effective status: derived buckets
// (pending, active, checkout_due) are computed from the stored dates
// relative to Today, terminal buckets match the stored status.
type RentalFilter struct {
	Bucket     string
	Today      utils.Date
	ClientID   *int64
	VehicleID  *int64
	EmployeeID *int64
	StartFrom  *utils.Date
	StartTo    *utils.Date
	EndFrom    *utils.Date
	EndTo      *utils.Date
}

const (
	BucketPending     = "pending"
	BucketActive      = "active"
	BucketCheckoutDue = "checkout_due"
	BucketFinalized   = "finalized"
	BucketCancelled   = "cancelled"
)

type MaintenanceFilter struct {
	VehicleID  *int64
	Kind       string
	EmployeeID *int64
	State      string // "ongoing" or "finished"
	Today      utils.Date
}

type RentalRepository interface {
	// CreateGuarded inserts the rental inside a transaction that locks the
	// vehicle row and re-checks for overlapping rentals and maintenance
	// windows. Returns domain.ConflictError if another interval won the race.
	CreateGuarded(ctx context.Context, rt *domain.Rental) error
	// UpdateGuarded rewrites the rental under the same transactional overlap
	// check, ignoring the rental's own prior interval.
	UpdateGuarded(ctx context.Context, rt *domain.Rental) error
	Update(ctx context.Context, rt *domain.Rental) error
	GetByID(ctx context.Context, id int64) (*domain.Rental, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter RentalFilter) ([]domain.Rental, error)
	// ListOpenByVehicle returns all non-terminal rentals for the vehicle,
	// optionally excluding one rental id (an edit in progress).
	ListOpenByVehicle(ctx context.Context, vehicleID int64, excludeRentalID *int64) ([]domain.Rental, error)
	UpdateTotalCost(ctx context.Context, id int64, totalCostCents int64) error
}

type VehicleRepository interface {
	Create(ctx context.Context, v *domain.Vehicle) error
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
	List(ctx context.Context) ([]domain.Vehicle, error)
	Update(ctx context.Context, v *domain.Vehicle) error
	Delete(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.VehicleCategory, error)
	List(ctx context.Context) ([]domain.VehicleCategory, error)
}

type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
}

type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
}

type ChargeRepository interface {
	Create(ctx context.Context, c *domain.Charge) error
	GetByID(ctx context.Context, id int64) (*domain.Charge, error)
	Delete(ctx context.Context, id int64) error
	ListByRental(ctx context.Context, rentalID int64) ([]domain.Charge, error)
}

type MaintenanceRepository interface {
	Create(ctx context.Context, m *domain.Maintenance) error
	GetByID(ctx context.Context, id int64) (*domain.Maintenance, error)
	Update(ctx context.Context, m *domain.Maintenance) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter MaintenanceFilter) ([]domain.Maintenance, error)
	ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.Maintenance, error)
}

// Period granularities accepted by the aggregation queries.
const (
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
)

type ReportRepository interface {
	RentalsPerPeriod(ctx context.Context, period string, from, to *utils.Date) ([]domain.PeriodCount, error)
	MonthlyBilling(ctx context.Context, from, to *utils.Date) ([]domain.PeriodAmount, error)
	TopVehicles(ctx context.Context, limit int) ([]domain.VehicleRentalCount, error)
	RentalsPerClient(ctx context.Context) ([]domain.ClientRentalCount, error)
}
