package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) CreateGuarded(ctx context.Context, rt *domain.Rental) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockRentalRepo) UpdateGuarded(ctx context.Context, rt *domain.Rental) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockRentalRepo) Update(ctx context.Context, rt *domain.Rental) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentalRepo) List(ctx context.Context, filter repository.RentalFilter) ([]domain.Rental, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListOpenByVehicle(ctx context.Context, vehicleID int64, excludeRentalID *int64) ([]domain.Rental, error) {
	args := m.Called(ctx, vehicleID, excludeRentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) UpdateTotalCost(ctx context.Context, id int64, totalCostCents int64) error {
	args := m.Called(ctx, id, totalCostCents)
	return args.Error(0)
}

// MockVehicleRepo
type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}
func (m *MockVehicleRepo) Create(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVehicleRepo) Update(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}
func (m *MockVehicleRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepo
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) GetByID(ctx context.Context, id int64) (*domain.VehicleCategory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VehicleCategory), args.Error(1)
}
func (m *MockCategoryRepo) List(ctx context.Context) ([]domain.VehicleCategory, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.VehicleCategory), args.Error(1)
}

// MockClientRepo
type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
func (m *MockClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Client), args.Error(1)
}

// MockEmployeeRepo
type MockEmployeeRepo struct {
	mock.Mock
}

func (m *MockEmployeeRepo) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Employee), args.Error(1)
}
func (m *MockEmployeeRepo) List(ctx context.Context) ([]domain.Employee, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Employee), args.Error(1)
}

// MockChargeRepo
type MockChargeRepo struct {
	mock.Mock
}

func (m *MockChargeRepo) Create(ctx context.Context, c *domain.Charge) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockChargeRepo) GetByID(ctx context.Context, id int64) (*domain.Charge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Charge), args.Error(1)
}
func (m *MockChargeRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockChargeRepo) ListByRental(ctx context.Context, rentalID int64) ([]domain.Charge, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Charge), args.Error(1)
}

// MockMaintenanceRepo
type MockMaintenanceRepo struct {
	mock.Mock
}

func (m *MockMaintenanceRepo) Create(ctx context.Context, rec *domain.Maintenance) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
func (m *MockMaintenanceRepo) GetByID(ctx context.Context, id int64) (*domain.Maintenance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Maintenance), args.Error(1)
}
func (m *MockMaintenanceRepo) Update(ctx context.Context, rec *domain.Maintenance) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
func (m *MockMaintenanceRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMaintenanceRepo) List(ctx context.Context, filter repository.MaintenanceFilter) ([]domain.Maintenance, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Maintenance), args.Error(1)
}
func (m *MockMaintenanceRepo) ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.Maintenance, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Maintenance), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendCancellationNotice(ctx context.Context, toEmail, clientName, vehicleLabel, reason string) error {
	args := m.Called(ctx, toEmail, clientName, vehicleLabel, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendCheckoutDueReminder(ctx context.Context, toEmail string, rentalID int64, vehicleLabel string, endDate utils.Date) error {
	args := m.Called(ctx, toEmail, rentalID, vehicleLabel, endDate)
	return args.Error(0)
}

// MockMaintenanceService
type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) Create(ctx context.Context, draft MaintenanceDraft) (*MaintenanceCreateResult, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MaintenanceCreateResult), args.Error(1)
}
func (m *MockMaintenanceService) Get(ctx context.Context, id int64) (*domain.Maintenance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Maintenance), args.Error(1)
}
func (m *MockMaintenanceService) Update(ctx context.Context, id int64, draft MaintenanceDraft) (*domain.Maintenance, error) {
	args := m.Called(ctx, id, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Maintenance), args.Error(1)
}
func (m *MockMaintenanceService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMaintenanceService) List(ctx context.Context, filter repository.MaintenanceFilter) ([]domain.Maintenance, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Maintenance), args.Error(1)
}
func (m *MockMaintenanceService) EvaluatePostCheckout(ctx context.Context, vehicleID, distanceKm, employeeID int64) (*TriggerResult, error) {
	args := m.Called(ctx, vehicleID, distanceKm, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TriggerResult), args.Error(1)
}
func (m *MockMaintenanceService) SetRentalCanceller(c RentalCanceller) {
	m.Called(c)
}

// MockRentalCanceller
type MockRentalCanceller struct {
	mock.Mock
}

func (m *MockRentalCanceller) Cancel(ctx context.Context, id int64, reason string, employeeID int64) (*CancelResult, error) {
	args := m.Called(ctx, id, reason, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CancelResult), args.Error(1)
}
