package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/utils"
)

type maintenanceFixture struct {
	maintenanceRepo *MockMaintenanceRepo
	vehicleRepo     *MockVehicleRepo
	rentalRepo      *MockRentalRepo
	employeeRepo    *MockEmployeeRepo
	clientRepo      *MockClientRepo
	emailSvc        *MockEmailService
	canceller       *MockRentalCanceller
	svc             MaintenanceService
}

func newMaintenanceFixture() *maintenanceFixture {
	f := &maintenanceFixture{
		maintenanceRepo: new(MockMaintenanceRepo),
		vehicleRepo:     new(MockVehicleRepo),
		rentalRepo:      new(MockRentalRepo),
		employeeRepo:    new(MockEmployeeRepo),
		clientRepo:      new(MockClientRepo),
		emailSvc:        new(MockEmailService),
		canceller:       new(MockRentalCanceller),
	}
	f.svc = NewMaintenanceService(f.maintenanceRepo, f.vehicleRepo, f.rentalRepo,
		f.employeeRepo, f.clientRepo, f.emailSvc, 10000, 1)
	f.svc.SetRentalCanceller(f.canceller)
	f.svc.(*maintenanceService).today = func() utils.Date { return utils.Date{Year: 2026, Month: 6, Day: 20} }
	return f
}

func (f *maintenanceFixture) expectVehicle(id int64) {
	f.vehicleRepo.On("GetByID", mock.Anything, id).
		Return(&domain.Vehicle{ID: id, Plate: "AB123CD", Brand: "Fiat", Model: "Cronos"}, nil)
	f.vehicleRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Vehicle")).Return(nil)
}

func TestMaintenanceService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected while a rental is on the road", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.expectVehicle(2)
		// Rental running today (2026-06-20)
		f.rentalRepo.On("ListOpenByVehicle", ctx, int64(2), (*int64)(nil)).Return([]domain.Rental{
			{ID: 40, Status: domain.RentalStatusActive,
				StartDate: utils.Date{Year: 2026, Month: 6, Day: 10},
				EndDate:   utils.Date{Year: 2026, Month: 6, Day: 25}},
		}, nil)

		_, err := f.svc.Create(ctx, MaintenanceDraft{
			VehicleID: 2, StartDate: "2026-06-20", Kind: "CORRECTIVE", Description: "brake failure",
		})
		var conflict *domain.ConflictError
		assert.ErrorAs(t, err, &conflict)
		assert.Equal(t, int64(40), conflict.Conflicts[0].ID)
		f.maintenanceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("open window cancels future overlapping rentals", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.expectVehicle(2)
		future := domain.Rental{ID: 41, ClientID: 7, VehicleID: 2, Status: domain.RentalStatusPending,
			StartDate: utils.Date{Year: 2026, Month: 7, Day: 1},
			EndDate:   utils.Date{Year: 2026, Month: 7, Day: 5}}
		f.rentalRepo.On("ListOpenByVehicle", ctx, int64(2), (*int64)(nil)).Return([]domain.Rental{future}, nil)
		f.maintenanceRepo.On("Create", ctx, mock.AnythingOfType("*domain.Maintenance")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Maintenance).ID = 9 }).Return(nil)
		f.employeeRepo.On("GetByID", ctx, int64(5)).Return(&domain.Employee{ID: 5}, nil)
		f.canceller.On("Cancel", ctx, int64(41), "vehicle scheduled for maintenance", int64(5)).
			Return(&CancelResult{Rental: &future, PreviousStatus: domain.RentalStatusPending}, nil)
		f.clientRepo.On("GetByID", ctx, int64(7)).Return(&domain.Client{ID: 7, Name: "Ana", Email: "ana@example.com"}, nil)
		f.emailSvc.On("SendCancellationNotice", ctx, "ana@example.com", "Ana", mock.Anything, mock.Anything).Return(nil)

		employeeID := int64(5)
		result, err := f.svc.Create(ctx, MaintenanceDraft{
			VehicleID: 2, StartDate: "2026-06-20", Kind: "PREVENTIVE",
			Description: "scheduled service", EmployeeID: &employeeID,
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(9), result.Maintenance.ID)
		assert.Len(t, result.Cancellations, 1)
		assert.True(t, result.Cancellations[0].Cancelled)
		assert.Equal(t, int64(41), result.Cancellations[0].RentalID)
		f.emailSvc.AssertExpectations(t)
	})

	t.Run("one failed cancellation does not stop the rest", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.expectVehicle(2)
		first := domain.Rental{ID: 41, ClientID: 7, VehicleID: 2, Status: domain.RentalStatusPending,
			StartDate: utils.Date{Year: 2026, Month: 7, Day: 1},
			EndDate:   utils.Date{Year: 2026, Month: 7, Day: 5}}
		second := domain.Rental{ID: 42, ClientID: 8, VehicleID: 2, Status: domain.RentalStatusPending,
			StartDate: utils.Date{Year: 2026, Month: 8, Day: 1},
			EndDate:   utils.Date{Year: 2026, Month: 8, Day: 5}}
		f.rentalRepo.On("ListOpenByVehicle", ctx, int64(2), (*int64)(nil)).Return([]domain.Rental{first, second}, nil)
		f.maintenanceRepo.On("Create", ctx, mock.AnythingOfType("*domain.Maintenance")).Return(nil)
		f.canceller.On("Cancel", ctx, int64(41), mock.Anything, int64(1)).
			Return(nil, errors.New("db unavailable"))
		f.canceller.On("Cancel", ctx, int64(42), mock.Anything, int64(1)).
			Return(&CancelResult{Rental: &second, PreviousStatus: domain.RentalStatusPending}, nil)
		f.clientRepo.On("GetByID", ctx, int64(8)).Return(&domain.Client{ID: 8, Email: ""}, nil)

		result, err := f.svc.Create(ctx, MaintenanceDraft{
			VehicleID: 2, StartDate: "2026-06-20", Kind: "PREVENTIVE", Description: "scheduled service",
		})
		// The record stands; the error reports the rentals left open.
		var partial *domain.PartialFailure
		assert.ErrorAs(t, err, &partial)
		assert.Len(t, partial.Outcomes, 2)
		assert.Len(t, result.Cancellations, 2)
		assert.False(t, result.Cancellations[0].Cancelled)
		assert.Contains(t, result.Cancellations[0].Reason, "db unavailable")
		assert.True(t, result.Cancellations[1].Cancelled)
	})

	t.Run("finished window leaves future rentals alone", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.expectVehicle(2)
		f.rentalRepo.On("ListOpenByVehicle", ctx, int64(2), (*int64)(nil)).Return([]domain.Rental{
			{ID: 41, Status: domain.RentalStatusPending,
				StartDate: utils.Date{Year: 2026, Month: 7, Day: 1},
				EndDate:   utils.Date{Year: 2026, Month: 7, Day: 5}},
		}, nil)
		f.maintenanceRepo.On("Create", ctx, mock.AnythingOfType("*domain.Maintenance")).Return(nil)

		end := "2026-06-15"
		result, err := f.svc.Create(ctx, MaintenanceDraft{
			VehicleID: 2, StartDate: "2026-06-10", EndDate: &end, Kind: "CORRECTIVE", Description: "bodywork",
		})
		assert.NoError(t, err)
		assert.Empty(t, result.Cancellations)
		f.canceller.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown kind is invalid", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.expectVehicle(2)

		_, err := f.svc.Create(ctx, MaintenanceDraft{VehicleID: 2, StartDate: "2026-06-20", Kind: "COSMETIC"})
		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
		assert.Equal(t, "kind", validation.Field)
	})
}

func TestMaintenanceService_EvaluatePostCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("distance at threshold is a no-op", func(t *testing.T) {
		f := newMaintenanceFixture()

		result, err := f.svc.EvaluatePostCheckout(ctx, 2, 10000, 4)
		assert.NoError(t, err)
		assert.False(t, result.MaintenanceCreated)
		f.maintenanceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("distance over threshold opens preventive maintenance and cascades", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.expectVehicle(2)
		future := domain.Rental{ID: 55, ClientID: 7, VehicleID: 2, Status: domain.RentalStatusPending,
			StartDate: utils.Date{Year: 2026, Month: 7, Day: 1},
			EndDate:   utils.Date{Year: 2026, Month: 7, Day: 5}}
		f.rentalRepo.On("ListOpenByVehicle", ctx, int64(2), (*int64)(nil)).Return([]domain.Rental{future}, nil)
		f.maintenanceRepo.On("Create", ctx, mock.AnythingOfType("*domain.Maintenance")).
			Run(func(args mock.Arguments) {
				m := args.Get(1).(*domain.Maintenance)
				m.ID = 9
				assert.Equal(t, domain.MaintenancePreventive, m.Kind)
				assert.Equal(t, utils.Date{Year: 2026, Month: 6, Day: 20}, m.StartDate)
				assert.Nil(t, m.EndDate)
				assert.Contains(t, m.Description, "12000")
			}).Return(nil)
		f.canceller.On("Cancel", ctx, int64(55), "vehicle scheduled for maintenance", int64(4)).
			Return(&CancelResult{Rental: &future, PreviousStatus: domain.RentalStatusPending}, nil)
		f.clientRepo.On("GetByID", ctx, int64(7)).Return(&domain.Client{ID: 7, Email: ""}, nil)

		result, err := f.svc.EvaluatePostCheckout(ctx, 2, 12000, 4)
		assert.NoError(t, err)
		assert.True(t, result.MaintenanceCreated)
		assert.Equal(t, int64(9), *result.MaintenanceID)
		assert.Len(t, result.Cancellations, 1)
		assert.True(t, result.Cancellations[0].Cancelled)
	})

	t.Run("failed cascade reports a partial failure", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.expectVehicle(2)
		f.rentalRepo.On("ListOpenByVehicle", ctx, int64(2), (*int64)(nil)).Return([]domain.Rental{
			{ID: 55, ClientID: 7, VehicleID: 2, Status: domain.RentalStatusPending,
				StartDate: utils.Date{Year: 2026, Month: 7, Day: 1},
				EndDate:   utils.Date{Year: 2026, Month: 7, Day: 5}},
		}, nil)
		f.maintenanceRepo.On("Create", ctx, mock.AnythingOfType("*domain.Maintenance")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Maintenance).ID = 9 }).Return(nil)
		f.canceller.On("Cancel", ctx, int64(55), mock.Anything, int64(4)).
			Return(nil, errors.New("db unavailable"))

		result, err := f.svc.EvaluatePostCheckout(ctx, 2, 12000, 4)
		var partial *domain.PartialFailure
		assert.ErrorAs(t, err, &partial)
		assert.True(t, result.MaintenanceCreated)
		assert.Equal(t, int64(9), *result.MaintenanceID)
		assert.False(t, result.Cancellations[0].Cancelled)
	})

	t.Run("record creation failure surfaces", func(t *testing.T) {
		f := newMaintenanceFixture()
		f.maintenanceRepo.On("Create", ctx, mock.AnythingOfType("*domain.Maintenance")).
			Return(errors.New("db unavailable"))

		_, err := f.svc.EvaluatePostCheckout(ctx, 2, 12000, 4)
		assert.Error(t, err)
	})
}
