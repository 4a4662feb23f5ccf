package service

import (
	"context"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

type vehicleService struct {
	vehicleRepo     repository.VehicleRepository
	rentalRepo      repository.RentalRepository
	maintenanceRepo repository.MaintenanceRepository
	categoryRepo    repository.CategoryRepository
	today           func() utils.Date
}

func NewVehicleService(
	vehicleRepo repository.VehicleRepository,
	rentalRepo repository.RentalRepository,
	maintenanceRepo repository.MaintenanceRepository,
	categoryRepo repository.CategoryRepository,
) VehicleService {
	return &vehicleService{
		vehicleRepo:     vehicleRepo,
		rentalRepo:      rentalRepo,
		maintenanceRepo: maintenanceRepo,
		categoryRepo:    categoryRepo,
		today:           utils.Today,
	}
}

func (s *vehicleService) validateDraft(ctx context.Context, draft VehicleDraft) error {
	if draft.Plate == "" {
		return domain.NewValidationError("plate", "plate is required")
	}
	if draft.Brand == "" {
		return domain.NewValidationError("brand", "brand is required")
	}
	if draft.Model == "" {
		return domain.NewValidationError("model", "model is required")
	}
	if draft.Year < 1950 {
		return domain.NewValidationError("year", "year must be 1950 or later")
	}
	if draft.CurrentKm < 0 {
		return domain.NewValidationError("current_km", "odometer reading must not be negative")
	}
	if _, err := s.categoryRepo.GetByID(ctx, draft.CategoryID); err != nil {
		return asValidation("category_id", err)
	}
	return nil
}

func (s *vehicleService) Create(ctx context.Context, draft VehicleDraft) (*domain.Vehicle, error) {
	if err := s.validateDraft(ctx, draft); err != nil {
		return nil, err
	}
	v := &domain.Vehicle{
		Plate:      draft.Plate,
		Brand:      draft.Brand,
		Model:      draft.Model,
		Year:       draft.Year,
		CategoryID: draft.CategoryID,
		CurrentKm:  draft.CurrentKm,
	}
	if err := s.vehicleRepo.Create(ctx, v); err != nil {
		return nil, err
	}
	logger.Info("vehicle registered", "vehicle_id", v.ID, "plate", v.Plate)
	return v, nil
}

func (s *vehicleService) Get(ctx context.Context, vehicleID int64) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, vehicleID)
}

func (s *vehicleService) Update(ctx context.Context, vehicleID int64, draft VehicleDraft) (*domain.Vehicle, error) {
	v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if err := s.validateDraft(ctx, draft); err != nil {
		return nil, err
	}
	// Odometer readings only go forward; checkout is the writer of record.
	if draft.CurrentKm < v.CurrentKm {
		return nil, domain.NewValidationError("current_km", "odometer reading cannot decrease")
	}
	v.Plate = draft.Plate
	v.Brand = draft.Brand
	v.Model = draft.Model
	v.Year = draft.Year
	v.CategoryID = draft.CategoryID
	v.CurrentKm = draft.CurrentKm
	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *vehicleService) Delete(ctx context.Context, vehicleID int64) error {
	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		return err
	}
	return s.vehicleRepo.Delete(ctx, vehicleID)
}

func (s *vehicleService) List(ctx context.Context) ([]domain.Vehicle, error) {
	return s.vehicleRepo.List(ctx)
}

// ListWithAvailability classifies every vehicle for today. Maintenance wins
// over an occupied rental when both hold.
func (s *vehicleService) ListWithAvailability(ctx context.Context) ([]domain.VehicleAvailability, error) {
	vehicles, err := s.vehicleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	today := s.today()

	out := make([]domain.VehicleAvailability, 0, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		bucket, detail, err := s.bucketFor(ctx, v.ID, today)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.VehicleAvailability{Vehicle: *v, Bucket: bucket, Detail: detail})
	}
	return out, nil
}

func (s *vehicleService) bucketFor(ctx context.Context, vehicleID int64, today utils.Date) (domain.AvailabilityBucket, string, error) {
	records, err := s.maintenanceRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return "", "", err
	}
	for i := range records {
		if records[i].InProgress(today) {
			return domain.BucketInMaintenance, domain.DetailMaintenance, nil
		}
	}

	rentals, err := s.rentalRepo.ListOpenByVehicle(ctx, vehicleID, nil)
	if err != nil {
		return "", "", err
	}
	// A running or overdue rental occupies the vehicle outright; a booking
	// that has not started yet still takes it off the selector as reserved.
	reserved := false
	for i := range rentals {
		switch effective := rentals[i].EffectiveStatus(today); effective {
		case domain.RentalStatusActive, domain.RentalStatusCheckoutDue:
			return domain.BucketOccupied, string(effective), nil
		case domain.RentalStatusPending:
			reserved = true
		}
	}
	if reserved {
		return domain.BucketOccupied, domain.DetailReserved, nil
	}
	return domain.BucketAvailable, "", nil
}

// Occupancy returns the vehicle together with every commitment on its
// calendar: non-terminal rentals and unfinished maintenance windows, both
// current and upcoming.
func (s *vehicleService) Occupancy(ctx context.Context, vehicleID int64) (*domain.VehicleOccupancy, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	today := s.today()

	rentals, err := s.rentalRepo.ListOpenByVehicle(ctx, vehicleID, nil)
	if err != nil {
		return nil, err
	}
	for i := range rentals {
		rentals[i].Status = rentals[i].EffectiveStatus(today)
	}

	records, err := s.maintenanceRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	var open []domain.Maintenance
	for i := range records {
		if records[i].EndDate == nil || !records[i].EndDate.Before(today) {
			open = append(open, records[i])
		}
	}

	return &domain.VehicleOccupancy{
		Vehicle:      *vehicle,
		Rentals:      rentals,
		Maintenances: open,
	}, nil
}
