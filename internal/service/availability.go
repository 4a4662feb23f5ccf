package service

import (
	"context"
	"fmt"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

type availabilityService struct {
	rentalRepo      repository.RentalRepository
	vehicleRepo     repository.VehicleRepository
	maintenanceRepo repository.MaintenanceRepository
}

func NewAvailabilityService(
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	maintenanceRepo repository.MaintenanceRepository,
) AvailabilityService {
	return &availabilityService{
		rentalRepo:      rentalRepo,
		vehicleRepo:     vehicleRepo,
		maintenanceRepo: maintenanceRepo,
	}
}

func (s *availabilityService) CheckAvailability(ctx context.Context, vehicleID int64, startStr, endStr string, excludeRentalID *int64) (*AvailabilityResult, error) {
	start, err := utils.ParseDate(startStr)
	if err != nil {
		return nil, domain.NewValidationError("start_date", err.Error())
	}
	end, err := utils.ParseDate(endStr)
	if err != nil {
		return nil, domain.NewValidationError("end_date", err.Error())
	}
	if end.Before(start) {
		return nil, domain.NewValidationError("end_date", fmt.Sprintf("end date %s is before start date %s", end, start))
	}

	conflicts, err := s.Conflicts(ctx, vehicleID, start, end, excludeRentalID)
	if err != nil {
		return nil, err
	}
	return &AvailabilityResult{Available: len(conflicts) == 0, Conflicts: conflicts}, nil
}

// Conflicts collects every rental and maintenance interval overlapping
// [start, end] for the vehicle. It never short-circuits: callers display
// the full conflict list. The check is read-only; the commit path re-checks
// under a lock.
func (s *availabilityService) Conflicts(ctx context.Context, vehicleID int64, start, end utils.Date, excludeRentalID *int64) ([]domain.Conflict, error) {
	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	var conflicts []domain.Conflict

	rentals, err := s.rentalRepo.ListOpenByVehicle(ctx, vehicleID, excludeRentalID)
	if err != nil {
		return nil, err
	}
	for i := range rentals {
		rt := &rentals[i]
		if utils.Overlaps(start, end, rt.StartDate, rt.EndDate) {
			endDate := rt.EndDate
			conflicts = append(conflicts, domain.Conflict{
				Kind:      domain.ConflictRental,
				ID:        rt.ID,
				StartDate: rt.StartDate,
				EndDate:   &endDate,
			})
		}
	}

	maintenances, err := s.maintenanceRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	for i := range maintenances {
		m := &maintenances[i]
		if m.OverlapsRange(start, end) {
			conflicts = append(conflicts, domain.Conflict{
				Kind:      domain.ConflictMaintenance,
				ID:        m.ID,
				StartDate: m.StartDate,
				EndDate:   m.EndDate,
			})
		}
	}

	return conflicts, nil
}
