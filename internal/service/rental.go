package service

import (
	"context"
	"errors"
	"fmt"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

type rentalService struct {
	rentalRepo     repository.RentalRepository
	vehicleRepo    repository.VehicleRepository
	categoryRepo   repository.CategoryRepository
	clientRepo     repository.ClientRepository
	employeeRepo   repository.EmployeeRepository
	chargeRepo     repository.ChargeRepository
	availability   AvailabilityService
	maintenanceSvc MaintenanceService
	highMileageKm  int64
	today          func() utils.Date
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	vehicleRepo repository.VehicleRepository,
	categoryRepo repository.CategoryRepository,
	clientRepo repository.ClientRepository,
	employeeRepo repository.EmployeeRepository,
	chargeRepo repository.ChargeRepository,
	availability AvailabilityService,
	maintenanceSvc MaintenanceService,
	highMileageKm int64,
) RentalService {
	return &rentalService{
		rentalRepo:     rentalRepo,
		vehicleRepo:    vehicleRepo,
		categoryRepo:   categoryRepo,
		clientRepo:     clientRepo,
		employeeRepo:   employeeRepo,
		chargeRepo:     chargeRepo,
		availability:   availability,
		maintenanceSvc: maintenanceSvc,
		highMileageKm:  highMileageKm,
		today:          utils.Today,
	}
}

func (s *rentalService) parseRange(startStr, endStr string) (utils.Date, utils.Date, error) {
	if startStr == "" {
		return utils.Date{}, utils.Date{}, domain.NewValidationError("start_date", "start date is required")
	}
	if endStr == "" {
		return utils.Date{}, utils.Date{}, domain.NewValidationError("end_date", "end date is required")
	}
	start, err := utils.ParseDate(startStr)
	if err != nil {
		return utils.Date{}, utils.Date{}, domain.NewValidationError("start_date", err.Error())
	}
	end, err := utils.ParseDate(endStr)
	if err != nil {
		return utils.Date{}, utils.Date{}, domain.NewValidationError("end_date", err.Error())
	}
	if end.Before(start) {
		return utils.Date{}, utils.Date{}, domain.NewValidationError("end_date",
			fmt.Sprintf("end date %s is before start date %s", end, start))
	}
	return start, end, nil
}

// asValidation downgrades a missing entity to a validation error for the
// operations whose contract demands it (cancel's employee check).
func asValidation(field string, err error) error {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return domain.NewValidationError(field, nf.Error())
	}
	return err
}

// baseCost looks up the vehicle's category rate and prices the range.
func (s *rentalService) baseCost(ctx context.Context, vehicle *domain.Vehicle, start, end utils.Date) (int64, error) {
	category, err := s.categoryRepo.GetByID(ctx, vehicle.CategoryID)
	if err != nil {
		return 0, err
	}
	cost, err := utils.ComputeBaseCost(category.DailyRateCents, start, end)
	if err != nil {
		return 0, domain.NewValidationError("end_date", err.Error())
	}
	return cost, nil
}

func (s *rentalService) Create(ctx context.Context, draft RentalDraft) (*domain.Rental, error) {
	if draft.ClientID == 0 {
		return nil, domain.NewValidationError("client_id", "client is required")
	}
	if draft.VehicleID == 0 {
		return nil, domain.NewValidationError("vehicle_id", "vehicle is required")
	}
	if draft.EmployeeID == 0 {
		return nil, domain.NewValidationError("employee_id", "employee is required")
	}
	start, end, err := s.parseRange(draft.StartDate, draft.EndDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.clientRepo.GetByID(ctx, draft.ClientID); err != nil {
		return nil, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, draft.EmployeeID); err != nil {
		return nil, err
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, draft.VehicleID)
	if err != nil {
		return nil, err
	}

	conflicts, err := s.availability.Conflicts(ctx, draft.VehicleID, start, end, nil)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &domain.ConflictError{VehicleID: draft.VehicleID, Conflicts: conflicts}
	}

	baseCost, err := s.baseCost(ctx, vehicle, start, end)
	if err != nil {
		return nil, err
	}

	today := s.today()
	status := domain.RentalStatusActive
	if today.Before(start) {
		status = domain.RentalStatusPending
	}

	rt := &domain.Rental{
		ClientID:       draft.ClientID,
		VehicleID:      draft.VehicleID,
		EmployeeID:     draft.EmployeeID,
		ReservationID:  draft.ReservationID,
		StartDate:      start,
		EndDate:        end,
		BaseCostCents:  baseCost,
		TotalCostCents: baseCost,
		Status:         status,
		Notes:          draft.Notes,
		InitialKm:      vehicle.CurrentKm,
	}

	// The availability pre-check above is advisory; the guarded insert
	// re-validates under a vehicle lock so concurrent bookings serialize.
	if err := s.rentalRepo.CreateGuarded(ctx, rt); err != nil {
		return nil, err
	}

	logger.Info("rental created", "rental_id", rt.ID, "vehicle_id", rt.VehicleID,
		"start", start.String(), "end", end.String(), "status", rt.Status)
	return rt, nil
}

func (s *rentalService) Edit(ctx context.Context, id int64, patch RentalPatch) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rt.Status.IsTerminal() {
		return nil, &domain.StateError{RentalID: id, Status: rt.Status, Operation: "edit"}
	}

	if patch.ClientID != nil {
		if _, err := s.clientRepo.GetByID(ctx, *patch.ClientID); err != nil {
			return nil, err
		}
		rt.ClientID = *patch.ClientID
	}
	if patch.EmployeeID != nil {
		if _, err := s.employeeRepo.GetByID(ctx, *patch.EmployeeID); err != nil {
			return nil, err
		}
		rt.EmployeeID = *patch.EmployeeID
	}
	if patch.VehicleID != nil {
		rt.VehicleID = *patch.VehicleID
	}
	if patch.Notes != nil {
		rt.Notes = *patch.Notes
	}

	startStr := rt.StartDate.String()
	endStr := rt.EndDate.String()
	if patch.StartDate != nil {
		startStr = *patch.StartDate
	}
	if patch.EndDate != nil {
		endStr = *patch.EndDate
	}
	start, end, err := s.parseRange(startStr, endStr)
	if err != nil {
		return nil, err
	}
	rt.StartDate = start
	rt.EndDate = end

	vehicle, err := s.vehicleRepo.GetByID(ctx, rt.VehicleID)
	if err != nil {
		return nil, err
	}

	// The edit ignores its own prior interval when re-checking.
	conflicts, err := s.availability.Conflicts(ctx, rt.VehicleID, start, end, &rt.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &domain.ConflictError{VehicleID: rt.VehicleID, Conflicts: conflicts}
	}

	baseCost, err := s.baseCost(ctx, vehicle, start, end)
	if err != nil {
		return nil, err
	}
	charges, err := s.chargeRepo.ListByRental(ctx, rt.ID)
	if err != nil {
		return nil, err
	}
	rt.BaseCostCents = baseCost
	rt.TotalCostCents = utils.ComputeTotalCost(baseCost, chargeAmounts(charges))

	if err := s.rentalRepo.UpdateGuarded(ctx, rt); err != nil {
		return nil, err
	}

	logger.Info("rental updated", "rental_id", rt.ID, "vehicle_id", rt.VehicleID,
		"start", start.String(), "end", end.String())
	return rt, nil
}

func (s *rentalService) Checkout(ctx context.Context, id int64, in CheckoutInput, notify Notifier) (*CheckoutResult, error) {
	rt, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	today := s.today()
	effective := rt.EffectiveStatus(today)
	if rt.Status.IsTerminal() {
		return nil, &domain.StateError{RentalID: id, Status: rt.Status, Operation: "checkout"}
	}
	if effective == domain.RentalStatusPending {
		return nil, &domain.StateError{RentalID: id, Status: effective, Operation: "checkout"}
	}

	if in.ClosingEmployeeID == 0 {
		return nil, domain.NewValidationError("closing_employee_id", "closing employee is required")
	}
	if _, err := s.employeeRepo.GetByID(ctx, in.ClosingEmployeeID); err != nil {
		return nil, err
	}
	if in.FinalKm <= rt.InitialKm {
		return nil, domain.NewValidationError("final_km",
			fmt.Sprintf("final odometer reading %d must be greater than the initial reading %d", in.FinalKm, rt.InitialKm))
	}

	distance := in.FinalKm - rt.InitialKm
	if distance > s.highMileageKm {
		msg := fmt.Sprintf("the vehicle travelled %d km during this rental, which is unusually high - proceed with checkout?", distance)
		if !notify.Confirm(msg) {
			return nil, domain.NewValidationError("final_km",
				fmt.Sprintf("high mileage of %d km was not confirmed", distance))
		}
	}

	charges, err := s.chargeRepo.ListByRental(ctx, rt.ID)
	if err != nil {
		return nil, err
	}

	rt.Status = domain.RentalStatusFinalized
	rt.FinalKm = &in.FinalKm
	rt.ClosingEmployeeID = &in.ClosingEmployeeID
	rt.TotalCostCents = utils.ComputeTotalCost(rt.BaseCostCents, chargeAmounts(charges))
	if in.Notes != "" {
		if rt.Notes != "" {
			rt.Notes += "; "
		}
		rt.Notes += in.Notes
	}

	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		return nil, err
	}

	// Keep the vehicle's odometer in sync with the closing reading.
	if vehicle, err := s.vehicleRepo.GetByID(ctx, rt.VehicleID); err == nil && in.FinalKm > vehicle.CurrentKm {
		vehicle.CurrentKm = in.FinalKm
		if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
			logger.Error("failed to update vehicle odometer after checkout",
				"vehicle_id", rt.VehicleID, "error", err)
		}
	}

	trigger, err := s.maintenanceSvc.EvaluatePostCheckout(ctx, rt.VehicleID, distance, in.ClosingEmployeeID)
	if err != nil {
		var pf *domain.PartialFailure
		if errors.As(err, &pf) {
			// The maintenance record exists and the checkout stands; the
			// outcomes in the result name the rentals that stayed open.
			logger.Warn("cascading cancellations partially failed after checkout",
				"rental_id", rt.ID, "error", pf)
		} else {
			// The rental is already finalized; a failed trigger must not turn
			// a completed checkout into an error.
			logger.Error("maintenance evaluation failed after finalizing rental",
				"rental_id", rt.ID, "error", err)
			trigger = &TriggerResult{}
		}
	}

	logger.Info("rental checked out", "rental_id", rt.ID, "distance_km", distance,
		"maintenance_created", trigger.MaintenanceCreated)

	return &CheckoutResult{
		Rental:              rt,
		DistanceKm:          distance,
		RequiresMaintenance: distance > s.highMileageKm,
		MaintenanceID:       trigger.MaintenanceID,
		Cancellations:       trigger.Cancellations,
	}, nil
}

func (s *rentalService) Cancel(ctx context.Context, id int64, reason string, employeeID int64) (*CancelResult, error) {
	rt, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rt.Status.IsTerminal() {
		return nil, &domain.StateError{RentalID: id, Status: rt.Status, Operation: "cancel"}
	}
	if reason == "" {
		return nil, domain.NewValidationError("reason", "cancellation reason is required")
	}
	if employeeID == 0 {
		return nil, domain.NewValidationError("cancelled_by", "cancelling employee is required")
	}
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, asValidation("cancelled_by", err)
	}

	today := s.today()
	previous := rt.EffectiveStatus(today)

	rt.Status = domain.RentalStatusCancelled
	rt.CancelReason = reason
	rt.CancelledOn = &today
	rt.CancelledBy = &employeeID

	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		return nil, err
	}

	logger.Info("rental cancelled", "rental_id", rt.ID, "previous_status", previous, "reason", reason)
	return &CancelResult{Rental: rt, PreviousStatus: previous}, nil
}

func (s *rentalService) Delete(ctx context.Context, id int64) error {
	if err := s.rentalRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("rental deleted", "rental_id", id)
	return nil
}

func (s *rentalService) Get(ctx context.Context, id int64) (*domain.Rental, error) {
	return s.rentalRepo.GetByID(ctx, id)
}

func (s *rentalService) List(ctx context.Context, filter repository.RentalFilter) ([]domain.Rental, error) {
	filter.Today = s.today()
	return s.rentalRepo.List(ctx, filter)
}

func chargeAmounts(charges []domain.Charge) []int64 {
	amounts := make([]int64, len(charges))
	for i, c := range charges {
		amounts[i] = c.AmountCents
	}
	return amounts
}
