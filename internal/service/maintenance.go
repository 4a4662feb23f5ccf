package service

import (
	"context"
	"fmt"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

const maintenanceCancelReason = "vehicle scheduled for maintenance"

type maintenanceService struct {
	maintenanceRepo   repository.MaintenanceRepository
	vehicleRepo       repository.VehicleRepository
	rentalRepo        repository.RentalRepository
	employeeRepo      repository.EmployeeRepository
	clientRepo        repository.ClientRepository
	emailSvc          EmailService
	canceller         RentalCanceller
	highMileageKm     int64
	defaultEmployeeID int64
	today             func() utils.Date
}

func NewMaintenanceService(
	maintenanceRepo repository.MaintenanceRepository,
	vehicleRepo repository.VehicleRepository,
	rentalRepo repository.RentalRepository,
	employeeRepo repository.EmployeeRepository,
	clientRepo repository.ClientRepository,
	emailSvc EmailService,
	highMileageKm int64,
	defaultEmployeeID int64,
) MaintenanceService {
	return &maintenanceService{
		maintenanceRepo:   maintenanceRepo,
		vehicleRepo:       vehicleRepo,
		rentalRepo:        rentalRepo,
		employeeRepo:      employeeRepo,
		clientRepo:        clientRepo,
		emailSvc:          emailSvc,
		highMileageKm:     highMileageKm,
		defaultEmployeeID: defaultEmployeeID,
		today:             utils.Today,
	}
}

// SetRentalCanceller breaks the construction cycle between the state machine
// and the trigger: cascading cancellations must go through the state
// machine's Cancel so audit fields stay consistent.
func (s *maintenanceService) SetRentalCanceller(c RentalCanceller) {
	s.canceller = c
}

func (s *maintenanceService) validateDraft(ctx context.Context, draft MaintenanceDraft) (*domain.Maintenance, error) {
	if draft.VehicleID == 0 {
		return nil, domain.NewValidationError("vehicle_id", "vehicle is required")
	}
	if _, err := s.vehicleRepo.GetByID(ctx, draft.VehicleID); err != nil {
		return nil, err
	}
	if draft.StartDate == "" {
		return nil, domain.NewValidationError("start_date", "start date is required")
	}
	start, err := utils.ParseDate(draft.StartDate)
	if err != nil {
		return nil, domain.NewValidationError("start_date", err.Error())
	}
	var end *utils.Date
	if draft.EndDate != nil && *draft.EndDate != "" {
		parsed, err := utils.ParseDate(*draft.EndDate)
		if err != nil {
			return nil, domain.NewValidationError("end_date", err.Error())
		}
		if parsed.Before(start) {
			return nil, domain.NewValidationError("end_date",
				fmt.Sprintf("end date %s is before start date %s", parsed, start))
		}
		end = &parsed
	}

	kind := domain.MaintenanceKind(draft.Kind)
	if kind != domain.MaintenancePreventive && kind != domain.MaintenanceCorrective {
		return nil, domain.NewValidationError("kind", "kind must be PREVENTIVE or CORRECTIVE")
	}
	if draft.CostCents < 0 {
		return nil, domain.NewValidationError("cost_cents", "cost cannot be negative")
	}
	if draft.EmployeeID != nil {
		if _, err := s.employeeRepo.GetByID(ctx, *draft.EmployeeID); err != nil {
			return nil, err
		}
	}

	return &domain.Maintenance{
		VehicleID:   draft.VehicleID,
		StartDate:   start,
		EndDate:     end,
		Kind:        kind,
		Description: draft.Description,
		CostCents:   draft.CostCents,
		EmployeeID:  draft.EmployeeID,
	}, nil
}

func (s *maintenanceService) Create(ctx context.Context, draft MaintenanceDraft) (*MaintenanceCreateResult, error) {
	m, err := s.validateDraft(ctx, draft)
	if err != nil {
		return nil, err
	}

	// A vehicle out on the road cannot enter the shop: reject while a rental
	// is running or waiting for checkout.
	today := s.today()
	open, err := s.rentalRepo.ListOpenByVehicle(ctx, m.VehicleID, nil)
	if err != nil {
		return nil, err
	}
	for i := range open {
		rt := &open[i]
		effective := rt.EffectiveStatus(today)
		if effective == domain.RentalStatusActive || effective == domain.RentalStatusCheckoutDue {
			endDate := rt.EndDate
			return nil, &domain.ConflictError{
				VehicleID: m.VehicleID,
				Conflicts: []domain.Conflict{{
					Kind: domain.ConflictRental, ID: rt.ID, StartDate: rt.StartDate, EndDate: &endDate,
				}},
			}
		}
	}

	if err := s.maintenanceRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.touchVehicle(ctx, m.VehicleID, m.StartDate)

	// An open or ongoing window makes the vehicle unavailable for every
	// future booking it overlaps.
	var outcomes []domain.CancellationOutcome
	if m.Open(today) {
		outcomes = s.cascadeCancel(ctx, m, open, s.cancelEmployeeID(m.EmployeeID))
	}

	logger.Info("maintenance record created", "maintenance_id", m.ID, "vehicle_id", m.VehicleID,
		"kind", m.Kind, "cancelled_rentals", len(outcomes))
	result := &MaintenanceCreateResult{Maintenance: m, Cancellations: outcomes}
	// The record stands even when some cancellations failed; callers get
	// both the result and the per-rental failure report.
	if pf := domain.NewPartialFailure(outcomes); pf != nil {
		return result, pf
	}
	return result, nil
}

func (s *maintenanceService) EvaluatePostCheckout(ctx context.Context, vehicleID, distanceKm, employeeID int64) (*TriggerResult, error) {
	if distanceKm <= s.highMileageKm {
		return &TriggerResult{MaintenanceCreated: false}, nil
	}

	today := s.today()
	m := &domain.Maintenance{
		VehicleID:   vehicleID,
		StartDate:   today,
		Kind:        domain.MaintenancePreventive,
		Description: fmt.Sprintf("preventive service after high-mileage rental (%d km travelled)", distanceKm),
		EmployeeID:  s.responsibleFor(employeeID),
	}
	if err := s.maintenanceRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("creating post-checkout maintenance for vehicle %d: %w", vehicleID, err)
	}
	s.touchVehicle(ctx, vehicleID, today)

	open, err := s.rentalRepo.ListOpenByVehicle(ctx, vehicleID, nil)
	if err != nil {
		// The maintenance record exists; report the cascade as failed rather
		// than failing the whole trigger.
		logger.Error("failed to list rentals for cascading cancellation", "vehicle_id", vehicleID, "error", err)
		return &TriggerResult{MaintenanceCreated: true, MaintenanceID: &m.ID}, nil
	}
	outcomes := s.cascadeCancel(ctx, m, open, s.cancelEmployeeID(m.EmployeeID))

	logger.Info("post-checkout maintenance triggered", "maintenance_id", m.ID,
		"vehicle_id", vehicleID, "distance_km", distanceKm, "cancelled_rentals", len(outcomes))
	result := &TriggerResult{MaintenanceCreated: true, MaintenanceID: &m.ID, Cancellations: outcomes}
	if pf := domain.NewPartialFailure(outcomes); pf != nil {
		return result, pf
	}
	return result, nil
}

// cascadeCancel transitions every future rental overlapping the maintenance
// window to CANCELLED through the state machine. A failure on one rental
// never stops the others; each outcome is reported to the caller.
func (s *maintenanceService) cascadeCancel(ctx context.Context, m *domain.Maintenance, open []domain.Rental, employeeID int64) []domain.CancellationOutcome {
	today := s.today()
	var outcomes []domain.CancellationOutcome

	for i := range open {
		rt := &open[i]
		if !rt.StartDate.After(today) {
			continue
		}
		if !m.OverlapsRange(rt.StartDate, rt.EndDate) {
			continue
		}

		outcome := domain.CancellationOutcome{RentalID: rt.ID}
		if s.canceller == nil || employeeID == 0 {
			outcome.Reason = "no employee available to attribute the cancellation"
		} else if _, err := s.canceller.Cancel(ctx, rt.ID, maintenanceCancelReason, employeeID); err != nil {
			outcome.Reason = err.Error()
			logger.Error("cascading cancellation failed", "rental_id", rt.ID, "error", err)
		} else {
			outcome.Cancelled = true
			s.notifyClient(ctx, rt)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (s *maintenanceService) notifyClient(ctx context.Context, rt *domain.Rental) {
	client, err := s.clientRepo.GetByID(ctx, rt.ClientID)
	if err != nil || client.Email == "" {
		return
	}
	vehicleLabel := fmt.Sprintf("vehicle %d", rt.VehicleID)
	if v, err := s.vehicleRepo.GetByID(ctx, rt.VehicleID); err == nil {
		vehicleLabel = fmt.Sprintf("%s %s (%s)", v.Brand, v.Model, v.Plate)
	}
	if err := s.emailSvc.SendCancellationNotice(ctx, client.Email, client.Name, vehicleLabel, maintenanceCancelReason); err != nil {
		logger.Error("failed to send cancellation notice", "rental_id", rt.ID, "error", err)
	}
}

// touchVehicle records the latest maintenance date on the vehicle row.
func (s *maintenanceService) touchVehicle(ctx context.Context, vehicleID int64, date utils.Date) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return
	}
	if vehicle.LastMaintenanceOn == nil || vehicle.LastMaintenanceOn.Before(date) {
		vehicle.LastMaintenanceOn = &date
		if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
			logger.Error("failed to update vehicle maintenance date", "vehicle_id", vehicleID, "error", err)
		}
	}
}

func (s *maintenanceService) cancelEmployeeID(responsible *int64) int64 {
	if responsible != nil && *responsible != 0 {
		return *responsible
	}
	return s.defaultEmployeeID
}

func (s *maintenanceService) responsibleFor(employeeID int64) *int64 {
	if employeeID != 0 {
		return &employeeID
	}
	if s.defaultEmployeeID != 0 {
		id := s.defaultEmployeeID
		return &id
	}
	return nil
}

func (s *maintenanceService) Get(ctx context.Context, id int64) (*domain.Maintenance, error) {
	return s.maintenanceRepo.GetByID(ctx, id)
}

func (s *maintenanceService) Update(ctx context.Context, id int64, draft MaintenanceDraft) (*domain.Maintenance, error) {
	if _, err := s.maintenanceRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	m, err := s.validateDraft(ctx, draft)
	if err != nil {
		return nil, err
	}
	m.ID = id
	if err := s.maintenanceRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *maintenanceService) Delete(ctx context.Context, id int64) error {
	return s.maintenanceRepo.Delete(ctx, id)
}

func (s *maintenanceService) List(ctx context.Context, filter repository.MaintenanceFilter) ([]domain.Maintenance, error) {
	filter.Today = s.today()
	return s.maintenanceRepo.List(ctx, filter)
}
