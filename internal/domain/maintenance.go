package domain

import "rentacar-backend/internal/utils"

type MaintenanceKind string

const (
	MaintenancePreventive MaintenanceKind = "PREVENTIVE"
	MaintenanceCorrective MaintenanceKind = "CORRECTIVE"
)

type Maintenance struct {
	ID          int64           `json:"id"`
	VehicleID   int64           `json:"vehicle_id"`
	StartDate   utils.Date      `json:"start_date"`
	EndDate     *utils.Date     `json:"end_date,omitempty"`
	Kind        MaintenanceKind `json:"kind"`
	Description string          `json:"description"`
	CostCents   int64           `json:"cost_cents"`
	EmployeeID  *int64          `json:"employee_id,omitempty"`
}

// Open reports whether the maintenance window still blocks the vehicle as
// of the given date. A record with no end date is open indefinitely.
func (m *Maintenance) Open(today utils.Date) bool {
	return m.EndDate == nil || !m.EndDate.Before(today)
}

// InProgress reports whether the window is underway on the given date:
// started on or before it and not yet finished. A window scheduled entirely
// in the future is open but not in progress.
func (m *Maintenance) InProgress(today utils.Date) bool {
	return !m.StartDate.After(today) && m.Open(today)
}

// OverlapsRange reports whether the maintenance window shares at least one
// day with the closed interval [start, end].
func (m *Maintenance) OverlapsRange(start, end utils.Date) bool {
	if m.EndDate == nil {
		return utils.OverlapsOpenEnded(start, end, m.StartDate)
	}
	return utils.Overlaps(start, end, m.StartDate, *m.EndDate)
}
