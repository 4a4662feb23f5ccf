package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
)

type maintenanceRepository struct {
	db *sql.DB
}

func NewMaintenanceRepository(db *sql.DB) repository.MaintenanceRepository {
	return &maintenanceRepository{db: db}
}

const maintenanceColumns = `id, vehicle_id, start_date, end_date, kind, description, cost_cents, employee_id`

func scanMaintenance(row interface{ Scan(...interface{}) error }) (*domain.Maintenance, error) {
	m := &domain.Maintenance{}
	var start time.Time
	var end sql.NullTime
	err := row.Scan(&m.ID, &m.VehicleID, &start, &end, &m.Kind, &m.Description, &m.CostCents, &m.EmployeeID)
	if err != nil {
		return nil, err
	}
	m.StartDate = toDate(start)
	m.EndDate = toNullDate(end)
	return m, nil
}

func (r *maintenanceRepository) Create(ctx context.Context, m *domain.Maintenance) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO maintenance_records (vehicle_id, start_date, end_date, kind, description, cost_cents, employee_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		m.VehicleID, fromDate(m.StartDate), fromDatePtr(m.EndDate), m.Kind, m.Description, m.CostCents, m.EmployeeID).
		Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("inserting maintenance record: %w", err)
	}
	return nil
}

func (r *maintenanceRepository) GetByID(ctx context.Context, id int64) (*domain.Maintenance, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+maintenanceColumns+` FROM maintenance_records WHERE id = $1`, id)
	m, err := scanMaintenance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("maintenance", id)
		}
		return nil, fmt.Errorf("fetching maintenance %d: %w", id, err)
	}
	return m, nil
}

func (r *maintenanceRepository) Update(ctx context.Context, m *domain.Maintenance) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE maintenance_records SET vehicle_id=$1, start_date=$2, end_date=$3, kind=$4,
			description=$5, cost_cents=$6, employee_id=$7
		WHERE id=$8`,
		m.VehicleID, fromDate(m.StartDate), fromDatePtr(m.EndDate), m.Kind,
		m.Description, m.CostCents, m.EmployeeID, m.ID)
	if err != nil {
		return fmt.Errorf("updating maintenance %d: %w", m.ID, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.NewNotFoundError("maintenance", m.ID)
	}
	return nil
}

func (r *maintenanceRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM maintenance_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting maintenance %d: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.NewNotFoundError("maintenance", id)
	}
	return nil
}

func (r *maintenanceRepository) List(ctx context.Context, filter repository.MaintenanceFilter) ([]domain.Maintenance, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_records WHERE 1=1`
	var args []interface{}
	argIdx := 1

	if filter.VehicleID != nil {
		query += fmt.Sprintf(" AND vehicle_id = $%d", argIdx)
		args = append(args, *filter.VehicleID)
		argIdx++
	}
	if filter.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", argIdx)
		args = append(args, filter.Kind)
		argIdx++
	}
	if filter.EmployeeID != nil {
		query += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	switch filter.State {
	case "ongoing":
		query += fmt.Sprintf(" AND (end_date IS NULL OR end_date > $%d)", argIdx)
		args = append(args, fromDate(filter.Today))
		argIdx++
	case "finished":
		query += fmt.Sprintf(" AND end_date IS NOT NULL AND end_date <= $%d", argIdx)
		args = append(args, fromDate(filter.Today))
		argIdx++
	}

	query += " ORDER BY start_date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing maintenance records: %w", err)
	}
	defer rows.Close()

	var records []domain.Maintenance
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *m)
	}
	return records, rows.Err()
}

func (r *maintenanceRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.Maintenance, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_records WHERE vehicle_id = $1 ORDER BY start_date`, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("listing maintenance for vehicle %d: %w", vehicleID, err)
	}
	defer rows.Close()

	var records []domain.Maintenance
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *m)
	}
	return records, rows.Err()
}
