package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO vehicles (plate, brand, model, year, category_id, current_km, last_maintenance_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		v.Plate, v.Brand, v.Model, v.Year, v.CategoryID, v.CurrentKm,
		fromDatePtr(v.LastMaintenanceOn)).Scan(&v.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return domain.NewValidationError("plate", fmt.Sprintf("plate %q is already registered", v.Plate))
		}
		return fmt.Errorf("inserting vehicle: %w", err)
	}
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	var lastMaint sql.NullTime
	err := r.db.QueryRowContext(ctx, `
		SELECT id, plate, brand, model, year, category_id, current_km, last_maintenance_on
		FROM vehicles WHERE id = $1`, id).
		Scan(&v.ID, &v.Plate, &v.Brand, &v.Model, &v.Year, &v.CategoryID, &v.CurrentKm, &lastMaint)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("vehicle", id)
		}
		return nil, fmt.Errorf("fetching vehicle %d: %w", id, err)
	}
	v.LastMaintenanceOn = toNullDate(lastMaint)
	return v, nil
}

func (r *vehicleRepository) List(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, plate, brand, model, year, category_id, current_km, last_maintenance_on
		FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		var lastMaint sql.NullTime
		if err := rows.Scan(&v.ID, &v.Plate, &v.Brand, &v.Model, &v.Year, &v.CategoryID, &v.CurrentKm, &lastMaint); err != nil {
			return nil, err
		}
		v.LastMaintenanceOn = toNullDate(lastMaint)
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *vehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vehicles SET plate=$1, brand=$2, model=$3, year=$4, category_id=$5,
			current_km=$6, last_maintenance_on=$7
		WHERE id=$8`,
		v.Plate, v.Brand, v.Model, v.Year, v.CategoryID, v.CurrentKm,
		fromDatePtr(v.LastMaintenanceOn), v.ID)
	if err != nil {
		return fmt.Errorf("updating vehicle %d: %w", v.ID, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.NewNotFoundError("vehicle", v.ID)
	}
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return domain.NewValidationError("vehicle", "vehicle has rentals or maintenance records and cannot be deleted")
		}
		return fmt.Errorf("deleting vehicle %d: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.NewNotFoundError("vehicle", id)
	}
	return nil
}
