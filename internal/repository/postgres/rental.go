package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, client_id, vehicle_id, employee_id, reservation_id, start_date, end_date,
	base_cost_cents, total_cost_cents, status, notes, initial_km, final_km, closing_employee_id,
	cancel_reason, cancelled_on, cancelled_by, created_on, updated_on`

func scanRental(row interface{ Scan(...interface{}) error }) (*domain.Rental, error) {
	rt := &domain.Rental{}
	var start, end time.Time
	var cancelledOn sql.NullTime
	var cancelReason sql.NullString
	err := row.Scan(&rt.ID, &rt.ClientID, &rt.VehicleID, &rt.EmployeeID, &rt.ReservationID,
		&start, &end, &rt.BaseCostCents, &rt.TotalCostCents, &rt.Status, &rt.Notes,
		&rt.InitialKm, &rt.FinalKm, &rt.ClosingEmployeeID,
		&cancelReason, &cancelledOn, &rt.CancelledBy, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	rt.StartDate = toDate(start)
	rt.EndDate = toDate(end)
	rt.CancelReason = cancelReason.String
	rt.CancelledOn = toNullDate(cancelledOn)
	return rt, nil
}

// collectConflicts re-checks, inside the caller's transaction, every open
// interval that overlaps [start, end] for the vehicle. The vehicle row must
// already be locked so concurrent committers serialize here.
func collectConflicts(ctx context.Context, tx *sql.Tx, rt *domain.Rental, excludeRentalID int64) ([]domain.Conflict, error) {
	var conflicts []domain.Conflict

	rows, err := tx.QueryContext(ctx, `
		SELECT id, start_date, end_date FROM rentals
		WHERE vehicle_id = $1
		  AND status NOT IN ('FINALIZED', 'CANCELLED')
		  AND id <> $2
		  AND start_date <= $3 AND end_date >= $4`,
		rt.VehicleID, excludeRentalID, fromDate(rt.EndDate), fromDate(rt.StartDate))
	if err != nil {
		return nil, fmt.Errorf("querying conflicting rentals: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var start, end time.Time
		if err := rows.Scan(&id, &start, &end); err != nil {
			return nil, err
		}
		endDate := toDate(end)
		conflicts = append(conflicts, domain.Conflict{
			Kind: domain.ConflictRental, ID: id, StartDate: toDate(start), EndDate: &endDate,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mrows, err := tx.QueryContext(ctx, `
		SELECT id, start_date, end_date FROM maintenance_records
		WHERE vehicle_id = $1
		  AND start_date <= $2
		  AND (end_date IS NULL OR end_date >= $3)`,
		rt.VehicleID, fromDate(rt.EndDate), fromDate(rt.StartDate))
	if err != nil {
		return nil, fmt.Errorf("querying conflicting maintenance windows: %w", err)
	}
	defer mrows.Close()
	for mrows.Next() {
		var id int64
		var start time.Time
		var end sql.NullTime
		if err := mrows.Scan(&id, &start, &end); err != nil {
			return nil, err
		}
		conflicts = append(conflicts, domain.Conflict{
			Kind: domain.ConflictMaintenance, ID: id, StartDate: toDate(start), EndDate: toNullDate(end),
		})
	}
	if err := mrows.Err(); err != nil {
		return nil, err
	}

	return conflicts, nil
}

func (r *rentalRepository) guarded(ctx context.Context, rt *domain.Rental, excludeRentalID int64, commit func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the vehicle row so two bookings for the same vehicle cannot both
	// pass the overlap check.
	var vehicleID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, rt.VehicleID).Scan(&vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewNotFoundError("vehicle", rt.VehicleID)
		}
		return fmt.Errorf("locking vehicle row: %w", err)
	}

	conflicts, err := collectConflicts(ctx, tx, rt, excludeRentalID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &domain.ConflictError{VehicleID: rt.VehicleID, Conflicts: conflicts}
	}

	if err := commit(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *rentalRepository) CreateGuarded(ctx context.Context, rt *domain.Rental) error {
	return r.guarded(ctx, rt, 0, func(tx *sql.Tx) error {
		now := time.Now()
		err := tx.QueryRowContext(ctx, `
			INSERT INTO rentals (client_id, vehicle_id, employee_id, reservation_id, start_date, end_date,
				base_cost_cents, total_cost_cents, status, notes, initial_km, created_on, updated_on)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id`,
			rt.ClientID, rt.VehicleID, rt.EmployeeID, rt.ReservationID,
			fromDate(rt.StartDate), fromDate(rt.EndDate),
			rt.BaseCostCents, rt.TotalCostCents, rt.Status, rt.Notes, rt.InitialKm, now, now).Scan(&rt.ID)
		if err != nil {
			return fmt.Errorf("inserting rental: %w", err)
		}
		rt.CreatedOn = now
		rt.UpdatedOn = now
		return nil
	})
}

func (r *rentalRepository) UpdateGuarded(ctx context.Context, rt *domain.Rental) error {
	return r.guarded(ctx, rt, rt.ID, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE rentals SET client_id=$1, vehicle_id=$2, employee_id=$3, start_date=$4, end_date=$5,
				base_cost_cents=$6, total_cost_cents=$7, status=$8, notes=$9, updated_on=$10
			WHERE id=$11`,
			rt.ClientID, rt.VehicleID, rt.EmployeeID,
			fromDate(rt.StartDate), fromDate(rt.EndDate),
			rt.BaseCostCents, rt.TotalCostCents, rt.Status, rt.Notes, time.Now(), rt.ID)
		if err != nil {
			return fmt.Errorf("updating rental: %w", err)
		}
		affected, _ := res.RowsAffected()
		if affected == 0 {
			return domain.NewNotFoundError("rental", rt.ID)
		}
		return nil
	})
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE rentals SET status=$1, notes=$2, total_cost_cents=$3, final_km=$4, closing_employee_id=$5,
			cancel_reason=$6, cancelled_on=$7, cancelled_by=$8, updated_on=$9
		WHERE id=$10`,
		rt.Status, rt.Notes, rt.TotalCostCents, rt.FinalKm, rt.ClosingEmployeeID,
		nullString(rt.CancelReason), fromDatePtr(rt.CancelledOn), rt.CancelledBy, time.Now(), rt.ID)
	if err != nil {
		return fmt.Errorf("updating rental %d: %w", rt.ID, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.NewNotFoundError("rental", rt.ID)
	}
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id int64) (*domain.Rental, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE id = $1`, id)
	rt, err := scanRental(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("rental", id)
		}
		return nil, fmt.Errorf("fetching rental %d: %w", id, err)
	}
	return rt, nil
}

func (r *rentalRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return domain.NewValidationError("rental", "rental has dependent charges and cannot be deleted")
		}
		return fmt.Errorf("deleting rental %d: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.NewNotFoundError("rental", id)
	}
	return nil
}

func (r *rentalRepository) List(ctx context.Context, filter repository.RentalFilter) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE 1=1`
	var args []interface{}
	argIdx := 1

	add := func(clause string, value interface{}) {
		query += fmt.Sprintf(" AND "+clause, argIdx)
		args = append(args, value)
		argIdx++
	}

	switch filter.Bucket {
	case repository.BucketPending:
		add(`status NOT IN ('FINALIZED','CANCELLED') AND start_date > $%d`, fromDate(filter.Today))
	case repository.BucketActive:
		query += fmt.Sprintf(" AND status NOT IN ('FINALIZED','CANCELLED') AND start_date <= $%d AND end_date >= $%d", argIdx, argIdx+1)
		args = append(args, fromDate(filter.Today), fromDate(filter.Today))
		argIdx += 2
	case repository.BucketCheckoutDue:
		add(`status NOT IN ('FINALIZED','CANCELLED') AND end_date < $%d`, fromDate(filter.Today))
	case repository.BucketFinalized:
		query += " AND status = 'FINALIZED'"
	case repository.BucketCancelled:
		query += " AND status = 'CANCELLED'"
	}

	if filter.ClientID != nil {
		add(`client_id = $%d`, *filter.ClientID)
	}
	if filter.VehicleID != nil {
		add(`vehicle_id = $%d`, *filter.VehicleID)
	}
	if filter.EmployeeID != nil {
		add(`employee_id = $%d`, *filter.EmployeeID)
	}
	if filter.StartFrom != nil {
		add(`start_date >= $%d`, fromDate(*filter.StartFrom))
	}
	if filter.StartTo != nil {
		add(`start_date <= $%d`, fromDate(*filter.StartTo))
	}
	if filter.EndFrom != nil {
		add(`end_date >= $%d`, fromDate(*filter.EndFrom))
	}
	if filter.EndTo != nil {
		add(`end_date <= $%d`, fromDate(*filter.EndTo))
	}

	query += " ORDER BY start_date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing rentals: %w", err)
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) ListOpenByVehicle(ctx context.Context, vehicleID int64, excludeRentalID *int64) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
		WHERE vehicle_id = $1 AND status NOT IN ('FINALIZED','CANCELLED')`
	args := []interface{}{vehicleID}
	if excludeRentalID != nil {
		query += " AND id <> $2"
		args = append(args, *excludeRentalID)
	}
	query += " ORDER BY start_date"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing open rentals for vehicle %d: %w", vehicleID, err)
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

func (r *rentalRepository) UpdateTotalCost(ctx context.Context, id int64, totalCostCents int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE rentals SET total_cost_cents = $1, updated_on = $2 WHERE id = $3`,
		totalCostCents, time.Now(), id)
	if err != nil {
		return fmt.Errorf("updating total cost for rental %d: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.NewNotFoundError("rental", id)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
