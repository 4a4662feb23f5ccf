package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

// RentalsPerPeriod aggregates rental counts by month or by quarter of the
// rental start date.
func (r *reportRepository) RentalsPerPeriod(ctx context.Context, period string, from, to *utils.Date) ([]domain.PeriodCount, error) {
	var bucket string
	if period == "quarter" {
		bucket = `to_char(start_date, 'YYYY') || '-Q' || to_char(start_date, 'Q')`
	} else {
		bucket = `to_char(start_date, 'YYYY-MM')`
	}

	query := `SELECT ` + bucket + ` AS period, count(*) FROM rentals WHERE 1=1`
	var args []interface{}
	argIdx := 1
	if from != nil {
		query += fmt.Sprintf(" AND start_date >= $%d", argIdx)
		args = append(args, fromDate(*from))
		argIdx++
	}
	if to != nil {
		query += fmt.Sprintf(" AND start_date <= $%d", argIdx)
		args = append(args, fromDate(*to))
		argIdx++
	}
	query += " GROUP BY 1 ORDER BY 1"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregating rentals per period: %w", err)
	}
	defer rows.Close()

	var result []domain.PeriodCount
	for rows.Next() {
		var pc domain.PeriodCount
		if err := rows.Scan(&pc.Period, &pc.RentalCount); err != nil {
			return nil, err
		}
		result = append(result, pc)
	}
	return result, rows.Err()
}

// MonthlyBilling sums finalized rental totals per month.
func (r *reportRepository) MonthlyBilling(ctx context.Context, from, to *utils.Date) ([]domain.PeriodAmount, error) {
	query := `SELECT to_char(start_date, 'YYYY-MM') AS period, coalesce(sum(total_cost_cents), 0), count(*)
		FROM rentals WHERE status = 'FINALIZED'`
	var args []interface{}
	argIdx := 1
	if from != nil {
		query += fmt.Sprintf(" AND start_date >= $%d", argIdx)
		args = append(args, fromDate(*from))
		argIdx++
	}
	if to != nil {
		query += fmt.Sprintf(" AND start_date <= $%d", argIdx)
		args = append(args, fromDate(*to))
		argIdx++
	}
	query += " GROUP BY 1 ORDER BY 1"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregating monthly billing: %w", err)
	}
	defer rows.Close()

	var result []domain.PeriodAmount
	for rows.Next() {
		var pa domain.PeriodAmount
		if err := rows.Scan(&pa.Period, &pa.TotalCostCents, &pa.RentalCount); err != nil {
			return nil, err
		}
		result = append(result, pa)
	}
	return result, rows.Err()
}

func (r *reportRepository) TopVehicles(ctx context.Context, limit int) ([]domain.VehicleRentalCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT v.id, v.plate, v.brand, v.model, count(rt.id) AS rental_count
		FROM vehicles v
		JOIN rentals rt ON rt.vehicle_id = v.id
		GROUP BY v.id, v.plate, v.brand, v.model
		ORDER BY rental_count DESC, v.id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("aggregating top vehicles: %w", err)
	}
	defer rows.Close()

	var result []domain.VehicleRentalCount
	for rows.Next() {
		var vc domain.VehicleRentalCount
		if err := rows.Scan(&vc.VehicleID, &vc.Plate, &vc.Brand, &vc.Model, &vc.RentalCount); err != nil {
			return nil, err
		}
		result = append(result, vc)
	}
	return result, rows.Err()
}

func (r *reportRepository) RentalsPerClient(ctx context.Context) ([]domain.ClientRentalCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.last_name, count(rt.id), coalesce(sum(rt.total_cost_cents), 0)
		FROM clients c
		JOIN rentals rt ON rt.client_id = c.id
		GROUP BY c.id, c.name, c.last_name
		ORDER BY count(rt.id) DESC, c.id`)
	if err != nil {
		return nil, fmt.Errorf("aggregating rentals per client: %w", err)
	}
	defer rows.Close()

	var result []domain.ClientRentalCount
	for rows.Next() {
		var cc domain.ClientRentalCount
		if err := rows.Scan(&cc.ClientID, &cc.Name, &cc.LastName, &cc.RentalCount, &cc.TotalCents); err != nil {
			return nil, err
		}
		result = append(result, cc)
	}
	return result, rows.Err()
}
