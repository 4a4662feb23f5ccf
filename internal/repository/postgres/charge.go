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

type chargeRepository struct {
	db *sql.DB
}

func NewChargeRepository(db *sql.DB) repository.ChargeRepository {
	return &chargeRepository{db: db}
}

func (r *chargeRepository) Create(ctx context.Context, c *domain.Charge) error {
	if c.RecordedOn.IsZero() {
		c.RecordedOn = time.Now()
	}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO charges (rental_id, kind, description, amount_cents, recorded_on)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		c.RentalID, c.Kind, c.Description, c.AmountCents, c.RecordedOn).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("inserting charge: %w", err)
	}
	return nil
}

func (r *chargeRepository) GetByID(ctx context.Context, id int64) (*domain.Charge, error) {
	c := &domain.Charge{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, rental_id, kind, description, amount_cents, recorded_on FROM charges WHERE id = $1`, id).
		Scan(&c.ID, &c.RentalID, &c.Kind, &c.Description, &c.AmountCents, &c.RecordedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("charge", id)
		}
		return nil, fmt.Errorf("fetching charge %d: %w", id, err)
	}
	return c, nil
}

func (r *chargeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM charges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting charge %d: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return domain.NewNotFoundError("charge", id)
	}
	return nil
}

func (r *chargeRepository) ListByRental(ctx context.Context, rentalID int64) ([]domain.Charge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, rental_id, kind, description, amount_cents, recorded_on
		FROM charges WHERE rental_id = $1 ORDER BY recorded_on`, rentalID)
	if err != nil {
		return nil, fmt.Errorf("listing charges for rental %d: %w", rentalID, err)
	}
	defer rows.Close()

	var charges []domain.Charge
	for rows.Next() {
		var c domain.Charge
		if err := rows.Scan(&c.ID, &c.RentalID, &c.Kind, &c.Description, &c.AmountCents, &c.RecordedOn); err != nil {
			return nil, err
		}
		charges = append(charges, c)
	}
	return charges, rows.Err()
}
