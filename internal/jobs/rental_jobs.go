package jobs

import (
	"context"
	"fmt"

	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

// ReconcileRentalStatuses rewrites stored rental statuses to match what the
// calendar says. Readers derive the effective status on the fly; this job
// keeps the persisted column from drifting so raw SQL consumers see the
// same picture.
func (jr *JobRunner) ReconcileRentalStatuses() {
	jr.runWithRecovery("ReconcileRentalStatuses", func() {
		ctx := context.Background()
		today := utils.Today().String()

		// PENDING rentals whose start date has arrived are now ACTIVE
		activate := `
			UPDATE rentals
			SET status = 'ACTIVE',
			    updated_on = NOW()
			WHERE status = 'PENDING'
			  AND start_date <= $1
			  AND end_date >= $1
			RETURNING id
		`
		activated, err := jr.countUpdated(ctx, activate, today)
		if err != nil {
			logger.Error("Failed to activate pending rentals", "error", err)
			return
		}

		// Open rentals past their end date are awaiting checkout
		markDue := `
			UPDATE rentals
			SET status = 'CHECKOUT_DUE',
			    updated_on = NOW()
			WHERE status IN ('PENDING', 'ACTIVE')
			  AND end_date < $1
			RETURNING id
		`
		due, err := jr.countUpdated(ctx, markDue, today)
		if err != nil {
			logger.Error("Failed to mark checkout-due rentals", "error", err)
			return
		}

		logger.Info("Reconciled rental statuses", "activated", activated, "checkout_due", due)
	})
}

func (jr *JobRunner) countUpdated(ctx context.Context, query string, args ...interface{}) (int, error) {
	rows, err := jr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			logger.Error("Failed to scan reconciled rental", "error", err)
			continue
		}
		count++
	}
	return count, rows.Err()
}

// SendCheckoutDueReminders emails every client whose rental ended without a
// checkout yet.
func (jr *JobRunner) SendCheckoutDueReminders() {
	jr.runWithRecovery("SendCheckoutDueReminders", func() {
		ctx := context.Background()
		today := utils.Today()

		rentals, err := jr.store.RentalRepository.List(ctx, repository.RentalFilter{
			Bucket: repository.BucketCheckoutDue,
			Today:  today,
		})
		if err != nil {
			logger.Error("Failed to list checkout-due rentals", "error", err)
			return
		}

		sent := 0
		for i := range rentals {
			rt := &rentals[i]
			client, err := jr.store.ClientRepository.GetByID(ctx, rt.ClientID)
			if err != nil || client.Email == "" {
				continue
			}
			vehicleLabel := fmt.Sprintf("vehicle %d", rt.VehicleID)
			if v, err := jr.store.VehicleRepository.GetByID(ctx, rt.VehicleID); err == nil {
				vehicleLabel = fmt.Sprintf("%s %s (%s)", v.Brand, v.Model, v.Plate)
			}
			if err := jr.services.Email.SendCheckoutDueReminder(ctx, client.Email, rt.ID, vehicleLabel, rt.EndDate); err != nil {
				logger.Error("Failed to send checkout reminder", "rental_id", rt.ID, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Sent checkout-due reminders", "candidates", len(rentals), "sent", sent)
	})
}
