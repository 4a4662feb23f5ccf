package domain

import "time"

type ChargeKind string

const (
	ChargeFine   ChargeKind = "FINE"
	ChargeDamage ChargeKind = "DAMAGE"
	ChargeDelay  ChargeKind = "DELAY"
	ChargeOther  ChargeKind = "OTHER"
)

// Charge is a fine or damage recorded against a rental. The rental's total
// cost is always base cost plus the sum of its charges, recomputed on every
// charge mutation.
type Charge struct {
	ID          int64      `json:"id"`
	RentalID    int64      `json:"rental_id"`
	Kind        ChargeKind `json:"kind"`
	Description string     `json:"description"`
	AmountCents int64      `json:"amount_cents"`
	RecordedOn  time.Time  `json:"recorded_on"`
}
