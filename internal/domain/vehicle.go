package domain

import "rentacar-backend/internal/utils"

type Vehicle struct {
	ID                int64       `json:"id"`
	Plate             string      `json:"plate"`
	Brand             string      `json:"brand"`
	Model             string      `json:"model"`
	Year              int         `json:"year"`
	CategoryID        int64       `json:"category_id"`
	CurrentKm         int64       `json:"current_km"`
	LastMaintenanceOn *utils.Date `json:"last_maintenance_on,omitempty"`
}

// VehicleCategory carries the daily rate used for base cost computation.
type VehicleCategory struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	DailyRateCents int64  `json:"daily_rate_cents"`
}

// Availability buckets for vehicle selector views. A vehicle under
// maintenance is never merged into the occupied bucket.
type AvailabilityBucket string

const (
	BucketAvailable     AvailabilityBucket = "AVAILABLE"
	BucketInMaintenance AvailabilityBucket = "IN_MAINTENANCE"
	BucketOccupied      AvailabilityBucket = "OCCUPIED"
)

// Occupancy details accompanying a non-available bucket. Occupied vehicles
// carry the effective rental status instead when a rental is running.
const (
	DetailMaintenance = "MAINTENANCE"
	DetailReserved    = "RESERVED"
)

// VehicleAvailability is the per-vehicle classification for a given day.
type VehicleAvailability struct {
	Vehicle Vehicle            `json:"vehicle"`
	Bucket  AvailabilityBucket `json:"bucket"`
	Detail  string             `json:"detail,omitempty"`
}

// VehicleOccupancy lists the intervals a vehicle is committed to.
type VehicleOccupancy struct {
	Vehicle      Vehicle       `json:"vehicle"`
	Rentals      []Rental      `json:"rentals"`
	Maintenances []Maintenance `json:"maintenances"`
}
