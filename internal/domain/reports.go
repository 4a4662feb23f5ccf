package domain

// Report rows are read-only aggregations over closed and open rentals.

type PeriodCount struct {
	Period      string `json:"period"` // "2025-03" or "2025-Q1"
	RentalCount int64  `json:"rental_count"`
}

type PeriodAmount struct {
	Period         string `json:"period"`
	TotalCostCents int64  `json:"total_cost_cents"`
	RentalCount    int64  `json:"rental_count"`
}

type VehicleRentalCount struct {
	VehicleID   int64  `json:"vehicle_id"`
	Plate       string `json:"plate"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	RentalCount int64  `json:"rental_count"`
}

type ClientRentalCount struct {
	ClientID    int64  `json:"client_id"`
	Name        string `json:"name"`
	LastName    string `json:"last_name"`
	RentalCount int64  `json:"rental_count"`
	TotalCents  int64  `json:"total_cents"`
}
