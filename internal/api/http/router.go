package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentacar-backend/internal/repository/postgres"
	"rentacar-backend/internal/service"
)

// Services bundles everything the router wires handlers to.
type Services struct {
	Rentals      service.RentalService
	Charges      service.ChargeService
	Vehicles     service.VehicleService
	Availability service.AvailabilityService
	Maintenance  service.MaintenanceService
	Reports      service.ReportService
	Store        *postgres.Store
}

// NewRouter builds the full admin-console API surface.
func NewRouter(svcs Services) *mux.Router {
	router := mux.NewRouter()
	router.Use(requestLogging)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	rentals := NewRentalHandler(svcs.Rentals, svcs.Charges)
	api.HandleFunc("/rentals", rentals.Create).Methods("POST")
	api.HandleFunc("/rentals", rentals.List).Methods("GET")
	api.HandleFunc("/rentals/{id}", rentals.Get).Methods("GET")
	api.HandleFunc("/rentals/{id}", rentals.Edit).Methods("PUT")
	api.HandleFunc("/rentals/{id}", rentals.Delete).Methods("DELETE")
	api.HandleFunc("/rentals/{id}/checkout", rentals.Checkout).Methods("PUT")
	api.HandleFunc("/rentals/{id}/cancel", rentals.Cancel).Methods("PUT")
	api.HandleFunc("/rentals/{id}/charges", rentals.ListCharges).Methods("GET")
	api.HandleFunc("/rentals/{id}/charges", rentals.AddCharge).Methods("POST")
	api.HandleFunc("/rentals/{id}/charges/{charge_id}", rentals.RemoveCharge).Methods("DELETE")

	vehicles := NewVehicleHandler(svcs.Vehicles, svcs.Availability)
	api.HandleFunc("/vehicles", vehicles.Create).Methods("POST")
	api.HandleFunc("/vehicles", vehicles.List).Methods("GET")
	api.HandleFunc("/vehicles/{id}", vehicles.Get).Methods("GET")
	api.HandleFunc("/vehicles/{id}", vehicles.Update).Methods("PUT")
	api.HandleFunc("/vehicles/{id}", vehicles.Delete).Methods("DELETE")
	api.HandleFunc("/vehicles/{id}/occupancy", vehicles.Occupancy).Methods("GET")
	api.HandleFunc("/vehicles/{id}/availability", vehicles.CheckAvailability).Methods("GET")

	maintenance := NewMaintenanceHandler(svcs.Maintenance)
	api.HandleFunc("/maintenance", maintenance.Create).Methods("POST")
	api.HandleFunc("/maintenance", maintenance.List).Methods("GET")
	api.HandleFunc("/maintenance/{id}", maintenance.Get).Methods("GET")
	api.HandleFunc("/maintenance/{id}", maintenance.Update).Methods("PUT")
	api.HandleFunc("/maintenance/{id}", maintenance.Delete).Methods("DELETE")

	catalog := NewCatalogHandler(svcs.Store.ClientRepository, svcs.Store.EmployeeRepository, svcs.Store.CategoryRepository)
	api.HandleFunc("/clients", catalog.ListClients).Methods("GET")
	api.HandleFunc("/clients/{id}", catalog.GetClient).Methods("GET")
	api.HandleFunc("/employees", catalog.ListEmployees).Methods("GET")
	api.HandleFunc("/categories", catalog.ListCategories).Methods("GET")

	reports := NewReportHandler(svcs.Reports)
	api.HandleFunc("/reports/rentals-per-period", reports.RentalsPerPeriod).Methods("GET")
	api.HandleFunc("/reports/monthly-billing", reports.MonthlyBilling).Methods("GET")
	api.HandleFunc("/reports/top-vehicles", reports.TopVehicles).Methods("GET")
	api.HandleFunc("/reports/rentals-per-client", reports.RentalsPerClient).Methods("GET")

	return router
}
