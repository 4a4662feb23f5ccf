package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "rentacar-backend/internal/api/http"
	"rentacar-backend/internal/config"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository/postgres"
	"rentacar-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rentacar Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.SendGrid.APIKey != "" {
		emailSvc = service.NewSendGridEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
		logger.Info("SendGrid email delivery enabled", "from", cfg.SendGrid.FromEmail)
	} else {
		emailSvc = service.NewNoopEmailService()
		logger.Info("Email delivery disabled (no SendGrid API key)")
	}

	// Initialize Services
	availabilitySvc := service.NewAvailabilityService(
		store.RentalRepository,
		store.VehicleRepository,
		store.MaintenanceRepository,
	)
	maintenanceSvc := service.NewMaintenanceService(
		store.MaintenanceRepository,
		store.VehicleRepository,
		store.RentalRepository,
		store.EmployeeRepository,
		store.ClientRepository,
		emailSvc,
		cfg.Rental.HighMileageThresholdKm,
		cfg.Rental.DefaultResponsibleEmployeeID,
	)
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.VehicleRepository,
		store.CategoryRepository,
		store.ClientRepository,
		store.EmployeeRepository,
		store.ChargeRepository,
		availabilitySvc,
		maintenanceSvc,
		cfg.Rental.HighMileageThresholdKm,
	)
	// Cascading cancellations go through the rental state machine
	maintenanceSvc.SetRentalCanceller(rentalSvc)

	chargeSvc := service.NewChargeService(store.ChargeRepository, store.RentalRepository)
	vehicleSvc := service.NewVehicleService(store.VehicleRepository, store.RentalRepository, store.MaintenanceRepository, store.CategoryRepository)
	reportSvc := service.NewReportService(store.ReportRepository)

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Rentals:      rentalSvc,
		Charges:      chargeSvc,
		Vehicles:     vehicleSvc,
		Availability: availabilitySvc,
		Maintenance:  maintenanceSvc,
		Reports:      reportSvc,
		Store:        store,
	})

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := http.ListenAndServe(cfg.GetServerAddress(), router); err != nil {
		logger.Error("HTTP server error", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
