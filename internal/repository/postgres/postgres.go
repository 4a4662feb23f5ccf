package postgres

import (
	"database/sql"

	"rentacar-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RentalRepository
	repository.VehicleRepository
	repository.CategoryRepository
	repository.ClientRepository
	repository.EmployeeRepository
	repository.ChargeRepository
	repository.MaintenanceRepository
	repository.ReportRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		RentalRepository:      NewRentalRepository(db),
		VehicleRepository:     NewVehicleRepository(db),
		CategoryRepository:    NewCategoryRepository(db),
		ClientRepository:      NewClientRepository(db),
		EmployeeRepository:    NewEmployeeRepository(db),
		ChargeRepository:      NewChargeRepository(db),
		MaintenanceRepository: NewMaintenanceRepository(db),
		ReportRepository:      NewReportRepository(db),
	}
}
