package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
)

// Read-only lookups for clients, employees and vehicle categories. The core
// resolves names and rates through these but never mutates them.

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*domain.VehicleCategory, error) {
	c := &domain.VehicleCategory{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, daily_rate_cents FROM vehicle_categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.DailyRateCents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("category", id)
		}
		return nil, fmt.Errorf("fetching category %d: %w", id, err)
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.VehicleCategory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, daily_rate_cents FROM vehicle_categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.VehicleCategory
	for rows.Next() {
		var c domain.VehicleCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.DailyRateCents); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) repository.ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	c := &domain.Client{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, last_name, document, email, phone FROM clients WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.LastName, &c.Document, &c.Email, &c.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("client", id)
		}
		return nil, fmt.Errorf("fetching client %d: %w", id, err)
	}
	return c, nil
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, last_name, document, email, phone FROM clients ORDER BY last_name, name`)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.LastName, &c.Document, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

type employeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) repository.EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	e := &domain.Employee{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, role FROM employees WHERE id = $1`, id).
		Scan(&e.ID, &e.Name, &e.Email, &e.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError("employee", id)
		}
		return nil, fmt.Errorf("fetching employee %d: %w", id, err)
	}
	return e, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, role FROM employees ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var employees []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Role); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
