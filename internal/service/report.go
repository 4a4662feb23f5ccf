package service

import (
	"context"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

type reportService struct {
	reportRepo repository.ReportRepository
}

func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

func (s *reportService) RentalsPerPeriod(ctx context.Context, period string, from, to *utils.Date) ([]domain.PeriodCount, error) {
	switch period {
	case repository.PeriodMonth, repository.PeriodQuarter:
	default:
		return nil, domain.NewValidationError("period", "period must be month or quarter")
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.NewValidationError("to", "to date is before from date")
	}
	return s.reportRepo.RentalsPerPeriod(ctx, period, from, to)
}

func (s *reportService) MonthlyBilling(ctx context.Context, from, to *utils.Date) ([]domain.PeriodAmount, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, domain.NewValidationError("to", "to date is before from date")
	}
	return s.reportRepo.MonthlyBilling(ctx, from, to)
}

func (s *reportService) TopVehicles(ctx context.Context, limit int) ([]domain.VehicleRentalCount, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.reportRepo.TopVehicles(ctx, limit)
}

func (s *reportService) RentalsPerClient(ctx context.Context) ([]domain.ClientRentalCount, error) {
	return s.reportRepo.RentalsPerClient(ctx)
}
