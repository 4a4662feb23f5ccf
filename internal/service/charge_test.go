package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentacar-backend/internal/domain"
)

func TestChargeService_Add(t *testing.T) {
	ctx := context.Background()
	rental := &domain.Rental{ID: 1, BaseCostCents: 2500000, TotalCostCents: 2500000}

	t.Run("adding a charge recomputes the total", func(t *testing.T) {
		chargeRepo := new(MockChargeRepo)
		rentalRepo := new(MockRentalRepo)
		svc := NewChargeService(chargeRepo, rentalRepo)

		rentalRepo.On("GetByID", ctx, int64(1)).Return(rental, nil)
		chargeRepo.On("Create", ctx, mock.AnythingOfType("*domain.Charge")).
			Run(func(args mock.Arguments) { args.Get(1).(*domain.Charge).ID = 5 }).Return(nil)
		chargeRepo.On("ListByRental", ctx, int64(1)).Return([]domain.Charge{
			{ID: 5, RentalID: 1, AmountCents: 10000},
		}, nil)
		rentalRepo.On("UpdateTotalCost", ctx, int64(1), int64(2510000)).Return(nil)

		charge, err := svc.Add(ctx, 1, "FINE", "speeding ticket", 10000)
		assert.NoError(t, err)
		assert.Equal(t, int64(5), charge.ID)
		rentalRepo.AssertCalled(t, "UpdateTotalCost", ctx, int64(1), int64(2510000))
	})

	t.Run("non positive amount is invalid", func(t *testing.T) {
		svc := NewChargeService(new(MockChargeRepo), new(MockRentalRepo))

		_, err := svc.Add(ctx, 1, "FINE", "", 0)
		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
		assert.Equal(t, "amount_cents", validation.Field)
	})

	t.Run("unknown kind is invalid", func(t *testing.T) {
		svc := NewChargeService(new(MockChargeRepo), new(MockRentalRepo))

		_, err := svc.Add(ctx, 1, "SURPRISE", "", 10000)
		var validation *domain.ValidationError
		assert.ErrorAs(t, err, &validation)
		assert.Equal(t, "kind", validation.Field)
	})

	t.Run("unknown rental is not found", func(t *testing.T) {
		chargeRepo := new(MockChargeRepo)
		rentalRepo := new(MockRentalRepo)
		svc := NewChargeService(chargeRepo, rentalRepo)
		rentalRepo.On("GetByID", ctx, int64(99)).Return(nil, domain.NewNotFoundError("rental", 99))

		_, err := svc.Add(ctx, 99, "FINE", "", 10000)
		var nf *domain.NotFoundError
		assert.ErrorAs(t, err, &nf)
	})
}

func TestChargeService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("removing a charge shrinks the total back", func(t *testing.T) {
		chargeRepo := new(MockChargeRepo)
		rentalRepo := new(MockRentalRepo)
		svc := NewChargeService(chargeRepo, rentalRepo)

		chargeRepo.On("GetByID", ctx, int64(5)).Return(&domain.Charge{ID: 5, RentalID: 1, AmountCents: 10000}, nil)
		rentalRepo.On("GetByID", ctx, int64(1)).Return(&domain.Rental{ID: 1, BaseCostCents: 2500000}, nil)
		chargeRepo.On("Delete", ctx, int64(5)).Return(nil)
		chargeRepo.On("ListByRental", ctx, int64(1)).Return([]domain.Charge{}, nil)
		rentalRepo.On("UpdateTotalCost", ctx, int64(1), int64(2500000)).Return(nil)

		err := svc.Remove(ctx, 5)
		assert.NoError(t, err)
		rentalRepo.AssertCalled(t, "UpdateTotalCost", ctx, int64(1), int64(2500000))
	})
}
