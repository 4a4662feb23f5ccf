package service

import (
	"context"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/logger"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/utils"
)

type chargeService struct {
	chargeRepo repository.ChargeRepository
	rentalRepo repository.RentalRepository
}

func NewChargeService(chargeRepo repository.ChargeRepository, rentalRepo repository.RentalRepository) ChargeService {
	return &chargeService{chargeRepo: chargeRepo, rentalRepo: rentalRepo}
}

func (s *chargeService) Add(ctx context.Context, rentalID int64, kind, description string, amountCents int64) (*domain.Charge, error) {
	if amountCents <= 0 {
		return nil, domain.NewValidationError("amount_cents", "amount must be positive")
	}
	ck := domain.ChargeKind(kind)
	switch ck {
	case domain.ChargeFine, domain.ChargeDamage, domain.ChargeDelay, domain.ChargeOther:
	default:
		return nil, domain.NewValidationError("kind", "kind must be FINE, DAMAGE, DELAY or OTHER")
	}

	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	charge := &domain.Charge{
		RentalID:    rentalID,
		Kind:        ck,
		Description: description,
		AmountCents: amountCents,
	}
	if err := s.chargeRepo.Create(ctx, charge); err != nil {
		return nil, err
	}
	if err := s.recomputeTotal(ctx, rental); err != nil {
		return nil, err
	}

	logger.Info("charge added", "charge_id", charge.ID, "rental_id", rentalID,
		"kind", ck, "amount", utils.FormatCents(amountCents))
	return charge, nil
}

func (s *chargeService) Remove(ctx context.Context, chargeID int64) error {
	charge, err := s.chargeRepo.GetByID(ctx, chargeID)
	if err != nil {
		return err
	}
	rental, err := s.rentalRepo.GetByID(ctx, charge.RentalID)
	if err != nil {
		return err
	}
	if err := s.chargeRepo.Delete(ctx, chargeID); err != nil {
		return err
	}
	return s.recomputeTotal(ctx, rental)
}

func (s *chargeService) ListForRental(ctx context.Context, rentalID int64) ([]domain.Charge, error) {
	if _, err := s.rentalRepo.GetByID(ctx, rentalID); err != nil {
		return nil, err
	}
	return s.chargeRepo.ListByRental(ctx, rentalID)
}

// recomputeTotal rebuilds total cost from the stored base plus the surviving
// charges, so the total is always derivable from its parts.
func (s *chargeService) recomputeTotal(ctx context.Context, rental *domain.Rental) error {
	charges, err := s.chargeRepo.ListByRental(ctx, rental.ID)
	if err != nil {
		return err
	}
	amounts := make([]int64, 0, len(charges))
	for _, c := range charges {
		amounts = append(amounts, c.AmountCents)
	}
	total := utils.ComputeTotalCost(rental.BaseCostCents, amounts)
	return s.rentalRepo.UpdateTotalCost(ctx, rental.ID, total)
}
