package http

import (
	"encoding/json"
	"net/http"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/service"
	"rentacar-backend/internal/utils"
)

// RentalHandler exposes the rental lifecycle over REST.
type RentalHandler struct {
	rentals service.RentalService
	charges service.ChargeService
}

func NewRentalHandler(rentals service.RentalService, charges service.ChargeService) *RentalHandler {
	return &RentalHandler{rentals: rentals, charges: charges}
}

type createRentalRequest struct {
	ClientID      int64  `json:"client_id"`
	VehicleID     int64  `json:"vehicle_id"`
	EmployeeID    int64  `json:"employee_id"`
	ReservationID *int64 `json:"reservation_id,omitempty"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Notes         string `json:"notes"`
}

type editRentalRequest struct {
	ClientID   *int64  `json:"client_id,omitempty"`
	VehicleID  *int64  `json:"vehicle_id,omitempty"`
	EmployeeID *int64  `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type checkoutRequest struct {
	FinalKm            int64  `json:"final_km"`
	ClosingEmployeeID  int64  `json:"closing_employee_id"`
	Notes              string `json:"notes"`
	ConfirmHighMileage bool   `json:"confirm_high_mileage"`
}

type cancelRequest struct {
	Reason     string `json:"reason"`
	EmployeeID int64  `json:"employee_id"`
}

type addChargeRequest struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
}

func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rental, err := h.rentals.Create(r.Context(), service.RentalDraft{
		ClientID:      req.ClientID,
		VehicleID:     req.VehicleID,
		EmployeeID:    req.EmployeeID,
		ReservationID: req.ReservationID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Notes:         req.Notes,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	rental, err := h.rentals.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRentalFilter(r)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	rentals, err := h.rentals.List(r.Context(), filter)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rentals)
}

func (h *RentalHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	var req editRentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rental, err := h.rentals.Edit(r.Context(), id, service.RentalPatch{
		ClientID:   req.ClientID,
		VehicleID:  req.VehicleID,
		EmployeeID: req.EmployeeID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Notes:      req.Notes,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rental)
}

// Checkout closes a rental. High-mileage confirmation cannot be interactive
// over HTTP, so the request carries the operator's answer up front.
func (h *RentalHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.rentals.Checkout(r.Context(), id, service.CheckoutInput{
		FinalKm:           req.FinalKm,
		ClosingEmployeeID: req.ClosingEmployeeID,
		Notes:             req.Notes,
	}, service.StaticNotifier{ConfirmAnswer: req.ConfirmHighMileage})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *RentalHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.rentals.Cancel(r.Context(), id, req.Reason, req.EmployeeID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *RentalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if err := h.rentals.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RentalHandler) ListCharges(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	charges, err := h.charges.ListForRental(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, charges)
}

func (h *RentalHandler) AddCharge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	var req addChargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	charge, err := h.charges.Add(r.Context(), id, req.Kind, req.Description, req.AmountCents)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, charge)
}

func (h *RentalHandler) RemoveCharge(w http.ResponseWriter, r *http.Request) {
	chargeID, err := pathID(r, "charge_id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if err := h.charges.Remove(r.Context(), chargeID); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseRentalFilter(r *http.Request) (repository.RentalFilter, error) {
	var filter repository.RentalFilter
	q := r.URL.Query()

	switch bucket := q.Get("status"); bucket {
	case "", repository.BucketPending, repository.BucketActive,
		repository.BucketCheckoutDue, repository.BucketFinalized, repository.BucketCancelled:
		filter.Bucket = bucket
	default:
		return filter, domain.NewValidationError("status",
			"must be one of pending, active, checkout_due, finalized, cancelled")
	}

	var err error
	if filter.ClientID, err = queryInt64(r, "client_id"); err != nil {
		return filter, err
	}
	if filter.VehicleID, err = queryInt64(r, "vehicle_id"); err != nil {
		return filter, err
	}
	if filter.EmployeeID, err = queryInt64(r, "employee_id"); err != nil {
		return filter, err
	}

	for name, dst := range map[string]**utils.Date{
		"start_from": &filter.StartFrom,
		"start_to":   &filter.StartTo,
		"end_from":   &filter.EndFrom,
		"end_to":     &filter.EndTo,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		d, err := utils.ParseDate(raw)
		if err != nil {
			return filter, domain.NewValidationError(name, err.Error())
		}
		*dst = &d
	}
	return filter, nil
}
