package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/repository"
	"rentacar-backend/internal/service"
)

type MaintenanceHandler struct {
	maintenance service.MaintenanceService
}

func NewMaintenanceHandler(maintenance service.MaintenanceService) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance}
}

type maintenanceRequest struct {
	VehicleID   int64   `json:"vehicle_id"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date,omitempty"`
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	CostCents   int64   `json:"cost_cents"`
	EmployeeID  *int64  `json:"employee_id,omitempty"`
}

func (req maintenanceRequest) draft() service.MaintenanceDraft {
	return service.MaintenanceDraft{
		VehicleID:   req.VehicleID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Kind:        req.Kind,
		Description: req.Description,
		CostCents:   req.CostCents,
		EmployeeID:  req.EmployeeID,
	}
}

func (h *MaintenanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req maintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.maintenance.Create(r.Context(), req.draft())
	if err != nil {
		// A partial failure means the record was created but some cascading
		// cancellations did not go through; the outcomes in the result say
		// which ones.
		var partial *domain.PartialFailure
		if !errors.As(err, &partial) {
			respondDomainError(w, err)
			return
		}
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *MaintenanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	record, err := h.maintenance.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (h *MaintenanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	var req maintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.maintenance.Update(r.Context(), id, req.draft())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

func (h *MaintenanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if err := h.maintenance.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MaintenanceHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repository.MaintenanceFilter
	q := r.URL.Query()

	var err error
	if filter.VehicleID, err = queryInt64(r, "vehicle_id"); err != nil {
		respondDomainError(w, err)
		return
	}
	if filter.EmployeeID, err = queryInt64(r, "employee_id"); err != nil {
		respondDomainError(w, err)
		return
	}

	switch kind := q.Get("kind"); kind {
	case "", string(domain.MaintenancePreventive), string(domain.MaintenanceCorrective):
		filter.Kind = kind
	default:
		respondDomainError(w, domain.NewValidationError("kind", "kind must be PREVENTIVE or CORRECTIVE"))
		return
	}
	switch state := q.Get("state"); state {
	case "", "ongoing", "finished":
		filter.State = state
	default:
		respondDomainError(w, domain.NewValidationError("state", "state must be ongoing or finished"))
		return
	}

	records, err := h.maintenance.List(r.Context(), filter)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}
