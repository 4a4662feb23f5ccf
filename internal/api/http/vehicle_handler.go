package http

import (
	"encoding/json"
	"net/http"

	"rentacar-backend/internal/service"
)

// VehicleHandler serves the vehicle selector views and availability checks.
type VehicleHandler struct {
	vehicles     service.VehicleService
	availability service.AvailabilityService
}

func NewVehicleHandler(vehicles service.VehicleService, availability service.AvailabilityService) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, availability: availability}
}

type vehicleRequest struct {
	Plate      string `json:"plate"`
	Brand      string `json:"brand"`
	Model      string `json:"model"`
	Year       int    `json:"year"`
	CategoryID int64  `json:"category_id"`
	CurrentKm  int64  `json:"current_km"`
}

func (req vehicleRequest) draft() service.VehicleDraft {
	return service.VehicleDraft{
		Plate:      req.Plate,
		Brand:      req.Brand,
		Model:      req.Model,
		Year:       req.Year,
		CategoryID: req.CategoryID,
		CurrentKm:  req.CurrentKm,
	}
}

func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vehicle, err := h.vehicles.Create(r.Context(), req.draft())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	vehicle, err := h.vehicles.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	var req vehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	vehicle, err := h.vehicles.Update(r.Context(), id, req.draft())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if err := h.vehicles.Delete(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	// ?availability=true annotates each vehicle with its bucket for today.
	if r.URL.Query().Get("availability") == "true" {
		out, err := h.vehicles.ListWithAvailability(r.Context())
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, out)
		return
	}

	out, err := h.vehicles.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *VehicleHandler) Occupancy(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	occupancy, err := h.vehicles.Occupancy(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, occupancy)
}

// CheckAvailability answers whether a vehicle is free for a candidate
// interval, listing every colliding rental and maintenance window.
func (h *VehicleHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	q := r.URL.Query()

	excludeRentalID, err := queryInt64(r, "exclude_rental_id")
	if err != nil {
		respondDomainError(w, err)
		return
	}

	result, err := h.availability.CheckAvailability(r.Context(), id, q.Get("start_date"), q.Get("end_date"), excludeRentalID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
