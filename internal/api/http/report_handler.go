package http

import (
	"net/http"
	"strconv"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/service"
	"rentacar-backend/internal/utils"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) RentalsPerPeriod(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "month"
	}

	out, err := h.reports.RentalsPerPeriod(r.Context(), period, from, to)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *ReportHandler) MonthlyBilling(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	out, err := h.reports.MonthlyBilling(r.Context(), from, to)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *ReportHandler) TopVehicles(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondDomainError(w, domain.NewValidationError("limit", "must be an integer"))
			return
		}
		limit = parsed
	}

	out, err := h.reports.TopVehicles(r.Context(), limit)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *ReportHandler) RentalsPerClient(w http.ResponseWriter, r *http.Request) {
	out, err := h.reports.RentalsPerClient(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func dateRange(r *http.Request) (*utils.Date, *utils.Date, error) {
	var from, to *utils.Date
	if raw := r.URL.Query().Get("from"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return nil, nil, domain.NewValidationError("from", err.Error())
		}
		from = &d
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		d, err := utils.ParseDate(raw)
		if err != nil {
			return nil, nil, domain.NewValidationError("to", err.Error())
		}
		to = &d
	}
	return from, to, nil
}
