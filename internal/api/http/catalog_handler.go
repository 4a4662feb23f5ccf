package http

import (
	"net/http"

	"rentacar-backend/internal/repository"
)

// CatalogHandler serves the read-only reference entities the console's
// selectors need: clients, employees and vehicle categories.
type CatalogHandler struct {
	clients    repository.ClientRepository
	employees  repository.EmployeeRepository
	categories repository.CategoryRepository
}

func NewCatalogHandler(clients repository.ClientRepository, employees repository.EmployeeRepository, categories repository.CategoryRepository) *CatalogHandler {
	return &CatalogHandler{clients: clients, employees: employees, categories: categories}
}

func (h *CatalogHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	out, err := h.clients.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondDomainError(w, err)
		return
	}
	client, err := h.clients.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, client)
}

func (h *CatalogHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	out, err := h.employees.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	out, err := h.categories.List(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, out)
}
