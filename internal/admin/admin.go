// Package admin exposes operator endpoints for managing the companies that use
// the dashboard functions.
package admin

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/HanTheDev/recruit-api/internal/db"
	"github.com/HanTheDev/recruit-api/internal/models"
	"github.com/gorilla/mux"
)

const HeaderAdminKey = "X-Admin-Key"

type CompanyStore interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompanyByID(ctx context.Context, id string) (*models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) error
	UpdateCompany(ctx context.Context, id string, update db.CompanyUpdate) error
	DeleteCompany(ctx context.Context, id string) error
	RotateAPIKey(ctx context.Context, id, apiKey string) error
}

type AdminHandler struct {
	store    CompanyStore
	adminKey string
}

func NewAdminHandler(store CompanyStore, adminKey string) *AdminHandler {
	return &AdminHandler{store: store, adminKey: adminKey}
}

func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(h.requireAdminKey)

	// Company management
	admin.HandleFunc("/companies", h.ListCompanies).Methods("GET")
	admin.HandleFunc("/companies", h.CreateCompany).Methods("POST")
	admin.HandleFunc("/companies/{id}", h.GetCompany).Methods("GET")
	admin.HandleFunc("/companies/{id}", h.UpdateCompany).Methods("PUT")
	admin.HandleFunc("/companies/{id}", h.DeleteCompany).Methods("DELETE")
	admin.HandleFunc("/companies/{id}/rotate-key", h.RotateAPIKey).Methods("POST")
}

// requireAdminKey rejects every request when no admin key is configured.
func (h *AdminHandler) requireAdminKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(HeaderAdminKey)
		if h.adminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.adminKey)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Website  string `json:"website"`
		Industry string `json:"industry"`
		Culture  string `json:"culture"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		http.Error(w, "Failed to generate API key", http.StatusInternalServerError)
		return
	}

	company := &models.Company{
		Name:     req.Name,
		APIKey:   apiKey,
		Website:  req.Website,
		Industry: req.Industry,
		Culture:  req.Culture,
	}

	if err := h.store.CreateCompany(r.Context(), company); err != nil {
		log.Printf("Failed to create company: %v", err)
		http.Error(w, "Failed to create company", http.StatusInternalServerError)
		return
	}

	log.Printf("Company created: %s (%s)", company.Name, company.ID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(company)
}

func (h *AdminHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.store.ListCompanies(r.Context())
	if err != nil {
		log.Printf("Failed to list companies: %v", err)
		http.Error(w, "Failed to list companies", http.StatusInternalServerError)
		return
	}

	// API keys are only shown on creation and rotation.
	for i := range companies {
		companies[i].APIKey = ""
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(companies)
}

func (h *AdminHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := h.store.GetCompanyByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeStoreError(w, err, "Failed to get company")
		return
	}
	company.APIKey = ""

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(company)
}

func (h *AdminHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var update db.CompanyUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if update.Name != nil && *update.Name == "" {
		http.Error(w, "Name cannot be empty", http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateCompany(r.Context(), mux.Vars(r)["id"], update); err != nil {
		writeStoreError(w, err, "Failed to update company")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "updated"})
}

func (h *AdminHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCompany(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeStoreError(w, err, "Failed to delete company")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) RotateAPIKey(w http.ResponseWriter, r *http.Request) {
	newAPIKey, err := generateAPIKey()
	if err != nil {
		http.Error(w, "Failed to generate API key", http.StatusInternalServerError)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.store.RotateAPIKey(r.Context(), id, newAPIKey); err != nil {
		writeStoreError(w, err, "Failed to rotate API key")
		return
	}

	log.Printf("API key rotated for company %s", id)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"api_key": newAPIKey,
		"status":  "rotated",
	})
}

func writeStoreError(w http.ResponseWriter, err error, message string) {
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}
	log.Printf("%s: %v", message, err)
	http.Error(w, message, http.StatusInternalServerError)
}

func generateAPIKey() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
