package functions

import (
	"log"
	"net/http"

	"github.com/HanTheDev/recruit-api/internal/auth"
)

// IssueToken exchanges a company API key for a bearer token.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, h.limiters.Auth, clientIP(r)) {
		return
	}

	var req struct {
		APIKey string `json:"api_key"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.APIKey == "" {
		respondError(w, http.StatusBadRequest, "Campo obrigatório: api_key")
		return
	}

	company, err := h.store.GetCompanyByAPIKey(r.Context(), req.APIKey)
	if err != nil {
		if !isNotFound(err) {
			log.Printf("Company lookup failed: %v", err)
		}
		respondError(w, http.StatusUnauthorized, "Chave de API inválida")
		return
	}

	token, err := auth.GenerateToken(company.ID, h.jwtSecret)
	if err != nil {
		log.Printf("Token generation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Erro ao gerar token")
		return
	}

	log.Printf("Token generated for company: %s", company.Name)
	respondJSON(w, http.StatusOK, map[string]string{
		"token": token,
	})
}
