package functions

import (
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/HanTheDev/recruit-api/internal/models"
	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type waitlistRequest struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	Company           string `json:"company"`
	JobTitle          string `json:"job_title"`
	NewsletterConsent bool   `json:"newsletter_consent"`
	RecaptchaToken    string `json:"recaptcha_token"`
}

func (h *Handler) WaitlistSignup(w http.ResponseWriter, r *http.Request) {
	check := h.validator.Validate(r)
	if !check.Valid {
		log.Printf("Rejected waitlist request: %s", check.Error)
		respondError(w, http.StatusBadRequest, check.Error)
		return
	}

	if !h.allow(w, r, h.limiters.Waitlist, check.ClientID) {
		return
	}

	var req waitlistRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "Email e nome são obrigatórios")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		respondError(w, http.StatusBadRequest, "Formato de email inválido")
		return
	}

	ok, err := h.captcha.Verify(r.Context(), req.RecaptchaToken, clientIP(r))
	if err != nil {
		log.Printf("CAPTCHA verification failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Erro ao verificar CAPTCHA")
		return
	}
	if !ok {
		respondError(w, http.StatusBadRequest, "Verificação CAPTCHA falhou")
		return
	}

	exists, err := h.store.WaitlistEmailExists(r.Context(), req.Email)
	if err != nil {
		log.Printf("Failed to check waitlist email: %v", err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}
	if exists {
		respondError(w, http.StatusConflict, "Este email já está cadastrado na lista de espera")
		return
	}

	entry := &models.WaitlistEntry{
		ID:                uuid.NewString(),
		Email:             req.Email,
		Name:              req.Name,
		Company:           strings.TrimSpace(req.Company),
		JobTitle:          strings.TrimSpace(req.JobTitle),
		NewsletterConsent: req.NewsletterConsent,
		ClientID:          check.ClientID,
		CreatedAt:         h.now(),
	}
	if err := h.store.CreateWaitlistEntry(r.Context(), entry); err != nil {
		if isDuplicate(err) {
			respondError(w, http.StatusConflict, "Este email já está cadastrado na lista de espera")
			return
		}
		log.Printf("Failed to create waitlist entry: %v", err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}

	if h.email != nil {
		if err := h.email.SendWaitlistConfirmation(entry.Email, entry.Name); err != nil {
			log.Printf("Failed to send waitlist confirmation to %s: %v", entry.Email, err)
		}
	}

	log.Printf("Waitlist signup: %s", entry.Email)
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Inscrição realizada com sucesso!",
	})
}
