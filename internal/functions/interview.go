package functions

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/HanTheDev/recruit-api/internal/auth"
	"github.com/HanTheDev/recruit-api/internal/models"
)

type interviewTokenRequest struct {
	CandidateID string `json:"candidate_id"`
}

func (h *Handler) GenerateInterviewToken(w http.ResponseWriter, r *http.Request) {
	var req interviewTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	req.CandidateID = strings.TrimSpace(req.CandidateID)
	if req.CandidateID == "" {
		respondError(w, http.StatusBadRequest, "Campo obrigatório: candidate_id")
		return
	}

	token, err := auth.GenerateInterviewToken(h.now())
	if err != nil {
		log.Printf("Failed to generate interview token: %v", err)
		respondError(w, http.StatusInternalServerError, "Erro ao gerar token de entrevista")
		return
	}

	if err := h.store.SetInterviewToken(r.Context(), companyID(r), req.CandidateID, token); err != nil {
		if isNotFound(err) {
			respondError(w, http.StatusNotFound, "Candidato não encontrado")
			return
		}
		log.Printf("Failed to store interview token for candidate %s: %v", req.CandidateID, err)
		respondError(w, http.StatusInternalServerError, "Erro ao gerar token de entrevista")
		return
	}

	log.Printf("Interview token generated for candidate %s", req.CandidateID)
	respondJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"interview_token": token,
	})
}

type startInterviewRequest struct {
	InterviewToken string `json:"interview_token"`
}

type roomMetadata struct {
	CandidateID string `json:"candidate_id"`
	JobID       string `json:"job_id,omitempty"`
	CompanyID   string `json:"company_id"`
}

// StartInterview exchanges a candidate's interview link for access to the
// interview room.
func (h *Handler) StartInterview(w http.ResponseWriter, r *http.Request) {
	check := h.validator.Validate(r)
	if !check.Valid {
		respondError(w, http.StatusBadRequest, check.Error)
		return
	}

	if !h.allow(w, r, h.limiters.Interview, check.ClientID) {
		return
	}

	var req startInterviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.InterviewToken == "" {
		respondError(w, http.StatusBadRequest, "Campo obrigatório: interview_token")
		return
	}

	if h.tokenTTL > 0 {
		issuedAt, err := auth.InterviewTokenIssuedAt(req.InterviewToken)
		if err != nil {
			respondError(w, http.StatusNotFound, "Link de entrevista inválido")
			return
		}
		if h.now().Sub(issuedAt) > h.tokenTTL {
			respondError(w, http.StatusGone, "Link de entrevista expirado")
			return
		}
	}

	candidate, err := h.store.GetCandidateByInterviewToken(r.Context(), req.InterviewToken)
	if err != nil {
		if isNotFound(err) {
			respondError(w, http.StatusNotFound, "Link de entrevista inválido")
			return
		}
		log.Printf("Failed to resolve interview token: %v", err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return
	}
	if candidate.Status == models.CandidateStatusCompleted {
		respondError(w, http.StatusConflict, "Esta entrevista já foi concluída")
		return
	}

	var jobTitle string
	if candidate.JobID != "" {
		job, err := h.store.GetJob(r.Context(), candidate.CompanyID, candidate.JobID)
		switch {
		case err == nil:
			jobTitle = job.Title
		case !isNotFound(err):
			log.Printf("Failed to load job %s: %v", candidate.JobID, err)
		}
	}

	room := "interview-" + candidate.ID
	metadata, _ := json.Marshal(roomMetadata{
		CandidateID: candidate.ID,
		JobID:       candidate.JobID,
		CompanyID:   candidate.CompanyID,
	})

	if h.rooms == nil {
		log.Printf("Interview room requested but no room token issuer is configured")
		respondError(w, http.StatusInternalServerError, "Erro ao iniciar entrevista")
		return
	}
	accessToken, err := h.rooms.Issue(candidate.ID, candidate.Name, room, string(metadata))
	if err != nil {
		log.Printf("Failed to issue room token for candidate %s: %v", candidate.ID, err)
		respondError(w, http.StatusInternalServerError, "Erro ao iniciar entrevista")
		return
	}

	if err := h.store.MarkInterviewStarted(r.Context(), candidate.ID); err != nil {
		log.Printf("Failed to mark interview started for candidate %s: %v", candidate.ID, err)
		respondError(w, http.StatusInternalServerError, "Erro ao iniciar entrevista")
		return
	}

	log.Printf("Interview started for candidate %s in room %s", candidate.ID, room)
	respondJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"room_name":    room,
		"access_token": accessToken,
		"server_url":   h.roomServerURL,
		"candidate": map[string]string{
			"id":   candidate.ID,
			"name": candidate.Name,
		},
		"job_title": jobTitle,
	})
}
