package functions

import (
	"log"
	"net/http"
	"strings"

	"github.com/HanTheDev/recruit-api/internal/models"
	"github.com/google/uuid"
)

type evaluationCriteriaRequest struct {
	Job *models.Job `json:"job"`
}

func (h *Handler) GenerateEvaluationCriteria(w http.ResponseWriter, r *http.Request) {
	var req evaluationCriteriaRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Job == nil || strings.TrimSpace(req.Job.Title) == "" {
		respondError(w, http.StatusBadRequest, "Campo obrigatório: job.title")
		return
	}

	company := companyID(r)
	req.Job.CompanyID = company

	criteria, err := h.generator.EvaluationCriteria(r.Context(), *req.Job)
	if err != nil {
		log.Printf("Failed to generate evaluation criteria for job %q: %v", req.Job.Title, err)
		respondError(w, http.StatusInternalServerError, "Erro ao gerar critérios de avaliação")
		return
	}

	if req.Job.ID != "" {
		if err := h.store.SaveEvaluationCriteria(r.Context(), company, req.Job.ID, criteria); err != nil {
			if isNotFound(err) {
				respondError(w, http.StatusNotFound, "Vaga não encontrada")
				return
			}
			log.Printf("Failed to save evaluation criteria for job %s: %v", req.Job.ID, err)
			respondError(w, http.StatusInternalServerError, "Erro ao salvar critérios de avaliação")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"evaluation_criteria": criteria,
	})
}

type interviewContextRequest struct {
	Candidate *models.Candidate `json:"candidate"`
	Job       *models.Job       `json:"job"`
	Company   *models.Company   `json:"company"`
}

// interviewContext validates the body shared by the candidate-specific
// functions and resolves the candidate and job from the caller's own records.
// It answers the request itself when the body is unusable.
func (h *Handler) interviewContext(w http.ResponseWriter, r *http.Request) (models.InterviewContext, bool) {
	var req interviewContextRequest
	if !decodeBody(w, r, &req) {
		return models.InterviewContext{}, false
	}

	if req.Candidate == nil || req.Job == nil || req.Company == nil {
		respondError(w, http.StatusBadRequest, "Campos obrigatórios: candidate, job, company")
		return models.InterviewContext{}, false
	}
	if req.Candidate.ID == "" || req.Job.ID == "" || req.Company.ID == "" {
		respondError(w, http.StatusBadRequest, "Campos obrigatórios: candidate.id, job.id, company.id")
		return models.InterviewContext{}, false
	}
	if req.Company.ID != companyID(r) {
		respondError(w, http.StatusForbidden, "Acesso negado a esta empresa")
		return models.InterviewContext{}, false
	}

	job, err := h.store.GetJob(r.Context(), req.Company.ID, req.Job.ID)
	if err != nil {
		if isNotFound(err) {
			respondError(w, http.StatusNotFound, "Vaga não encontrada")
			return models.InterviewContext{}, false
		}
		log.Printf("Failed to load job %s: %v", req.Job.ID, err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return models.InterviewContext{}, false
	}

	candidate, err := h.store.GetCandidate(r.Context(), req.Company.ID, req.Candidate.ID)
	if err != nil {
		if isNotFound(err) {
			respondError(w, http.StatusNotFound, "Candidato não encontrado")
			return models.InterviewContext{}, false
		}
		log.Printf("Failed to load candidate %s: %v", req.Candidate.ID, err)
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		return models.InterviewContext{}, false
	}

	return models.InterviewContext{
		Candidate: *candidate,
		Job:       *job,
		Company:   *req.Company,
	}, true
}

func (h *Handler) GenerateContextualCriteria(w http.ResponseWriter, r *http.Request) {
	in, ok := h.interviewContext(w, r)
	if !ok {
		return
	}

	cc, err := h.generator.ContextualCriteria(r.Context(), in)
	if err != nil {
		log.Printf("Failed to generate contextual criteria for candidate %s: %v", in.Candidate.ID, err)
		respondError(w, http.StatusInternalServerError, "Erro ao gerar critérios contextuais")
		return
	}

	cc.ID = uuid.NewString()
	cc.CandidateID = in.Candidate.ID
	cc.JobID = in.Job.ID
	cc.CompanyID = in.Company.ID
	cc.CreatedAt = h.now()

	if err := h.store.SaveContextualCriteria(r.Context(), cc); err != nil {
		log.Printf("Failed to save contextual criteria for candidate %s: %v", in.Candidate.ID, err)
		respondError(w, http.StatusInternalServerError, "Erro ao salvar critérios contextuais")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"contextual_criteria": cc,
		"context_id":          cc.ID,
	})
}

func (h *Handler) PlanInterview(w http.ResponseWriter, r *http.Request) {
	in, ok := h.interviewContext(w, r)
	if !ok {
		return
	}

	plan, err := h.generator.InterviewPlan(r.Context(), in)
	if err != nil {
		log.Printf("Failed to plan interview for candidate %s: %v", in.Candidate.ID, err)
		respondError(w, http.StatusInternalServerError, "Erro ao planejar entrevista")
		return
	}

	plan.ID = uuid.NewString()
	plan.CandidateID = in.Candidate.ID
	plan.JobID = in.Job.ID
	plan.CompanyID = in.Company.ID
	plan.CreatedAt = h.now()

	if err := h.store.SaveInterviewPlan(r.Context(), plan); err != nil {
		log.Printf("Failed to save interview plan for candidate %s: %v", in.Candidate.ID, err)
		respondError(w, http.StatusInternalServerError, "Erro ao salvar plano de entrevista")
		return
	}

	log.Printf("Interview plan %s created for candidate %s", plan.ID, in.Candidate.ID)
	respondJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"interview_plan_id": plan.ID,
		"interview_plan":    plan,
	})
}
