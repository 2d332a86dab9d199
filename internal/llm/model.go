package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/HanTheDev/recruit-api/internal/models"
)

var ErrEmptyResponse = errors.New("model returned no usable content")

// ModelGenerator builds prompts, sends them to a TextModel and decodes the JSON answer.
type ModelGenerator struct {
	model TextModel
}

func NewModelGenerator(model TextModel) *ModelGenerator {
	return &ModelGenerator{model: model}
}

func (g *ModelGenerator) EvaluationCriteria(ctx context.Context, job models.Job) ([]models.EvaluationCriterion, error) {
	prompt := fmt.Sprintf(`Você é um especialista em recrutamento.
Gere de 4 a 6 critérios de avaliação para entrevistas da vaga abaixo.
Responda somente com JSON no formato:
{"evaluation_criteria":[{"name":"...","description":"...","weight":25}]}
Os pesos devem somar 100.

Vaga:
%s`, mustJSON(job))

	var out struct {
		EvaluationCriteria []models.EvaluationCriterion `json:"evaluation_criteria"`
	}
	if err := g.generateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	if len(out.EvaluationCriteria) == 0 {
		return nil, ErrEmptyResponse
	}
	return out.EvaluationCriteria, nil
}

func (g *ModelGenerator) ContextualCriteria(ctx context.Context, in models.InterviewContext) (*models.ContextualCriteria, error) {
	prompt := fmt.Sprintf(`Você é um especialista em recrutamento.
Com base no candidato, na vaga e na empresa abaixo, gere critérios de avaliação específicos para este candidato.
Responda somente com JSON no formato:
{"summary":"...","criteria":[{"criterion":"...","rationale":"...","indicators":["..."],"weight":30,"focus_area":"...","risk_signals":["..."]}]}

Contexto:
%s`, mustJSON(in))

	var out models.ContextualCriteria
	if err := g.generateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	if len(out.Criteria) == 0 {
		return nil, ErrEmptyResponse
	}
	out.CandidateID = in.Candidate.ID
	out.JobID = in.Job.ID
	out.CompanyID = in.Company.ID
	return &out, nil
}

func (g *ModelGenerator) InterviewPlan(ctx context.Context, in models.InterviewContext) (*models.InterviewPlan, error) {
	prompt := fmt.Sprintf(`Você é um entrevistador experiente conduzindo uma entrevista por voz.
Monte um roteiro de entrevista de cerca de 30 minutos para o contexto abaixo.
Responda somente com JSON no formato:
{"duration_minutes":30,"stages":[{"name":"...","objective":"...","questions":[{"question":"...","purpose":"...","follow_ups":["..."],"duration_minutes":5}]}]}

Contexto:
%s`, mustJSON(in))

	var out models.InterviewPlan
	if err := g.generateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	if len(out.Stages) == 0 {
		return nil, ErrEmptyResponse
	}
	out.CandidateID = in.Candidate.ID
	out.JobID = in.Job.ID
	out.CompanyID = in.Company.ID
	return &out, nil
}

func (g *ModelGenerator) generateJSON(ctx context.Context, prompt string, dest any) error {
	text, err := g.model.GenerateContent(ctx, prompt)
	if err != nil {
		return err
	}

	payload := extractJSON(text)
	if payload == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return fmt.Errorf("failed to parse model response: %w", err)
	}
	return nil
}

// extractJSON returns the outermost JSON object in text, tolerating markdown fences
// and prose around it.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func mustJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
