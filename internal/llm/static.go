package llm

import (
	"context"
	"fmt"

	"github.com/HanTheDev/recruit-api/internal/models"
)

// StaticGenerator returns fixed example content shaped after its input.
// It is the default when no model is configured.
type StaticGenerator struct{}

func NewStaticGenerator() *StaticGenerator {
	return &StaticGenerator{}
}

func (StaticGenerator) EvaluationCriteria(_ context.Context, job models.Job) ([]models.EvaluationCriterion, error) {
	return []models.EvaluationCriterion{
		{
			Name:        "Competência técnica",
			Description: fmt.Sprintf("Domínio das ferramentas e práticas exigidas para %s.", job.Title),
			Weight:      35,
		},
		{
			Name:        "Resolução de problemas",
			Description: "Capacidade de decompor problemas e justificar decisões.",
			Weight:      25,
		},
		{
			Name:        "Comunicação",
			Description: "Clareza ao explicar ideias e ouvir o interlocutor.",
			Weight:      20,
		},
		{
			Name:        "Alinhamento cultural",
			Description: "Aderência aos valores e ao modo de trabalho da empresa.",
			Weight:      20,
		},
	}, nil
}

func (StaticGenerator) ContextualCriteria(_ context.Context, in models.InterviewContext) (*models.ContextualCriteria, error) {
	return &models.ContextualCriteria{
		CandidateID: in.Candidate.ID,
		JobID:       in.Job.ID,
		CompanyID:   in.Company.ID,
		Summary: fmt.Sprintf("Critérios para avaliar %s na vaga %s da %s.",
			in.Candidate.Name, in.Job.Title, in.Company.Name),
		Criteria: []models.ContextualCriterion{
			{
				Criterion:  "Experiência relevante",
				Rationale:  "Confirmar se as experiências do currículo cobrem os requisitos centrais da vaga.",
				Indicators: []string{"Exemplos concretos de projetos", "Resultados mensuráveis"},
				Weight:     40,
				FocusArea:  "experiência",
			},
			{
				Criterion:   "Profundidade técnica",
				Rationale:   "Validar o nível de senioridade esperado.",
				Indicators:  []string{"Trade-offs explicados", "Conhecimento de fundamentos"},
				Weight:      35,
				FocusArea:   "técnico",
				RiskSignals: []string{"Respostas genéricas", "Falta de exemplos próprios"},
			},
			{
				Criterion:  "Motivação para a empresa",
				Rationale:  "Entender o interesse no contexto e na cultura da empresa.",
				Indicators: []string{"Conhece o produto", "Objetivos de carreira alinhados"},
				Weight:     25,
				FocusArea:  "cultura",
			},
		},
	}, nil
}

func (StaticGenerator) InterviewPlan(_ context.Context, in models.InterviewContext) (*models.InterviewPlan, error) {
	return &models.InterviewPlan{
		CandidateID:     in.Candidate.ID,
		JobID:           in.Job.ID,
		CompanyID:       in.Company.ID,
		DurationMinutes: 30,
		Stages: []models.InterviewStage{
			{
				Name:      "Abertura",
				Objective: "Apresentar a entrevista e deixar o candidato à vontade.",
				Questions: []models.InterviewQuestion{
					{
						Question:        fmt.Sprintf("Olá %s, pode se apresentar e contar o que te atraiu na vaga de %s?", in.Candidate.Name, in.Job.Title),
						Purpose:         "Quebra-gelo e motivação",
						DurationMinutes: 5,
					},
				},
			},
			{
				Name:      "Experiência",
				Objective: "Aprofundar as experiências mais relevantes do currículo.",
				Questions: []models.InterviewQuestion{
					{
						Question:        "Conte sobre um projeto recente do qual você se orgulha. Qual foi o seu papel?",
						Purpose:         "Avaliar experiência relevante",
						FollowUps:       []string{"Qual foi o maior desafio?", "Como mediu o resultado?"},
						DurationMinutes: 10,
					},
				},
			},
			{
				Name:      "Técnico",
				Objective: "Verificar a profundidade técnica esperada para a vaga.",
				Questions: []models.InterviewQuestion{
					{
						Question:        "Descreva uma decisão técnica difícil que você tomou e as alternativas que considerou.",
						Purpose:         "Avaliar raciocínio e trade-offs",
						FollowUps:       []string{"O que faria diferente hoje?"},
						DurationMinutes: 10,
					},
				},
			},
			{
				Name:      "Encerramento",
				Objective: "Responder dúvidas do candidato.",
				Questions: []models.InterviewQuestion{
					{
						Question:        fmt.Sprintf("Que perguntas você tem sobre a %s ou sobre a vaga?", in.Company.Name),
						Purpose:         "Engajamento",
						DurationMinutes: 5,
					},
				},
			},
		},
	}, nil
}
