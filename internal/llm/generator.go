// Package llm produces the generated content used by the interview functions:
// job evaluation criteria, candidate-specific criteria and interview plans.
package llm

import (
	"context"

	"github.com/HanTheDev/recruit-api/internal/models"
)

// Generator is the content-generation capability injected into the handlers.
type Generator interface {
	EvaluationCriteria(ctx context.Context, job models.Job) ([]models.EvaluationCriterion, error)
	ContextualCriteria(ctx context.Context, in models.InterviewContext) (*models.ContextualCriteria, error)
	InterviewPlan(ctx context.Context, in models.InterviewContext) (*models.InterviewPlan, error)
}

// TextModel is a prompt-in, text-out language model.
type TextModel interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}
