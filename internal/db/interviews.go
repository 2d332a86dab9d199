package db

import (
	"context"

	"github.com/HanTheDev/recruit-api/internal/models"
	"github.com/google/uuid"
)

// SetInterviewToken stores token on the candidate, replacing any previous one.
// A pending candidate becomes invited.
func (db *DB) SetInterviewToken(ctx context.Context, companyID, candidateID, token string) error {
	if !isUUID(companyID) {
		return ErrNotFound
	}

	query := `
        UPDATE candidates
        SET interview_token = $3,
            interview_token_created_at = NOW(),
            status = CASE WHEN status = 'pending' THEN 'invited' ELSE status END
        WHERE company_id = $1 AND id = $2
    `

	tag, err := db.Pool.Exec(ctx, query, companyID, candidateID, token)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetCandidate(ctx context.Context, companyID, candidateID string) (*models.Candidate, error) {
	if !isUUID(companyID) {
		return nil, ErrNotFound
	}

	query := `
        SELECT id, company_id::text, COALESCE(job_id::text, ''), name, email, resume, status,
               COALESCE(interview_token, ''), created_at
        FROM candidates
        WHERE company_id = $1 AND id = $2
    `

	var c models.Candidate
	err := db.Pool.QueryRow(ctx, query, companyID, candidateID).Scan(
		&c.ID,
		&c.CompanyID,
		&c.JobID,
		&c.Name,
		&c.Email,
		&c.Resume,
		&c.Status,
		&c.InterviewToken,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (db *DB) GetCandidateByInterviewToken(ctx context.Context, token string) (*models.Candidate, error) {
	query := `
        SELECT id, company_id::text, COALESCE(job_id::text, ''), name, email, resume, status,
               interview_token, created_at
        FROM candidates
        WHERE interview_token = $1
    `

	var c models.Candidate
	err := db.Pool.QueryRow(ctx, query, token).Scan(
		&c.ID,
		&c.CompanyID,
		&c.JobID,
		&c.Name,
		&c.Email,
		&c.Resume,
		&c.Status,
		&c.InterviewToken,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (db *DB) MarkInterviewStarted(ctx context.Context, candidateID string) error {
	tag, err := db.Pool.Exec(ctx, `
        UPDATE candidates
        SET status = 'interview_started', interview_started_at = NOW()
        WHERE id = $1
    `, candidateID)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) GetJob(ctx context.Context, companyID, jobID string) (*models.Job, error) {
	if !isUUID(companyID) || !isUUID(jobID) {
		return nil, ErrNotFound
	}

	query := `
        SELECT id::text, company_id::text, title, description, requirements, seniority, status,
               COALESCE(evaluation_criteria, '[]'::jsonb), created_at
        FROM jobs
        WHERE company_id = $1 AND id = $2
    `

	var j models.Job
	err := db.Pool.QueryRow(ctx, query, companyID, jobID).Scan(
		&j.ID,
		&j.CompanyID,
		&j.Title,
		&j.Description,
		&j.Requirements,
		&j.Seniority,
		&j.Status,
		&j.EvaluationCriteria,
		&j.CreatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

func (db *DB) SaveEvaluationCriteria(ctx context.Context, companyID, jobID string, criteria []models.EvaluationCriterion) error {
	if !isUUID(companyID) || !isUUID(jobID) {
		return ErrNotFound
	}

	tag, err := db.Pool.Exec(ctx,
		`UPDATE jobs SET evaluation_criteria = $3 WHERE company_id = $1 AND id = $2`,
		companyID, jobID, criteria)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) SaveContextualCriteria(ctx context.Context, cc *models.ContextualCriteria) error {
	if cc.ID == "" {
		cc.ID = uuid.NewString()
	}

	query := `
        INSERT INTO contextual_criteria (id, candidate_id, job_id, company_id, summary, criteria)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `

	err := db.Pool.QueryRow(ctx, query,
		cc.ID,
		cc.CandidateID,
		cc.JobID,
		cc.CompanyID,
		cc.Summary,
		cc.Criteria,
	).Scan(&cc.CreatedAt)

	return translate(err)
}

func (db *DB) SaveInterviewPlan(ctx context.Context, plan *models.InterviewPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}

	query := `
        INSERT INTO interview_plans (id, candidate_id, job_id, company_id, duration_minutes, stages)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING created_at
    `

	err := db.Pool.QueryRow(ctx, query,
		plan.ID,
		plan.CandidateID,
		plan.JobID,
		plan.CompanyID,
		plan.DurationMinutes,
		plan.Stages,
	).Scan(&plan.CreatedAt)

	return translate(err)
}

func (db *DB) ListInterviewReports(ctx context.Context, companyID, jobID string) ([]models.InterviewReport, error) {
	if !isUUID(companyID) || !isUUID(jobID) {
		return nil, ErrNotFound
	}

	query := `
        SELECT r.id::text, r.candidate_id, c.name, c.email, r.job_id::text, r.overall_score,
               r.recommendation, r.strengths, r.concerns, r.summary, r.created_at
        FROM interview_reports r
        JOIN candidates c ON c.id = r.candidate_id
        WHERE c.company_id = $1 AND r.job_id = $2
        ORDER BY r.overall_score DESC, r.created_at
    `

	rows, err := db.Pool.Query(ctx, query, companyID, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := []models.InterviewReport{}
	for rows.Next() {
		var r models.InterviewReport
		err := rows.Scan(
			&r.ID,
			&r.CandidateID,
			&r.CandidateName,
			&r.CandidateEmail,
			&r.JobID,
			&r.OverallScore,
			&r.Recommendation,
			&r.Strengths,
			&r.Concerns,
			&r.Summary,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
