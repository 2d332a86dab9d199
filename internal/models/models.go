package models

import "time"

type Company struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	APIKey    string    `json:"api_key,omitempty"`
	Website   string    `json:"website,omitempty"`
	Industry  string    `json:"industry,omitempty"`
	Culture   string    `json:"culture,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Job struct {
	ID                 string                `json:"id"`
	CompanyID          string                `json:"company_id"`
	Title              string                `json:"title"`
	Description        string                `json:"description"`
	Requirements       []string              `json:"requirements,omitempty"`
	Seniority          string                `json:"seniority,omitempty"`
	Status             string                `json:"status,omitempty"`
	EvaluationCriteria []EvaluationCriterion `json:"evaluation_criteria,omitempty"`
	CreatedAt          time.Time             `json:"created_at"`
}

const (
	CandidateStatusPending          = "pending"
	CandidateStatusInvited          = "invited"
	CandidateStatusInterviewStarted = "interview_started"
	CandidateStatusCompleted        = "completed"
)

type Candidate struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"company_id"`
	JobID          string    `json:"job_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Resume         string    `json:"resume,omitempty"`
	Status         string    `json:"status"`
	InterviewToken string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

type WaitlistEntry struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	Company           string    `json:"company,omitempty"`
	JobTitle          string    `json:"job_title,omitempty"`
	NewsletterConsent bool      `json:"newsletter_consent"`
	ClientID          string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
}

type EvaluationCriterion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Weight      int    `json:"weight"`
}

// InterviewContext is the input shared by the candidate-specific generation steps.
type InterviewContext struct {
	Candidate Candidate `json:"candidate"`
	Job       Job       `json:"job"`
	Company   Company   `json:"company"`
}

type ContextualCriterion struct {
	Criterion   string   `json:"criterion"`
	Rationale   string   `json:"rationale"`
	Indicators  []string `json:"indicators"`
	Weight      int      `json:"weight"`
	FocusArea   string   `json:"focus_area,omitempty"`
	RiskSignals []string `json:"risk_signals,omitempty"`
}

type ContextualCriteria struct {
	ID          string                `json:"id"`
	CandidateID string                `json:"candidate_id"`
	JobID       string                `json:"job_id"`
	CompanyID   string                `json:"company_id"`
	Summary     string                `json:"summary"`
	Criteria    []ContextualCriterion `json:"criteria"`
	CreatedAt   time.Time             `json:"created_at"`
}

type InterviewQuestion struct {
	Question        string   `json:"question"`
	Purpose         string   `json:"purpose"`
	FollowUps       []string `json:"follow_ups,omitempty"`
	DurationMinutes int      `json:"duration_minutes"`
}

type InterviewStage struct {
	Name      string              `json:"name"`
	Objective string              `json:"objective"`
	Questions []InterviewQuestion `json:"questions"`
}

type InterviewPlan struct {
	ID              string           `json:"id"`
	CandidateID     string           `json:"candidate_id"`
	JobID           string           `json:"job_id"`
	CompanyID       string           `json:"company_id"`
	DurationMinutes int              `json:"duration_minutes"`
	Stages          []InterviewStage `json:"stages"`
	CreatedAt       time.Time        `json:"created_at"`
}

type InterviewReport struct {
	ID             string    `json:"id"`
	CandidateID    string    `json:"candidate_id"`
	CandidateName  string    `json:"candidate_name"`
	CandidateEmail string    `json:"candidate_email"`
	JobID          string    `json:"job_id"`
	OverallScore   float64   `json:"overall_score"`
	Recommendation string    `json:"recommendation"`
	Strengths      []string  `json:"strengths,omitempty"`
	Concerns       []string  `json:"concerns,omitempty"`
	Summary        string    `json:"summary"`
	CreatedAt      time.Time `json:"created_at"`
}
