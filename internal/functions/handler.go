// Package functions hosts the HTTP functions used by the landing page, the
// company dashboard and the candidate interview screen.
package functions

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/HanTheDev/recruit-api/internal/auth"
	"github.com/HanTheDev/recruit-api/internal/captcha"
	"github.com/HanTheDev/recruit-api/internal/db"
	"github.com/HanTheDev/recruit-api/internal/email"
	"github.com/HanTheDev/recruit-api/internal/llm"
	"github.com/HanTheDev/recruit-api/internal/models"
	"github.com/HanTheDev/recruit-api/internal/ratelimit"
	"github.com/HanTheDev/recruit-api/internal/security"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type Store interface {
	GetCompanyByAPIKey(ctx context.Context, apiKey string) (*models.Company, error)

	WaitlistEmailExists(ctx context.Context, email string) (bool, error)
	CreateWaitlistEntry(ctx context.Context, entry *models.WaitlistEntry) error

	GetCandidate(ctx context.Context, companyID, candidateID string) (*models.Candidate, error)
	SetInterviewToken(ctx context.Context, companyID, candidateID, token string) error
	GetCandidateByInterviewToken(ctx context.Context, token string) (*models.Candidate, error)
	MarkInterviewStarted(ctx context.Context, candidateID string) error

	GetJob(ctx context.Context, companyID, jobID string) (*models.Job, error)
	SaveEvaluationCriteria(ctx context.Context, companyID, jobID string, criteria []models.EvaluationCriterion) error
	SaveContextualCriteria(ctx context.Context, cc *models.ContextualCriteria) error
	SaveInterviewPlan(ctx context.Context, plan *models.InterviewPlan) error
	ListInterviewReports(ctx context.Context, companyID, jobID string) ([]models.InterviewReport, error)
}

// Limiters holds one independent limiter per endpoint class. A nil limiter disables throttling.
type Limiters struct {
	API       *ratelimit.Limiter
	Auth      *ratelimit.Limiter
	Interview *ratelimit.Limiter
	Waitlist  *ratelimit.Limiter
}

type Options struct {
	Store     Store
	Generator llm.Generator
	Captcha   captcha.Verifier
	// Email is optional; confirmation emails are skipped when nil.
	Email     email.Sender
	Validator *security.Validator
	Limiters  Limiters

	JWTSecret         string
	Rooms             *auth.RoomTokenIssuer
	RoomServerURL     string
	InterviewTokenTTL time.Duration

	Now func() time.Time
}

type Handler struct {
	store     Store
	generator llm.Generator
	captcha   captcha.Verifier
	email     email.Sender
	validator *security.Validator
	limiters  Limiters

	jwtSecret     string
	rooms         *auth.RoomTokenIssuer
	roomServerURL string
	tokenTTL      time.Duration

	now func() time.Time
}

func NewHandler(opts Options) *Handler {
	if opts.Generator == nil {
		opts.Generator = llm.NewStaticGenerator()
	}
	if opts.Captcha == nil {
		opts.Captcha = captcha.Disabled{}
	}
	if opts.Validator == nil {
		opts.Validator = security.NewValidator(security.DefaultTolerance)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Handler{
		store:         opts.Store,
		generator:     opts.Generator,
		captcha:       opts.Captcha,
		email:         opts.Email,
		validator:     opts.Validator,
		limiters:      opts.Limiters,
		jwtSecret:     opts.JWTSecret,
		rooms:         opts.Rooms,
		roomServerURL: opts.RoomServerURL,
		tokenTTL:      opts.InterviewTokenTTL,
		now:           opts.Now,
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router, authMiddleware *auth.Middleware) {
	// Public functions
	router.Handle("/waitlist-signup", h.function(http.MethodPost, http.HandlerFunc(h.WaitlistSignup)))
	router.Handle("/start-interview", h.function(http.MethodPost, http.HandlerFunc(h.StartInterview)))
	router.Handle("/auth/token", h.function(http.MethodPost, http.HandlerFunc(h.IssueToken)))

	// Company functions
	company := func(method string, fn http.HandlerFunc) http.Handler {
		return h.function(method, authMiddleware.Authenticate(h.companyLimited(fn)))
	}
	router.Handle("/generate-interview-token", company(http.MethodPost, h.GenerateInterviewToken))
	router.Handle("/generate-evaluation-criteria", company(http.MethodPost, h.GenerateEvaluationCriteria))
	router.Handle("/generate-contextual-criteria", company(http.MethodPost, h.GenerateContextualCriteria))
	router.Handle("/plan-interview", company(http.MethodPost, h.PlanInterview))
	router.Handle("/jobs/{id}/report.xlsx", company(http.MethodGet, h.JobReport))
}

// function applies the behavior shared by every endpoint: CORS headers,
// preflight answers and a single accepted method.
func (h *Handler) function(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w, method)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
			return
		}
		if r.Method != method {
			respondError(w, http.StatusMethodNotAllowed, "Método não permitido")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) companyLimited(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.GetCompanyFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "Não autorizado")
			return
		}
		if !h.allow(w, r, h.limiters.API, claims.CompanyID) {
			return
		}
		next(w, r)
	})
}

func setCORSHeaders(w http.ResponseWriter, method string) {
	header := w.Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Headers",
		"authorization, x-client-info, apikey, content-type, x-client-id, x-timestamp, x-csrf-token")
	header.Set("Access-Control-Allow-Methods", method+", OPTIONS")
}

// allow reports whether the request may proceed. Limiter failures fail open.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, limiter *ratelimit.Limiter, identifier string) bool {
	if limiter == nil {
		return true
	}

	decision, err := limiter.IsAllowed(r.Context(), identifier)
	if err != nil {
		log.Printf("Rate limit check failed (%s): %v", limiter.Name(), err)
		return true
	}

	writeRateLimitHeaders(w, decision, h.now())
	if !decision.Allowed {
		log.Printf("Rate limit exceeded (%s) for %s", limiter.Name(), identifier)
		respondJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":      "Muitas tentativas. Tente novamente mais tarde.",
			"reset_time": decision.ResetAt.UnixMilli(),
		})
		return false
	}
	return true
}

func writeRateLimitHeaders(w http.ResponseWriter, decision ratelimit.Decision, now time.Time) {
	header := w.Header()
	header.Set("RateLimit-Limit", strconv.Itoa(decision.Limit))
	header.Set("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	if decision.ResetAt.IsZero() {
		return
	}
	header.Set("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
	if !decision.Allowed {
		retryAfter := int64(decision.ResetAt.Sub(now).Seconds())
		if retryAfter < 0 {
			retryAfter = 0
		}
		header.Set("Retry-After", strconv.FormatInt(retryAfter, 10))
	}
}

// decodeBody decodes a JSON body into dest and answers 400 itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		log.Printf("Failed to decode request body on %s: %v", r.URL.Path, err)
		respondError(w, http.StatusBadRequest, "Corpo da requisição inválido")
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func companyID(r *http.Request) string {
	claims, ok := auth.GetCompanyFromContext(r.Context())
	if !ok {
		return ""
	}
	return claims.CompanyID
}

func isNotFound(err error) bool {
	return errors.Is(err, db.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, db.ErrDuplicate)
}
