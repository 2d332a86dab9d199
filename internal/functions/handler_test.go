package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/HanTheDev/recruit-api/internal/auth"
	"github.com/HanTheDev/recruit-api/internal/db"
	"github.com/HanTheDev/recruit-api/internal/models"
	"github.com/HanTheDev/recruit-api/internal/ratelimit"
	"github.com/HanTheDev/recruit-api/internal/security"
	"github.com/gorilla/mux"
)

const (
	testSecret    = "test-secret"
	testCompanyID = "company-1"
)

var testNow = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

type fakeStore struct {
	mu sync.Mutex

	companies  map[string]*models.Company
	waitlist   []*models.WaitlistEntry
	candidates map[string]*models.Candidate
	jobs       map[string]*models.Job
	criteria   map[string][]models.EvaluationCriterion
	contextual []*models.ContextualCriteria
	plans      []*models.InterviewPlan
	reports    map[string][]models.InterviewReport
	started    []string

	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		companies: map[string]*models.Company{
			"key-1": {ID: testCompanyID, Name: "Acme", APIKey: "key-1"},
		},
		candidates: map[string]*models.Candidate{
			"abc": {ID: "abc", CompanyID: testCompanyID, JobID: "job-1", Name: "Ana", Status: models.CandidateStatusPending},
		},
		jobs: map[string]*models.Job{
			"job-1": {ID: "job-1", CompanyID: testCompanyID, Title: "Backend Engineer"},
		},
		criteria: map[string][]models.EvaluationCriterion{},
		reports:  map[string][]models.InterviewReport{},
	}
}

func (s *fakeStore) GetCompanyByAPIKey(_ context.Context, apiKey string) (*models.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.companies[apiKey]; ok {
		return c, nil
	}
	return nil, db.ErrNotFound
}

func (s *fakeStore) WaitlistEmailExists(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return false, s.failWith
	}
	for _, e := range s.waitlist {
		if e.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CreateWaitlistEntry(_ context.Context, entry *models.WaitlistEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waitlist = append(s.waitlist, entry)
	return nil
}

func (s *fakeStore) SetInterviewToken(_ context.Context, companyID, candidateID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[candidateID]
	if !ok || c.CompanyID != companyID {
		return db.ErrNotFound
	}
	c.InterviewToken = token
	if c.Status == models.CandidateStatusPending {
		c.Status = models.CandidateStatusInvited
	}
	return nil
}

func (s *fakeStore) GetCandidateByInterviewToken(_ context.Context, token string) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.candidates {
		if c.InterviewToken != "" && c.InterviewToken == token {
			cp := *c
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *fakeStore) MarkInterviewStarted(_ context.Context, candidateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[candidateID]
	if !ok {
		return db.ErrNotFound
	}
	c.Status = models.CandidateStatusInterviewStarted
	s.started = append(s.started, candidateID)
	return nil
}

func (s *fakeStore) GetCandidate(_ context.Context, companyID, candidateID string) (*models.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[candidateID]
	if !ok || c.CompanyID != companyID {
		return nil, db.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) GetJob(_ context.Context, companyID, jobID string) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok || j.CompanyID != companyID {
		return nil, db.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (s *fakeStore) SaveEvaluationCriteria(_ context.Context, companyID, jobID string, criteria []models.EvaluationCriterion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[jobID]
	if !ok || j.CompanyID != companyID {
		return db.ErrNotFound
	}
	s.criteria[jobID] = criteria
	return nil
}

func (s *fakeStore) SaveContextualCriteria(_ context.Context, cc *models.ContextualCriteria) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.contextual = append(s.contextual, cc)
	return nil
}

func (s *fakeStore) SaveInterviewPlan(_ context.Context, plan *models.InterviewPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans = append(s.plans, plan)
	return nil
}

func (s *fakeStore) ListInterviewReports(_ context.Context, companyID, jobID string) ([]models.InterviewReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reports[jobID], nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendWaitlistConfirmation(to, name string) error {
	f.sent = append(f.sent, to)
	return f.err
}

type fakeCaptcha struct {
	ok  bool
	err error
}

func (f fakeCaptcha) Verify(context.Context, string, string) (bool, error) {
	return f.ok, f.err
}

type testEnv struct {
	router *mux.Router
	store  *fakeStore
	email  *fakeSender
	token  string
}

func newTestEnv(t *testing.T, configure func(*Options)) *testEnv {
	t.Helper()

	clock := func() time.Time { return testNow }
	validator := security.NewValidator(security.DefaultTolerance)
	validator.Now = clock

	store := newFakeStore()
	sender := &fakeSender{}
	limits := ratelimit.NewMemoryStore(clock)

	opts := Options{
		Store:     store,
		Captcha:   fakeCaptcha{ok: true},
		Email:     sender,
		Validator: validator,
		Limiters: Limiters{
			API:       ratelimit.NewLimiter("api", limits, 100, 15*time.Minute),
			Auth:      ratelimit.NewLimiter("auth", limits, 5, 15*time.Minute),
			Interview: ratelimit.NewLimiter("interview", limits, 3, time.Hour),
			Waitlist:  ratelimit.NewLimiter("waitlist", limits, 3, time.Hour),
		},
		JWTSecret:     testSecret,
		Rooms:         auth.NewRoomTokenIssuer("devkey", "devsecret", time.Hour),
		RoomServerURL: "wss://rooms.example.com",
		Now:           clock,
	}
	if configure != nil {
		configure(&opts)
	}

	router := mux.NewRouter()
	NewHandler(opts).RegisterRoutes(router, auth.NewMiddleware(testSecret))

	token, err := auth.GenerateToken(testCompanyID, testSecret)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	return &testEnv{router: router, store: store, email: sender, token: token}
}

// publicRequest builds a request carrying a complete set of client headers.
func publicRequest(method, path string, body any) *http.Request {
	req := jsonRequest(method, path, body)
	req.Header.Set(security.HeaderClientID, "client-1")
	req.Header.Set(security.HeaderTimestamp, strconv.FormatInt(testNow.UnixMilli(), 10))
	req.Header.Set(security.HeaderCSRFToken, "csrf-1")
	return req
}

func (e *testEnv) companyRequest(method, path string, body any) *http.Request {
	req := jsonRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+e.token)
	return req
}

func jsonRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return out
}

func TestFunctionPreflight(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/waitlist-signup", "/generate-interview-token", "/start-interview"} {
		rec := env.do(httptest.NewRequest(http.MethodOptions, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("OPTIONS %s: expected 200, got %d", path, rec.Code)
		}
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("OPTIONS %s: Access-Control-Allow-Origin = %q", path, got)
		}
	}
}

func TestFunctionRejectsOtherMethods(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/waitlist-signup", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if decodeResponse(t, rec)["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestCompanyFunctionRequiresBearerToken(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(jsonRequest(http.MethodPost, "/generate-interview-token", map[string]string{"candidate_id": "abc"}))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestIssueToken(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(jsonRequest(http.MethodPost, "/auth/token", map[string]string{"api_key": "key-1"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := decodeResponse(t, rec)["token"].(string)
	claims, err := auth.ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.CompanyID != testCompanyID {
		t.Errorf("CompanyID = %q, want %q", claims.CompanyID, testCompanyID)
	}

	rec = env.do(jsonRequest(http.MethodPost, "/auth/token", map[string]string{"api_key": "wrong"}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown key: expected 401, got %d", rec.Code)
	}
}

func TestIssueTokenRateLimited(t *testing.T) {
	env := newTestEnv(t, nil)

	for i := 0; i < 5; i++ {
		env.do(jsonRequest(http.MethodPost, "/auth/token", map[string]string{"api_key": "wrong"}))
	}
	rec := env.do(jsonRequest(http.MethodPost, "/auth/token", map[string]string{"api_key": "key-1"}))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after five attempts, got %d", rec.Code)
	}
}

func TestLogRequests(t *testing.T) {
	handler := LogRequests(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status was not passed through: %d", rec.Code)
	}
}

func TestAllowFailsOpen(t *testing.T) {
	h := NewHandler(Options{Store: newFakeStore()})
	limiter := ratelimit.NewLimiter("api", failingStore{}, 1, time.Minute)

	rec := httptest.NewRecorder()
	if !h.allow(rec, httptest.NewRequest(http.MethodPost, "/", nil), limiter, "client") {
		t.Fatal("expected the request to be allowed when the limiter store fails")
	}
}

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("store down")
}
