package functions

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/HanTheDev/recruit-api/internal/captcha"
	"github.com/HanTheDev/recruit-api/internal/security"
)

func signup(email string) map[string]any {
	return map[string]any{
		"email":              email,
		"name":               "Ana Souza",
		"company":            "Acme",
		"newsletter_consent": true,
		"recaptcha_token":    "token",
	}
}

func TestWaitlistSignup(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(publicRequest(http.MethodPost, "/waitlist-signup", signup(" Ana@Example.com ")))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if decodeResponse(t, rec)["success"] != true {
		t.Errorf("expected success envelope, got %s", rec.Body.String())
	}

	if len(env.store.waitlist) != 1 {
		t.Fatalf("expected one waitlist entry, got %d", len(env.store.waitlist))
	}
	entry := env.store.waitlist[0]
	if entry.Email != "ana@example.com" {
		t.Errorf("email was not normalized: %q", entry.Email)
	}
	if entry.ClientID != "client-1" {
		t.Errorf("ClientID = %q", entry.ClientID)
	}
	if len(env.email.sent) != 1 || env.email.sent[0] != "ana@example.com" {
		t.Errorf("confirmation email not sent: %v", env.email.sent)
	}
}

func TestWaitlistSignup_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t, nil)

	env.do(publicRequest(http.MethodPost, "/waitlist-signup", signup("ana@example.com")))
	rec := env.do(publicRequest(http.MethodPost, "/waitlist-signup", signup("ana@example.com")))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	msg, _ := decodeResponse(t, rec)["error"].(string)
	if !strings.Contains(msg, "já está cadastrado") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestWaitlistSignup_SecurityHeaders(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name   string
		drop   string
		stamp  string
		expect string
	}{
		{name: "missing client id", drop: security.HeaderClientID, expect: "Identificação do cliente ausente"},
		{name: "missing timestamp", drop: security.HeaderTimestamp, expect: "Timestamp da requisição ausente"},
		{name: "stale timestamp", stamp: "1000", expect: "Requisição expirada"},
		{name: "missing csrf token", drop: security.HeaderCSRFToken, expect: "Token CSRF ausente"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := publicRequest(http.MethodPost, "/waitlist-signup", signup("ana@example.com"))
			if tt.drop != "" {
				req.Header.Del(tt.drop)
			}
			if tt.stamp != "" {
				req.Header.Set(security.HeaderTimestamp, tt.stamp)
			}

			rec := env.do(req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if got := decodeResponse(t, rec)["error"]; got != tt.expect {
				t.Errorf("error = %q, want %q", got, tt.expect)
			}
		})
	}

	if len(env.store.waitlist) != 0 {
		t.Errorf("rejected requests must not be stored")
	}
}

func TestWaitlistSignup_RateLimited(t *testing.T) {
	env := newTestEnv(t, nil)

	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	for _, email := range emails {
		rec := env.do(publicRequest(http.MethodPost, "/waitlist-signup", signup(email)))
		if rec.Code != http.StatusOK {
			t.Fatalf("signup %s: expected 200, got %d", email, rec.Code)
		}
	}

	rec := env.do(publicRequest(http.MethodPost, "/waitlist-signup", signup("d@example.com")))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	body := decodeResponse(t, rec)
	if _, ok := body["reset_time"]; !ok {
		t.Errorf("expected reset_time in %v", body)
	}
	if rec.Header().Get("Retry-After") != "3600" {
		t.Errorf("Retry-After = %q, want 3600", rec.Header().Get("Retry-After"))
	}
}

func TestWaitlistSignup_Validation(t *testing.T) {
	env := newTestEnv(t, nil)

	body := signup("not-an-email")
	rec := env.do(publicRequest(http.MethodPost, "/waitlist-signup", body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid email: expected 400, got %d", rec.Code)
	}

	body = signup("ana@example.com")
	body["name"] = ""
	rec = env.do(publicRequest(http.MethodPost, "/waitlist-signup", body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing name: expected 400, got %d", rec.Code)
	}
}

func TestWaitlistSignup_Captcha(t *testing.T) {
	rejected := newTestEnv(t, func(o *Options) { o.Captcha = fakeCaptcha{ok: false} })
	rec := rejected.do(publicRequest(http.MethodPost, "/waitlist-signup", signup("ana@example.com")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("rejected captcha: expected 400, got %d", rec.Code)
	}

	broken := newTestEnv(t, func(o *Options) { o.Captcha = fakeCaptcha{err: errors.New("timeout")} })
	rec = broken.do(publicRequest(http.MethodPost, "/waitlist-signup", signup("ana@example.com")))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("captcha failure: expected 500, got %d", rec.Code)
	}

	disabled := newTestEnv(t, func(o *Options) { o.Captcha = captcha.Disabled{} })
	rec = disabled.do(publicRequest(http.MethodPost, "/waitlist-signup", signup("ana@example.com")))
	if rec.Code != http.StatusOK {
		t.Errorf("disabled captcha: expected 200, got %d", rec.Code)
	}
}

func TestWaitlistSignup_EmailFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t, nil)
	env.email.err = errors.New("smtp down")

	rec := env.do(publicRequest(http.MethodPost, "/waitlist-signup", signup("ana@example.com")))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite email failure, got %d", rec.Code)
	}
}

func TestWaitlistSignup_StoreFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.store.failWith = errors.New("connection refused")

	rec := env.do(publicRequest(http.MethodPost, "/waitlist-signup", signup("ana@example.com")))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
