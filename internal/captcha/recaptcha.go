package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Verifier checks a CAPTCHA assertion. A false result with a nil error means the
// assertion was rejected; an error means the verification service could not answer.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (bool, error)
}

type Recaptcha struct {
	secret    string
	minScore  float64
	verifyURL string
	client    *http.Client
}

func NewRecaptcha(secret string, minScore float64) *Recaptcha {
	return &Recaptcha{
		secret:    secret,
		minScore:  minScore,
		verifyURL: DefaultVerifyURL,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// WithVerifyURL points the verifier at another endpoint.
func (rc *Recaptcha) WithVerifyURL(u string) *Recaptcha {
	rc.verifyURL = u
	return rc
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	Score      *float64 `json:"score,omitempty"`
	Action     string   `json:"action,omitempty"`
	Hostname   string   `json:"hostname,omitempty"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

func (rc *Recaptcha) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	form := url.Values{}
	form.Set("secret", rc.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := rc.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("captcha verification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("captcha verification returned status %d", resp.StatusCode)
	}

	var result verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode captcha verification: %w", err)
	}

	if !result.Success {
		return false, nil
	}
	// v2 responses carry no score.
	if result.Score != nil && *result.Score < rc.minScore {
		return false, nil
	}
	return true, nil
}

// Disabled accepts every assertion. Used when no secret is configured.
type Disabled struct{}

func (Disabled) Verify(context.Context, string, string) (bool, error) {
	return true, nil
}
