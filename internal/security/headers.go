// Package security checks the client headers sent by the public web forms.
package security

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	HeaderClientID  = "X-Client-ID"
	HeaderTimestamp = "X-Timestamp"
	HeaderCSRFToken = "X-CSRF-Token"

	DefaultTolerance = 5 * time.Minute
)

type Result struct {
	Valid    bool
	ClientID string
	Error    string
}

type Validator struct {
	Tolerance time.Duration
	Now       func() time.Time
}

func NewValidator(tolerance time.Duration) *Validator {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Validator{Tolerance: tolerance, Now: time.Now}
}

// Validate runs every header check in order and stops at the first failure.
func (v *Validator) Validate(r *http.Request) Result {
	clientID := strings.TrimSpace(r.Header.Get(HeaderClientID))
	if clientID == "" {
		return Result{Error: "Identificação do cliente ausente"}
	}

	raw := strings.TrimSpace(r.Header.Get(HeaderTimestamp))
	if raw == "" {
		return Result{Error: "Timestamp da requisição ausente"}
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Result{Error: "Timestamp da requisição inválido"}
	}
	skew := v.now().Sub(time.UnixMilli(millis))
	if skew < 0 {
		skew = -skew
	}
	if skew > v.tolerance() {
		return Result{Error: "Requisição expirada"}
	}

	if isStateChanging(r.Method) && strings.TrimSpace(r.Header.Get(HeaderCSRFToken)) == "" {
		return Result{Error: "Token CSRF ausente"}
	}

	return Result{Valid: true, ClientID: clientID}
}

func (v *Validator) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}

func (v *Validator) tolerance() time.Duration {
	if v.Tolerance <= 0 {
		return DefaultTolerance
	}
	return v.Tolerance
}

func isStateChanging(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
