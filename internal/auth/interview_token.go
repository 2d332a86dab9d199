package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

const interviewTokenBytes = 32

var ErrMalformedInterviewToken = errors.New("malformed interview token")

// GenerateInterviewToken returns "<base36 unix millis>_<64 hex chars>" with
// the prefix taken from now. The prefix keeps tokens roughly ordered by issue time.
func GenerateInterviewToken(now time.Time) (string, error) {
	buf := make([]byte, interviewTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strconv.FormatInt(now.UnixMilli(), 36) + "_" + hex.EncodeToString(buf), nil
}

// InterviewTokenIssuedAt decodes the timestamp prefix of an interview token.
func InterviewTokenIssuedAt(token string) (time.Time, error) {
	prefix, suffix, ok := strings.Cut(token, "_")
	if !ok || prefix == "" || len(suffix) != interviewTokenBytes*2 {
		return time.Time{}, ErrMalformedInterviewToken
	}
	if _, err := hex.DecodeString(suffix); err != nil {
		return time.Time{}, ErrMalformedInterviewToken
	}

	millis, err := strconv.ParseInt(prefix, 36, 64)
	if err != nil {
		return time.Time{}, ErrMalformedInterviewToken
	}
	return time.UnixMilli(millis), nil
}
