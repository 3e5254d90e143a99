package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"vivaah_server/models"
	"vivaah_server/services"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{&services.ValidationError{Field: "age", Reason: "age must be at least 18"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{services.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{fmt.Errorf("%w: nope", services.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{services.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: dup", services.ErrConflict), http.StatusConflict, "CONFLICT"},
		{services.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{services.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{fmt.Errorf("get: %w: %w", services.ErrUpstream, errors.New("dial tcp")), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{context.DeadlineExceeded, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{errors.New("surprise"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		status, code, msg := mapError(tt.err)
		if status != tt.wantStatus || code != tt.wantCode {
			t.Errorf("mapError(%v) = %d %s, want %d %s", tt.err, status, code, tt.wantStatus, tt.wantCode)
		}
		if strings.Contains(msg, "dial tcp") {
			t.Errorf("raw upstream error leaked: %q", msg)
		}
	}

	_, _, msg := mapError(&services.ValidationError{Field: "age", Reason: "age must be at least 18"})
	if msg != "age must be at least 18" {
		t.Errorf("validation message = %q", msg)
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		Status string `json:"status"`
	}
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"ok", `{"status":"accepted"}`, ""},
		{"empty", ``, "body"},
		{"unknown field", `{"status":"accepted","extra":1}`, "extra"},
		{"two objects", `{"status":"a"}{"status":"b"}`, "body"},
		{"malformed", `{"status":`, "body"},
		{"too large", `{"status":"` + strings.Repeat("a", maxBodyBytes) + `"}`, "body"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
		var dst payload
		err := decodeJSON(httptest.NewRecorder(), req, &dst)
		if tt.wantField == "" {
			if err != nil {
				t.Errorf("%s: error = %v", tt.name, err)
			}
			continue
		}
		var verr *services.ValidationError
		if !errors.As(err, &verr) || verr.Field != tt.wantField {
			t.Errorf("%s: error = %v, want field %q", tt.name, err, tt.wantField)
		}
	}
}

func TestParseProfileFilter(t *testing.T) {
	t.Parallel()

	q := url.Values{
		"gender":   {"Female"},
		"location": {" Pune "},
		"minAge":   {"25"},
		"maxAge":   {"32"},
		"limit":    {"10"},
		"status":   {"pending"},
	}
	f, err := parseProfileFilter(q)
	if err != nil {
		t.Fatalf("parseProfileFilter() error = %v", err)
	}
	if f.Gender != "Female" || f.Location != "Pune" || f.MinAge != 25 || f.MaxAge != 32 || f.Limit != 10 || f.Status != models.ProfileStatusPending {
		t.Errorf("filter = %+v", f)
	}

	for _, bad := range []url.Values{{"minAge": {"x"}}, {"limit": {"-1"}}, {"status": {"archived"}}} {
		if _, err := parseProfileFilter(bad); !errors.Is(err, services.ErrValidation) {
			t.Errorf("parseProfileFilter(%v) error = %v, want ErrValidation", bad, err)
		}
	}
}
