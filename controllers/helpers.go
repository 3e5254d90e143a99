package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"vivaah_server/middleware"
	"vivaah_server/services"
	"vivaah_server/utils"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object, rejecting unknown fields and oversized bodies
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return &services.ValidationError{Field: "body", Reason: "request body must not exceed 1MB"}
		case errors.Is(err, io.EOF):
			return &services.ValidationError{Field: "body", Reason: "request body must not be empty"}
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			field := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return &services.ValidationError{Field: strings.Trim(field, `"`), Reason: fmt.Sprintf("unknown field %s", field)}
		default:
			return &services.ValidationError{Field: "body", Reason: "invalid request payload"}
		}
	}
	if dec.More() {
		return &services.ValidationError{Field: "body", Reason: "request body must contain a single JSON object"}
	}
	return nil
}

// mapError turns a service error into status, code and client message
func mapError(err error) (int, string, string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "VALIDATION_ERROR", verr.Reason
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", err.Error()
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict, "CONFLICT", err.Error()
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION", err.Error()
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED", err.Error()
	case errors.Is(err, services.ErrUpstream), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "service temporarily unavailable, please retry"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"
	}
}

// respondError logs server-side failures with the raw cause and writes the error envelope
func respondError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, op string, err error) {
	status, code, message := mapError(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed",
			"op", op,
			"requestId", middleware.RequestIDFromContext(r.Context()),
			"error", err)
	}
	utils.WriteError(w, status, code, message)
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
