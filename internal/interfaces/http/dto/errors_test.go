package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeAccountLocked, http.StatusUnauthorized},
		{ErrCodeTokenRevoked, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"CONFLICT", ErrCodeConflict},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"INVALID_CREDENTIALS", ErrCodeInvalidCredentials},
		{"INVALID_EMAIL", ErrCodeInvalidInput},
		{"INVALID_PASSWORD", ErrCodeInvalidInput},
		{"BUSINESS_RULE", ErrCodeBusinessRule},
		{"TOKEN_MAX_REFRESH", ErrCodeTokenMaxRefresh},
		// Already normalized or unknown codes pass through
		{ErrCodeNotFound, ErrCodeNotFound},
		{"PASSWORD_HASH_ERROR", "PASSWORD_HASH_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestNormalizedDomainCodesMapToStatus(t *testing.T) {
	statuses := map[string]int{
		"NOT_FOUND":       http.StatusNotFound,
		"INVALID_INPUT":   http.StatusBadRequest,
		"INVALID_COUNTRY": http.StatusBadRequest,
		"CONFLICT":        http.StatusConflict,
		"ALREADY_EXISTS":  http.StatusConflict,
		"INVALID_STATE":   http.StatusUnprocessableEntity,
		"BUSINESS_RULE":   http.StatusUnprocessableEntity,
		"UNAUTHORIZED":    http.StatusUnauthorized,
		"FORBIDDEN":       http.StatusForbidden,
	}
	for code, status := range statuses {
		assert.Equal(t, status, GetHTTPStatus(NormalizeErrorCode(code)), code)
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Region not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.Empty(t, resp.Error.Details)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "country_code", Message: "Must be an ISO 3166-1 alpha-2 country code"},
	}
	resp := NewValidationErrorResponse("Request validation failed", "req-1", details)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "ERR_VALIDATION",
			"message": "Request validation failed",
			"request_id": "req-1",
			"details": [{"field": "country_code", "message": "Must be an ISO 3166-1 alpha-2 country code"}]
		}
	}`, string(data))
}

func TestNewListResponse(t *testing.T) {
	resp := NewListResponse([]string{"a"}, 11, 10, 1)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":["a"],"meta":{"count":11,"offset":10,"limit":1}}`, string(data))
}
