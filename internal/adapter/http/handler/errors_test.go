package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/MolodoyDEV/diploma/internal/usecase"
)

func TestMapUsecaseError(t *testing.T) {
	tests := []struct {
		name               string
		err                error
		expectedStatusCode int
		expectedCode       string
		expectedMessage    string
	}{
		{
			name:               "empty normalized message",
			err:                usecase.ErrInvalidInput,
			expectedStatusCode: http.StatusUnprocessableEntity,
			expectedCode:       CodeInvalidInput,
			expectedMessage:    "message is empty after normalization",
		},
		{
			name:               "wrapped translation failure",
			err:                fmt.Errorf("%w: %w", usecase.ErrTranslation, errors.New("status 503")),
			expectedStatusCode: http.StatusBadGateway,
			expectedCode:       CodeTranslationFailed,
			expectedMessage:    "translation service is unavailable",
		},
		{
			name:               "inference failure",
			err:                fmt.Errorf("%w: spam: boom", usecase.ErrInference),
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       CodeInferenceFailed,
			expectedMessage:    "classification failed",
		},
		{
			name:               "missing threshold",
			err:                fmt.Errorf("%w: spam_threshold", usecase.ErrMissingThreshold),
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       CodeThresholdMisconfigured,
			expectedMessage:    "classification thresholds are misconfigured",
		},
		{
			name:               "invalid stored threshold",
			err:                usecase.ErrInvalidThreshold,
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       CodeThresholdMisconfigured,
			expectedMessage:    "classification thresholds are misconfigured",
		},
		{
			name:               "user not found",
			err:                usecase.ErrUserNotFound,
			expectedStatusCode: http.StatusNotFound,
			expectedCode:       CodeNotFound,
			expectedMessage:    "user not found",
		},
		{
			name:               "role not found",
			err:                usecase.ErrRoleNotFound,
			expectedStatusCode: http.StatusNotFound,
			expectedCode:       CodeNotFound,
			expectedMessage:    "role not found",
		},
		{
			name:               "setting not found",
			err:                usecase.ErrSettingNotFound,
			expectedStatusCode: http.StatusNotFound,
			expectedCode:       CodeNotFound,
			expectedMessage:    "setting not found",
		},
		{
			name:               "conflict",
			err:                fmt.Errorf("%w: role admin", usecase.ErrAlreadyExists),
			expectedStatusCode: http.StatusConflict,
			expectedCode:       CodeConflict,
			expectedMessage:    "already exists: role admin",
		},
		{
			name:               "protected role",
			err:                fmt.Errorf("%w: admin cannot be deleted", usecase.ErrProtectedRole),
			expectedStatusCode: http.StatusConflict,
			expectedCode:       CodeConflict,
			expectedMessage:    "role is protected: admin cannot be deleted",
		},
		{
			name:               "invalid request",
			err:                usecase.ErrInvalidRequest,
			expectedStatusCode: http.StatusBadRequest,
			expectedCode:       CodeInvalidRequest,
			expectedMessage:    "invalid request",
		},
		{
			name:               "unauthorized",
			err:                usecase.ErrUnauthorized,
			expectedStatusCode: http.StatusUnauthorized,
			expectedCode:       CodeUnauthorized,
			expectedMessage:    "unauthorized",
		},
		{
			name:               "unknown error",
			err:                errors.New("some unknown error"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedCode:       CodeInternalError,
			expectedMessage:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapUsecaseError(tt.err)

			assert.Equal(t, tt.expectedStatusCode, result.StatusCode)
			assert.Equal(t, tt.expectedCode, result.Code)
			assert.Equal(t, tt.expectedMessage, result.Message)
		})
	}
}

func TestHandleUsecaseError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name               string
		err                error
		expectedStatusCode int
	}{
		{
			name:               "user not found",
			err:                usecase.ErrUserNotFound,
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:               "internal error",
			err:                errors.New("internal"),
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleUsecaseError(c, tt.err)

			assert.Equal(t, tt.expectedStatusCode, w.Code)
		})
	}
}

func TestHandleAdminInputError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name               string
		err                error
		expectedStatusCode int
	}{
		{
			name:               "threshold value from payload",
			err:                fmt.Errorf("%w: out of range", usecase.ErrInvalidThreshold),
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "unknown role in payload",
			err:                fmt.Errorf("%w: ghost", usecase.ErrRoleNotFound),
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "conflict falls through",
			err:                usecase.ErrAlreadyExists,
			expectedStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			handleAdminInputError(c, tt.err)

			assert.Equal(t, tt.expectedStatusCode, w.Code)
		})
	}
}

func TestHandleInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleInvalidID(c, "user id")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid user id")
}

func TestHandleInvalidRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleInvalidRequest(c, "missing field")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing field")
}

func TestAbortWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	AbortWithError(c, http.StatusForbidden, CodeForbidden, "insufficient role")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), CodeForbidden)
}
