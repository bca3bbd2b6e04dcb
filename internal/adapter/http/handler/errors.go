package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MolodoyDEV/diploma/internal/usecase"
)

// Error codes returned in the response envelope
const (
	CodeInvalidRequest         = "INVALID_REQUEST"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeNotFound               = "NOT_FOUND"
	CodeConflict               = "CONFLICT"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeTranslationFailed      = "TRANSLATION_FAILED"
	CodeInferenceFailed        = "INFERENCE_FAILED"
	CodeThresholdMisconfigured = "THRESHOLD_MISCONFIGURED"
	CodeInternalError          = "INTERNAL_ERROR"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Code       string
	Message    string
}

// MapUsecaseError maps usecase errors to HTTP error responses.
// It provides consistent error handling across all handlers.
func MapUsecaseError(err error) ErrorResponse {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return ErrorResponse{
			StatusCode: http.StatusUnprocessableEntity,
			Code:       CodeInvalidInput,
			Message:    "message is empty after normalization",
		}
	case errors.Is(err, usecase.ErrTranslation):
		return ErrorResponse{
			StatusCode: http.StatusBadGateway,
			Code:       CodeTranslationFailed,
			Message:    "translation service is unavailable",
		}
	case errors.Is(err, usecase.ErrInference):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInferenceFailed,
			Message:    "classification failed",
		}
	case errors.Is(err, usecase.ErrMissingThreshold), errors.Is(err, usecase.ErrInvalidThreshold):
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeThresholdMisconfigured,
			Message:    "classification thresholds are misconfigured",
		}
	case errors.Is(err, usecase.ErrUserNotFound):
		return ErrorResponse{
			StatusCode: http.StatusNotFound,
			Code:       CodeNotFound,
			Message:    "user not found",
		}
	case errors.Is(err, usecase.ErrRoleNotFound):
		return ErrorResponse{
			StatusCode: http.StatusNotFound,
			Code:       CodeNotFound,
			Message:    "role not found",
		}
	case errors.Is(err, usecase.ErrSettingNotFound):
		return ErrorResponse{
			StatusCode: http.StatusNotFound,
			Code:       CodeNotFound,
			Message:    "setting not found",
		}
	case errors.Is(err, usecase.ErrAlreadyExists):
		return ErrorResponse{
			StatusCode: http.StatusConflict,
			Code:       CodeConflict,
			Message:    err.Error(),
		}
	case errors.Is(err, usecase.ErrProtectedRole):
		return ErrorResponse{
			StatusCode: http.StatusConflict,
			Code:       CodeConflict,
			Message:    err.Error(),
		}
	case errors.Is(err, usecase.ErrInvalidRequest):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Code:       CodeInvalidRequest,
			Message:    "invalid request",
		}
	case errors.Is(err, usecase.ErrUnauthorized):
		return ErrorResponse{
			StatusCode: http.StatusUnauthorized,
			Code:       CodeUnauthorized,
			Message:    "unauthorized",
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInternalError,
			Message:    "internal server error",
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
func HandleUsecaseError(c *gin.Context, err error) {
	errResp := MapUsecaseError(err)
	respondError(c, errResp.StatusCode, errResp.Code, errResp.Message)
}

// HandleInvalidID handles an invalid numeric id parameter.
func HandleInvalidID(c *gin.Context, paramName string) {
	respondError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid "+paramName)
}

// HandleInvalidRequest handles a generic invalid request error.
func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, CodeInvalidRequest, message)
}

// handleAdminInputError reports validation failures caused by the caller's
// payload as 400 and everything else through MapUsecaseError.
func handleAdminInputError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidThreshold):
		HandleInvalidRequest(c, err.Error())
	case errors.Is(err, usecase.ErrRoleNotFound):
		HandleInvalidRequest(c, err.Error())
	default:
		HandleUsecaseError(c, err)
	}
}
