package response

import (
	"encoding/json"
	"net/http"

	"github.com/trailmark/experiences-api/internal/domain"
	"github.com/trailmark/experiences-api/pkg/logger"
)

// Every error body has the same envelope:
// {"error":{"code":...,"message":...,"details":[...]}}
type errorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func statusFor(code string) int {
	switch code {
	case domain.CodeInvalidInput, domain.CodeValidationError, domain.CodeInvalidRole, domain.CodeInvalidState:
		return http.StatusBadRequest
	case domain.CodeUnauthenticated, domain.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeEmailExists, domain.CodeAlreadyBooked:
		return http.StatusConflict
	case domain.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func WriteJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// WriteError maps any error to the uniform envelope. Non-application
// errors become INTERNAL_ERROR without leaking their text.
func WriteError(w http.ResponseWriter, err error) {
	appErr := domain.AsError(err)
	WriteAppError(w, appErr)
}

func WriteAppError(w http.ResponseWriter, appErr *domain.Error) {
	details := appErr.Details
	if details == nil {
		details = []string{}
	}
	WriteJSON(w, statusFor(appErr.Code), errorEnvelope{
		Error: errorBody{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}
