package dto

import (
	"net/http"

	"github.com/vendite/backend/internal/domain/shared"
)

// HTTP-facing error codes not covered by the domain taxonomy.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,

	// Domain errors. A broken store or unreadable source is the
	// server's fault; malformed records and inputs are the client's.
	shared.CodeStorageUnavailable:  http.StatusServiceUnavailable,
	shared.CodeSourceReadError:     http.StatusUnprocessableEntity,
	shared.CodeConstraintViolation: http.StatusUnprocessableEntity,
	shared.CodeNotFound:            http.StatusNotFound,
	shared.CodeInvalidInput:        http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
