package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared across the application
const (
	CodeStorageUnavailable  = "STORAGE_UNAVAILABLE"
	CodeSourceReadError     = "SOURCE_READ_ERROR"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidInput        = "INVALID_INPUT"
)

// Common domain errors
var (
	ErrStorageUnavailable = NewDomainError(CodeStorageUnavailable, "Sales store cannot be opened")
	ErrSourceReadError    = NewDomainError(CodeSourceReadError, "Ingestion source is missing or malformed")
	ErrNotFound           = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput       = NewDomainError(CodeInvalidInput, "Invalid input provided")
)
