package types

import "fmt"

// Error codes, one per failure class the API distinguishes.
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeCredentials   = "INVALID_CREDENTIALS"
	CodeAuthorization = "AUTHORIZATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeInternal      = "INTERNAL_ERROR"
)

// AppError is the error type services return to handlers. Fields carries
// per-field validation messages for client-correctable errors.
type AppError struct {
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(fields map[string]string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: "Validation failed",
		Fields:  fields,
	}
}

// NewCredentialsError covers failed credential checks on login. These are
// client-correctable 400s like validation failures; missing or invalid
// tokens are a separate 401 class emitted by the auth middleware.
func NewCredentialsError(message string) *AppError {
	return &AppError{Code: CodeCredentials, Message: message}
}

func NewAuthorizationError(message string) *AppError {
	return &AppError{Code: CodeAuthorization, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: CodeNotFound, Message: resource + " not found"}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: CodeConflict, Message: message}
}

func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
}
