package utils

type AppError struct {
	Code    string
	Message string
	Origin  error // Original error that caused this error, if any
}

func (appErr *AppError) Error() string {
	if appErr.Origin != nil {
		return appErr.Message + ": " + appErr.Origin.Error()
	}
	return appErr.Message
}

// Standard error codes for the application
const (
	// Request errors, detected before any store access
	ErrInvalidInput = "INVALID_INPUT"
	ErrInvalidID    = "INVALID_ID"

	// Resource errors
	ErrNotFound  = "NOT_FOUND"
	ErrDuplicate = "DUPLICATE"

	// Authorization errors
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN" // Actor is known but lacks the required role

	// State-machine errors: the transition is invalid from the current
	// state (double vote, leave as creator, transfer to a non-member...)
	ErrConflict = "CONFLICT"

	// Content blocked by the moderation service
	ErrModerationBlocked = "MODERATION_BLOCKED"

	// Store errors
	ErrDatabase    = "DATABASE_ERROR"
	ErrUnavailable = "STORE_UNAVAILABLE"

	// Actor communication errors
	ErrActorTimeout = "ACTOR_TIMEOUT"
)

func NewAppError(code string, message string, originalErr error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Origin:  originalErr,
	}
}

// Specific error creators for common cases
func NewNotFoundError(what string) *AppError {
	return &AppError{Code: ErrNotFound, Message: what + " not found"}
}

func NewInvalidIDError(field string) *AppError {
	return &AppError{Code: ErrInvalidID, Message: "malformed " + field}
}

func NewForbiddenError(reason string) *AppError {
	return &AppError{Code: ErrForbidden, Message: "forbidden: " + reason}
}

func NewConflictError(reason string) *AppError {
	return &AppError{Code: ErrConflict, Message: reason}
}

// IsErrorCode checks whether an error is an AppError with the given code.
func IsErrorCode(err error, code string) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}

// AppErrorToHTTPStatus converts an AppError code to an HTTP status code.
func AppErrorToHTTPStatus(errorCode string) int {
	switch errorCode {
	case ErrInvalidInput, ErrInvalidID:
		return 400 // http.StatusBadRequest
	case ErrUnauthorized:
		return 401 // http.StatusUnauthorized
	case ErrForbidden:
		return 403 // http.StatusForbidden
	case ErrNotFound:
		return 404 // http.StatusNotFound
	case ErrDuplicate, ErrConflict:
		return 409 // http.StatusConflict
	case ErrModerationBlocked:
		return 422 // http.StatusUnprocessableEntity
	case ErrUnavailable:
		return 503 // http.StatusServiceUnavailable
	case ErrDatabase, ErrActorTimeout:
		return 500 // http.StatusInternalServerError
	default:
		return 500 // http.StatusInternalServerError for unknown errors
	}
}
