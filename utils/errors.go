package utils

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AppError represents an application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// AuthenticationError is a bad or missing webhook signature. Terminal.
func AuthenticationError(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, nil)
}

// ValidationError is a missing required field or unsupported method. Terminal.
func ValidationError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, message, err)
}

// ConfigurationError indicates a deployment fault (missing server secret),
// not a user error. Terminal.
func ConfigurationError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, message, nil)
}

// StoreError is a lookup or write failure against the database. Terminal,
// logged with full detail.
func StoreError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError returns the AppError if the error is an AppError
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return nil
}

// RespondError writes the JSON response for an error. AppErrors carry their
// own HTTP status; anything else is reported as a 500. The wrapped cause,
// when present, rides along in a details field.
func RespondError(c *gin.Context, err error) {
	appErr := GetAppError(err)
	if appErr == nil {
		appErr = StoreError("Internal server error", err)
	}
	body := gin.H{"status": "error", "message": appErr.Message}
	if appErr.Err != nil {
		body["details"] = appErr.Err.Error()
	}
	c.JSON(appErr.Code, body)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
