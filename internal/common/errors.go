package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/timshannon/badgerhold/v4"
)

// AppError is an application-raised error with an explicit HTTP status.
// Everything that reaches a caller is classified through Classify below.
type AppError struct {
	Status  int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError creates an application error with the given status code
func NewAppError(message string, status int) *AppError {
	return &AppError{Status: status, Message: message}
}

// Well-known application errors. Login failures report the same error for
// unknown email and wrong password to avoid account enumeration.
var (
	ErrInvalidCredentials = &AppError{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	ErrInvalidToken       = &AppError{Status: http.StatusUnauthorized, Message: "Invalid token"}
	ErrNoTokenProvided    = &AppError{Status: http.StatusUnauthorized, Message: "No token provided"}
	ErrUserNotFound       = &AppError{Status: http.StatusUnauthorized, Message: "User not found"}
	ErrNotAuthorized      = &AppError{Status: http.StatusUnauthorized, Message: "Not authorized"}
	ErrForbidden          = &AppError{Status: http.StatusForbidden, Message: "Not authorized to access this route"}

	ErrNoFileUploaded  = &AppError{Status: http.StatusBadRequest, Message: "No file uploaded"}
	ErrOnlyPDFAllowed  = &AppError{Status: http.StatusBadRequest, Message: "Only PDF files are allowed"}
	ErrTooManyRequests = &AppError{Status: http.StatusTooManyRequests, Message: "Too many login attempts, please try again later"}

	ErrDocumentNotFound   = &AppError{Status: http.StatusNotFound, Message: "Document not found"}
	ErrNoExtractionsFound = &AppError{Status: http.StatusNotFound, Message: "No extractions found for this document"}
	ErrFilePathNotFound   = &AppError{Status: http.StatusNotFound, Message: "File path not found"}
	ErrFileNotFoundOnDisk = &AppError{Status: http.StatusNotFound, Message: "File not found on disk"}
	ErrFileSend           = &AppError{Status: http.StatusInternalServerError, Message: "Error sending file"}
)

// CastError reports a value that could not be interpreted as its field's type
type CastError struct {
	Field string
	Value string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("Invalid %s: %s", e.Field, e.Value)
}

// DuplicateFieldError reports a uniqueness-constraint violation
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("Duplicate field value: %s", e.Field)
}

// UploadError reports a rejected multipart upload (bad field, bad form)
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("file upload rejected: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Classify maps any failure to a stable (status code, JSON body) pair.
// First match wins, top to bottom. Stack traces never leave the process;
// callers log the original error before writing the classified response.
func Classify(err error) (int, map[string]interface{}) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status, map[string]interface{}{"error": appErr.Message}
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			details[fe.Field()] = fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		}
		return http.StatusInternalServerError, map[string]interface{}{
			"error":   "Validation Error",
			"details": details,
		}
	}

	var castErr *CastError
	if errors.As(err, &castErr) {
		return http.StatusInternalServerError, map[string]interface{}{
			"error": fmt.Sprintf("Invalid %s: %s", castErr.Field, castErr.Value),
		}
	}

	var dupErr *DuplicateFieldError
	if errors.As(err, &dupErr) {
		return http.StatusInternalServerError, map[string]interface{}{
			"error": fmt.Sprintf("Duplicate field value: %s", dupErr.Field),
		}
	}
	if errors.Is(err, badgerhold.ErrKeyExists) {
		return http.StatusInternalServerError, map[string]interface{}{
			"error": "Duplicate field value: key",
		}
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusBadRequest, map[string]interface{}{
			"error": fmt.Sprintf("File size too large. Maximum size is %dMB", MaxUploadSize/(1024*1024)),
		}
	}

	var uploadErr *UploadError
	if errors.As(err, &uploadErr) {
		return http.StatusBadRequest, map[string]interface{}{"error": "File upload error"}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) {
		return http.StatusInternalServerError, map[string]interface{}{"error": "Invalid JSON"}
	}

	return http.StatusInternalServerError, map[string]interface{}{"error": "Internal server error"}
}
