package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyAppErrors(t *testing.T) {
	tests := []struct {
		err     *AppError
		status  int
		message string
	}{
		{ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{ErrNoTokenProvided, http.StatusUnauthorized, "No token provided"},
		{ErrUserNotFound, http.StatusUnauthorized, "User not found"},
		{ErrForbidden, http.StatusForbidden, "Not authorized to access this route"},
		{ErrNoFileUploaded, http.StatusBadRequest, "No file uploaded"},
		{ErrOnlyPDFAllowed, http.StatusBadRequest, "Only PDF files are allowed"},
		{ErrDocumentNotFound, http.StatusNotFound, "Document not found"},
		{ErrNoExtractionsFound, http.StatusNotFound, "No extractions found for this document"},
		{ErrFilePathNotFound, http.StatusNotFound, "File path not found"},
		{ErrFileNotFoundOnDisk, http.StatusNotFound, "File not found on disk"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			status, body := Classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, map[string]interface{}{"error": tt.message}, body)
		})
	}
}

func TestClassifyWrappedAppError(t *testing.T) {
	status, body := Classify(fmt.Errorf("handler: %w", ErrDocumentNotFound))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Document not found", body["error"])
}

func TestClassifyValidationErrors(t *testing.T) {
	type loginRequest struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required"`
	}

	err := validator.New().Struct(&loginRequest{Email: "not-an-email"})
	require.Error(t, err)

	status, body := Classify(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Validation Error", body["error"])

	details, ok := body["details"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "failed on the 'email' rule", details["Email"])
	assert.Equal(t, "failed on the 'required' rule", details["Password"])
}

func TestClassifyCastError(t *testing.T) {
	status, body := Classify(&CastError{Field: "_id", Value: "doc_###"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Invalid _id: doc_###", body["error"])
}

func TestClassifyDuplicateField(t *testing.T) {
	status, body := Classify(&DuplicateFieldError{Field: "email"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Duplicate field value: email", body["error"])
}

func TestClassifyMaxBytes(t *testing.T) {
	status, body := Classify(&http.MaxBytesError{Limit: MaxUploadSize})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "File size too large. Maximum size is 100MB", body["error"])
}

func TestClassifyUploadError(t *testing.T) {
	status, body := Classify(&UploadError{Err: errors.New("unexpected field")})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "File upload error", body["error"])
}

func TestClassifyInvalidJSON(t *testing.T) {
	var payload struct{ Email string }
	err := json.Unmarshal([]byte("{"), &payload)
	require.Error(t, err)

	status, body := Classify(err)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Invalid JSON", body["error"])
}

func TestClassifyUnknownError(t *testing.T) {
	status, body := Classify(errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, map[string]interface{}{"error": "Internal server error"}, body)
}
