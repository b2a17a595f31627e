package common

import (
	"github.com/google/uuid"
)

// NewDocumentID generates a unique document ID with the "doc_" prefix
// Format: doc_<uuid>
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}

// NewExtractionSetID generates a unique extraction set ID with the "ext_" prefix
func NewExtractionSetID() string {
	return "ext_" + uuid.New().String()
}

// NewUserID generates a unique user ID with the "usr_" prefix
func NewUserID() string {
	return "usr_" + uuid.New().String()
}
