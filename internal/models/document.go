package models

import (
	"path"
	"time"
)

// Document represents one uploaded PDF and its stored metadata.
// The storage path refers to exactly one file on disk for the record's
// lifetime; the record is the sole owner of that file.
type Document struct {
	ID          string `json:"id" badgerhold:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	FileName    string `json:"file_name"` // Original upload name
	FilePath    string `json:"file_path"` // Server-relative storage path, e.g. /uploads/file-123.pdf
	FileType    string `json:"file_type"` // Declared MIME type

	Metadata DocumentFileMetadata `json:"metadata"`

	// Timestamps assigned by the store
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentFileMetadata is the metadata block carried by every document
type DocumentFileMetadata struct {
	Size       int64  `json:"size"` // Bytes
	UploadedBy string `json:"uploaded_by"`
	Version    int    `json:"version"`    // >= 1
	PageCount  int    `json:"page_count"` // >= 0, zero until a count is known
}

// DocumentMetadata is the externally-visible projection returned by all
// document read operations. Extraction data is never included.
type DocumentMetadata struct {
	ID         string `json:"id"`
	FileName   string `json:"fileName"`
	FileURL    string `json:"fileUrl"`
	UploadDate string `json:"uploadDate"` // ISO-8601
	FileSize   int64  `json:"fileSize"`
	PageCount  int    `json:"pageCount"`
}

// ToMetadata builds the metadata projection for a document
func (d *Document) ToMetadata() *DocumentMetadata {
	fileURL := ""
	if d.FilePath != "" {
		fileURL = "/uploads/" + path.Base(d.FilePath)
	}

	return &DocumentMetadata{
		ID:         d.ID,
		FileName:   d.FileName,
		FileURL:    fileURL,
		UploadDate: d.CreatedAt.UTC().Format(time.RFC3339),
		FileSize:   d.Metadata.Size,
		PageCount:  d.Metadata.PageCount,
	}
}

// Extraction is one placeholder text snippet for a single page
type Extraction struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	PageNumber int    `json:"pageNumber"` // >= 1
}

// ExtractionSet holds all extractions for one document. DocumentID is a
// foreign-key-style back-reference; the document side owns the cascading
// delete regardless of how the reverse lookup is indexed.
type ExtractionSet struct {
	ID          string       `json:"id" badgerhold:"key"`
	DocumentID  string       `json:"document_id" badgerhold:"index"`
	Extractions []Extraction `json:"extractions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExtractionResult is the wire shape returned for a document's extractions
type ExtractionResult struct {
	DocumentID  string       `json:"documentId"`
	Extractions []Extraction `json:"extractions"`
	TotalPages  int          `json:"totalPages"`
}
