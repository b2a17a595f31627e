package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
	"github.com/ternarybob/satchel/internal/interfaces"
	"github.com/ternarybob/satchel/internal/models"
	"github.com/ternarybob/satchel/internal/services/documents"
	"github.com/ternarybob/satchel/internal/services/extractions"
	"github.com/ternarybob/satchel/internal/storage/badger"
)

func newDocumentHandler(t *testing.T) (*DocumentHandler, interfaces.DocumentService) {
	t.Helper()

	logger := arbor.NewLogger()
	db, err := badger.NewBadgerDB(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	uploadsDir := t.TempDir()
	service := documents.NewService(
		badger.NewDocumentStorage(db, logger),
		badger.NewExtractionStorage(db, logger),
		extractions.NewGenerator(),
		uploadsDir,
		logger,
	)

	return NewDocumentHandler(service, uploadsDir, logger), service
}

// pdfFixture renders a small real PDF to use as upload payload
func pdfFixture(t *testing.T) []byte {
	t.Helper()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(40, 10, "Service agreement")

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func multipartBody(t *testing.T, fieldName, fileName, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fieldName+`"; filename="`+fileName+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func uploadPDF(t *testing.T, handler *DocumentHandler) *models.DocumentMetadata {
	t.Helper()

	content := pdfFixture(t)
	body, contentType := multipartBody(t, "file", "contract.pdf", "application/pdf", content)

	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var metadata models.DocumentMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &metadata))
	assert.Equal(t, "contract.pdf", metadata.FileName)
	assert.Equal(t, int64(len(content)), metadata.FileSize)
	assert.Equal(t, 0, metadata.PageCount)
	assert.Contains(t, metadata.FileURL, "/uploads/file-")

	return &metadata
}

func TestUploadAndFetchDocument(t *testing.T) {
	handler, _ := newDocumentHandler(t)

	metadata := uploadPDF(t, handler)

	// GET /api/documents
	rec := httptest.NewRecorder()
	handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.DocumentMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, metadata.ID, list[0].ID)

	// GET /api/documents/{id}
	rec = httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/documents/"+metadata.ID, nil), metadata.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	// GET /api/documents/{id}/extractions
	rec = httptest.NewRecorder()
	handler.Extractions(rec, httptest.NewRequest(http.MethodGet, "/api/documents/"+metadata.ID+"/extractions", nil), metadata.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var result models.ExtractionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, metadata.ID, result.DocumentID)
	assert.GreaterOrEqual(t, len(result.Extractions), 8)
	assert.Equal(t, 1, result.TotalPages)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	handler, service := newDocumentHandler(t)

	body, contentType := multipartBody(t, "file", "notes.txt", "text/plain", []byte("plain text"))

	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only PDF files are allowed", errorBody(t, rec))

	list, err := service.ListDocuments(req.Context())
	require.NoError(t, err)
	assert.Empty(t, list, "rejected upload must not create a record")
}

func TestUploadRequiresFileField(t *testing.T) {
	handler, _ := newDocumentHandler(t)

	body, contentType := multipartBody(t, "document", "contract.pdf", "application/pdf", pdfFixture(t))

	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", errorBody(t, rec))
}

func TestStreamDocumentFile(t *testing.T) {
	handler, _ := newDocumentHandler(t)

	metadata := uploadPDF(t, handler)

	rec := httptest.NewRecorder()
	handler.File(rec, httptest.NewRequest(http.MethodGet, "/api/documents/"+metadata.ID+"/file", nil), metadata.ID)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="contract.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")), "response must be the PDF payload")
}

// brokenFileService yields a document whose file stream fails immediately
type brokenFileService struct {
	interfaces.DocumentService
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read: input/output error") }
func (failingReader) Close() error             { return nil }

func (s *brokenFileService) OpenDocumentFile(ctx context.Context, id string) (io.ReadCloser, *models.DocumentMetadata, error) {
	return failingReader{}, &models.DocumentMetadata{ID: id, FileName: "contract.pdf"}, nil
}

func TestStreamFailureBeforeFirstByte(t *testing.T) {
	handler := NewDocumentHandler(&brokenFileService{}, t.TempDir(), arbor.NewLogger())

	rec := httptest.NewRecorder()
	handler.File(rec, httptest.NewRequest(http.MethodGet, "/api/documents/doc_1/file", nil), "doc_1")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error sending file", errorBody(t, rec))
	assert.Empty(t, rec.Header().Get("Content-Disposition"), "headers must not be committed on a failed stream")
}

func TestDeleteDocument(t *testing.T) {
	handler, _ := newDocumentHandler(t)

	metadata := uploadPDF(t, handler)

	rec := httptest.NewRecorder()
	handler.Delete(rec, httptest.NewRequest(http.MethodDelete, "/api/documents/"+metadata.ID, nil), metadata.ID)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/documents/"+metadata.ID, nil), metadata.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Document not found", errorBody(t, rec))
}

func TestGetUnknownDocument(t *testing.T) {
	handler, _ := newDocumentHandler(t)

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/documents/doc_missing", nil), "doc_missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	handler.Extractions(rec, httptest.NewRequest(http.MethodGet, "/api/documents/doc_missing/extractions", nil), "doc_missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
