package handlers

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/satchel/internal/common"
	"github.com/ternarybob/satchel/internal/interfaces"
)

// DocumentHandler serves the document lifecycle routes.
type DocumentHandler struct {
	documentService interfaces.DocumentService
	uploadsDir      string
	logger          arbor.ILogger
}

func NewDocumentHandler(documentService interfaces.DocumentService, uploadsDir string, logger arbor.ILogger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		uploadsDir:      uploadsDir,
		logger:          logger,
	}
}

// List handles GET /api/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	documents, err := h.documentService.ListDocuments(r.Context())
	if err != nil {
		WriteClassifiedError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, documents)
}

// Upload handles POST /api/documents. The file is stored on disk under a
// collision-resistant name before the record is written.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, common.MaxUploadSize)
	if err := r.ParseMultipartForm(common.MaxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteClassifiedError(w, h.logger, err)
			return
		}
		WriteClassifiedError(w, h.logger, &common.UploadError{Err: err})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			WriteClassifiedError(w, h.logger, common.ErrNoFileUploaded)
			return
		}
		WriteClassifiedError(w, h.logger, &common.UploadError{Err: err})
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if mimeType != "application/pdf" {
		WriteClassifiedError(w, h.logger, common.ErrOnlyPDFAllowed)
		return
	}

	storedName := uniqueFileName()
	size, err := h.storeFile(file, storedName)
	if err != nil {
		WriteClassifiedError(w, h.logger, &common.UploadError{Err: err})
		return
	}

	uploaded := &interfaces.UploadedFile{
		OriginalName: header.Filename,
		StoredName:   storedName,
		MimeType:     mimeType,
		Size:         size,
	}

	metadata, err := h.documentService.CreateDocument(r.Context(), uploaded)
	if err != nil {
		os.Remove(filepath.Join(h.uploadsDir, storedName))
		WriteClassifiedError(w, h.logger, err)
		return
	}

	h.logger.Info().
		Str("document_id", metadata.ID).
		Str("file_name", metadata.FileName).
		Int64("file_size", metadata.FileSize).
		Msg("Document uploaded")
	WriteJSON(w, http.StatusCreated, metadata)
}

// Get handles GET /api/documents/{id}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request, documentID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	metadata, err := h.documentService.GetDocumentMetadata(r.Context(), documentID)
	if err != nil {
		WriteClassifiedError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, metadata)
}

// Extractions handles GET /api/documents/{id}/extractions.
func (h *DocumentHandler) Extractions(w http.ResponseWriter, r *http.Request, documentID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	result, err := h.documentService.GetDocumentExtractions(r.Context(), documentID)
	if err != nil {
		WriteClassifiedError(w, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// File handles GET /api/documents/{id}/file, streaming the stored PDF
// for inline viewing.
func (h *DocumentHandler) File(w http.ResponseWriter, r *http.Request, documentID string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	reader, metadata, err := h.documentService.OpenDocumentFile(r.Context(), documentID)
	if err != nil {
		WriteClassifiedError(w, h.logger, err)
		return
	}
	defer reader.Close()

	// Read the first chunk before committing headers so a failure at the
	// start of the stream still classifies as a send error.
	chunk := make([]byte, 32*1024)
	n, readErr := reader.Read(chunk)
	if readErr != nil && readErr != io.EOF {
		h.logger.Error().Err(readErr).Str("document_id", documentID).Msg("Document file read failed")
		WriteClassifiedError(w, h.logger, common.ErrFileSend)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", metadata.FileName))
	w.WriteHeader(http.StatusOK)

	if n > 0 {
		if _, err := w.Write(chunk[:n]); err != nil {
			h.logger.Error().Err(err).Str("document_id", documentID).Msg(common.ErrFileSend.Message)
			return
		}
	}
	if readErr == io.EOF {
		return
	}

	if _, err := io.Copy(w, reader); err != nil {
		// Headers are already on the wire, so the classifier can only log.
		h.logger.Error().
			Err(err).
			Str("document_id", documentID).
			Msg(common.ErrFileSend.Message)
	}
}

// Delete handles DELETE /api/documents/{id}.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request, documentID string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	if err := h.documentService.DeleteDocument(r.Context(), documentID); err != nil {
		WriteClassifiedError(w, h.logger, err)
		return
	}

	h.logger.Info().Str("document_id", documentID).Msg("Document deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *DocumentHandler) storeFile(file multipart.File, storedName string) (int64, error) {
	if err := os.MkdirAll(h.uploadsDir, 0755); err != nil {
		return 0, err
	}

	destination, err := os.Create(filepath.Join(h.uploadsDir, storedName))
	if err != nil {
		return 0, err
	}
	defer destination.Close()

	return io.Copy(destination, file)
}

func uniqueFileName() string {
	return fmt.Sprintf("file-%d-%d.pdf", time.Now().UnixNano(), rand.IntN(1000000000))
}
