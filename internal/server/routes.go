package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Protected document routes require an authenticated admin
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return s.app.AuthMiddleware.Authenticate(
			s.app.AuthMiddleware.Authorize("admin")(h))
	}

	// API routes - Authentication
	mux.HandleFunc("/api/auth/login", s.app.AuthHandler.Login) // POST - exchange credentials for token
	mux.Handle("/api/auth/me", s.app.AuthMiddleware.Authenticate(
		http.HandlerFunc(s.app.AuthHandler.Me))) // GET - current user

	// API routes - Documents
	mux.Handle("/api/documents", adminOnly(s.handleDocumentsRoute)) // GET (list), POST (upload)
	mux.Handle("/api/documents/", adminOnly(s.handleDocumentRoutes)) // GET/DELETE /{id} and subpaths

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.Version)
	mux.HandleFunc("/api/health", s.app.APIHandler.Health)
	mux.HandleFunc("/api", s.app.APIHandler.Welcome)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFound)

	// Static uploaded files
	uploadsFS := http.FileServer(http.Dir(s.app.Config.Storage.Uploads))
	mux.Handle("/uploads/", http.StripPrefix("/uploads/", uploadsFS))

	return mux
}

// handleDocumentsRoute routes the document collection endpoint by method
func (s *Server) handleDocumentsRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.app.DocumentHandler.List(w, r)
	case http.MethodPost:
		s.app.DocumentHandler.Upload(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleDocumentRoutes routes /api/documents/{id} and its subpaths
func (s *Server) handleDocumentRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	if path == "" {
		s.app.APIHandler.NotFound(w, r)
		return
	}

	// GET /api/documents/{id}/extractions
	if documentID, ok := strings.CutSuffix(path, "/extractions"); ok {
		s.app.DocumentHandler.Extractions(w, r, documentID)
		return
	}

	// GET /api/documents/{id}/file
	if documentID, ok := strings.CutSuffix(path, "/file"); ok {
		s.app.DocumentHandler.File(w, r, documentID)
		return
	}

	if strings.Contains(path, "/") {
		s.app.APIHandler.NotFound(w, r)
		return
	}

	// GET/DELETE /api/documents/{id}
	switch r.Method {
	case http.MethodGet:
		s.app.DocumentHandler.Get(w, r, path)
	case http.MethodDelete:
		s.app.DocumentHandler.Delete(w, r, path)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
