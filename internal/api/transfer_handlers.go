package api

import (
	"net/http"

	"github.com/shelfmarkapp/shelfmark-server/internal/http/response"
)

// Transfer routes stream CSV bodies, so they bypass the OpenAPI layer and
// register directly on the router.
func (s *Server) registerTransferRoutes() {
	s.router.Get("/api/v1/catalog/export", s.handleExportCatalog)
	s.router.Post("/api/v1/catalog/import", s.handleImportCatalog)
}

// handleExportCatalog streams the full collection as a CSV attachment.
func (s *Server) handleExportCatalog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="shelfmark-catalog.csv"`)

	if err := s.catalog.ExportCSV(w); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("catalog export failed mid-stream", "error", err)
	}
}

// handleImportCatalog replaces the collection with the uploaded CSV. The
// request must carry confirm=true; the client shows the replace warning
// before sending it.
func (s *Server) handleImportCatalog(w http.ResponseWriter, r *http.Request) {
	confirm := r.URL.Query().Get("confirm") == "true"

	body := r.Body
	defer body.Close()

	result, err := s.catalog.ImportCSV(r.Context(), body, confirm)
	if err != nil {
		response.FromError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
