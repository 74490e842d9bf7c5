package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// handleListPages lists a site's pages
func (s *Server) handleListPages(w http.ResponseWriter, r *http.Request) {
	siteID, ok := s.parseSiteID(w, r)
	if !ok {
		return
	}

	pages, err := s.db.ListPagesBySite(r.Context(), siteID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"pages": pages,
		"count": len(pages),
	})
}

// handleGetPage retrieves one page by site and slug
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	siteID, ok := s.parseSiteID(w, r)
	if !ok {
		return
	}

	slug := r.PathValue("slug")
	if slug == "" {
		s.errorResponse(w, http.StatusBadRequest, "Page slug is required")
		return
	}

	page, err := s.db.GetPage(r.Context(), siteID, slug)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if page == nil {
		s.errorResponse(w, http.StatusNotFound, "Page not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, page)
}

type updatePageRequest struct {
	Title   string          `json:"title"`
	Content json.RawMessage `json:"content"`
}

// handleUpdatePage replaces a page's title and content blocks
func (s *Server) handleUpdatePage(w http.ResponseWriter, r *http.Request) {
	pageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid page ID")
		return
	}

	var req updatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		s.errorResponse(w, http.StatusBadRequest, "Page title is required")
		return
	}
	if len(req.Content) > 0 && !json.Valid(req.Content) {
		s.errorResponse(w, http.StatusBadRequest, "Page content must be valid JSON")
		return
	}

	page, err := s.db.UpdatePageContent(r.Context(), pageID, req.Title, req.Content)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if page == nil {
		s.errorResponse(w, http.StatusNotFound, "Page not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, page)
}

// handlePublishPage marks a page as visible
func (s *Server) handlePublishPage(w http.ResponseWriter, r *http.Request) {
	s.setPagePublished(w, r, true)
}

// handleUnpublishPage hides a page
func (s *Server) handleUnpublishPage(w http.ResponseWriter, r *http.Request) {
	s.setPagePublished(w, r, false)
}

func (s *Server) setPagePublished(w http.ResponseWriter, r *http.Request, published bool) {
	pageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid page ID")
		return
	}

	if err := s.db.SetPagePublished(r.Context(), pageID, published); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.errorResponse(w, http.StatusNotFound, "Page not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":        pageID,
		"published": published,
	})
}

// handleDeletePage removes a page
func (s *Server) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	pageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid page ID")
		return
	}

	if err := s.db.DeletePage(r.Context(), pageID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
