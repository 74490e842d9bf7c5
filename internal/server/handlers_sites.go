package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/site-builder/internal/db"
)

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 0 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// parseSiteID extracts and validates the site id path parameter. Writes the
// error response itself and reports ok=false when the id is malformed.
func (s *Server) parseSiteID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid site ID")
		return uuid.Nil, false
	}
	return id, true
}

// handleListSites lists sites
func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50, 200)

	sites, err := s.db.ListSites(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"sites": sites,
		"count": len(sites),
	})
}

// handleGetSite retrieves a site by ID
func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	siteID, ok := s.parseSiteID(w, r)
	if !ok {
		return
	}

	site, err := s.db.GetSiteByID(r.Context(), siteID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if site == nil {
		s.errorResponse(w, http.StatusNotFound, "Site not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, site)
}

// handleGetSiteBySubdomain retrieves a site by its subdomain
func (s *Server) handleGetSiteBySubdomain(w http.ResponseWriter, r *http.Request) {
	subdomain := r.URL.Query().Get("subdomain")
	if subdomain == "" {
		s.errorResponse(w, http.StatusBadRequest, "Subdomain is required")
		return
	}

	site, err := s.db.GetSiteBySubdomain(r.Context(), db.NormalizeSubdomain(subdomain))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if site == nil {
		s.errorResponse(w, http.StatusNotFound, "Site not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, site)
}

// handleUpdateSite updates mutable site fields
func (s *Server) handleUpdateSite(w http.ResponseWriter, r *http.Request) {
	siteID, ok := s.parseSiteID(w, r)
	if !ok {
		return
	}

	var input db.SiteUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if input.TemplateID != nil {
		if !templateExists(*input.TemplateID) {
			s.errorResponse(w, http.StatusBadRequest, "Unknown template: "+*input.TemplateID)
			return
		}
	}

	site, err := s.db.UpdateSite(r.Context(), siteID, &input)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if site == nil {
		s.errorResponse(w, http.StatusNotFound, "Site not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, site)
}

// handleDeleteSite removes a site and its pages and services
func (s *Server) handleDeleteSite(w http.ResponseWriter, r *http.Request) {
	siteID, ok := s.parseSiteID(w, r)
	if !ok {
		return
	}

	if err := s.db.DeleteSite(r.Context(), siteID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handlePublishSite marks a site as live
func (s *Server) handlePublishSite(w http.ResponseWriter, r *http.Request) {
	s.setSitePublished(w, r, true)
}

// handleUnpublishSite takes a site offline
func (s *Server) handleUnpublishSite(w http.ResponseWriter, r *http.Request) {
	s.setSitePublished(w, r, false)
}

func (s *Server) setSitePublished(w http.ResponseWriter, r *http.Request, published bool) {
	siteID, ok := s.parseSiteID(w, r)
	if !ok {
		return
	}

	if err := s.db.SetSitePublished(r.Context(), siteID, published); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.errorResponse(w, http.StatusNotFound, "Site not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":        siteID,
		"published": published,
	})
}

// handleGetSnapshot returns the most recent imported business data for a site
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	siteID, ok := s.parseSiteID(w, r)
	if !ok {
		return
	}

	snapshot, err := s.db.GetLatestSnapshot(r.Context(), siteID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if snapshot == nil {
		s.errorResponse(w, http.StatusNotFound, "No snapshot for site")
		return
	}

	s.jsonResponse(w, http.StatusOK, snapshot)
}
