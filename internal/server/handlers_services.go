package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

type serviceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	SortOrder   int    `json:"sort_order"`
}

// handleListServices lists a site's services
func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	siteID, ok := s.parseSiteID(w, r)
	if !ok {
		return
	}

	services, err := s.db.ListServicesBySite(r.Context(), siteID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"services": services,
		"count":    len(services),
	})
}

// handleCreateService adds a service to a site
func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	siteID, ok := s.parseSiteID(w, r)
	if !ok {
		return
	}

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "Service name is required")
		return
	}

	svc, err := s.db.CreateService(r.Context(), siteID, req.Name, req.Description, req.Price, req.SortOrder)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, svc)
}

// handleUpdateService replaces a service's fields
func (s *Server) handleUpdateService(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	var req serviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		s.errorResponse(w, http.StatusBadRequest, "Service name is required")
		return
	}

	svc, err := s.db.UpdateService(r.Context(), serviceID, req.Name, req.Description, req.Price, req.SortOrder)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if svc == nil {
		s.errorResponse(w, http.StatusNotFound, "Service not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, svc)
}

// handleDeleteService removes a service
func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid service ID")
		return
	}

	if err := s.db.DeleteService(r.Context(), serviceID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
