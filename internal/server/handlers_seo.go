package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/site-builder/internal/db"
	"github.com/jonathan/site-builder/internal/schemas"
	"github.com/jonathan/site-builder/internal/seo"
	"github.com/jonathan/site-builder/internal/types"
)

type updateSEORequest struct {
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
}

// handleUpdateSEO sets a site's meta tags after validating length limits.
func (s *Server) handleUpdateSEO(w http.ResponseWriter, r *http.Request) {
	siteID, ok := s.parseSiteID(w, r)
	if !ok {
		return
	}

	var req updateSEORequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Same schema the generator validates against, so manual edits obey the
	// same limits machine-generated tags do.
	payload, err := json.Marshal(map[string]string{
		"meta_title":       req.MetaTitle,
		"meta_description": req.MetaDescription,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to encode meta tags")
		return
	}
	if err := schemas.Validate(schemas.MetaTagsSchema, payload); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	site, err := s.db.UpdateSite(r.Context(), siteID, &db.SiteUpdateInput{
		MetaTitle:       &req.MetaTitle,
		MetaDescription: &req.MetaDescription,
	})
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

// handleSEOPreview returns the meta tags and schema.org JSON-LD a site would
// render. Stored tags win; missing tags fall back to the static defaults.
func (s *Server) handleSEOPreview(w http.ResponseWriter, r *http.Request) {
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

	record := recordFromSite(site)

	meta := seo.MetaTags{Title: site.MetaTitle, Description: site.MetaDescription}
	if meta.Title == "" || meta.Description == "" {
		fallback := seo.FallbackMetaTags(record)
		if meta.Title == "" {
			meta.Title = fallback.Title
		}
		if meta.Description == "" {
			meta.Description = fallback.Description
		}
	}

	services, err := s.db.ListServicesBySite(r.Context(), siteID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	serviceInfos := make([]seo.ServiceInfo, 0, len(services))
	for _, svc := range services {
		serviceInfos = append(serviceInfos, seo.ServiceInfo{Name: svc.Name, Description: svc.Description})
	}

	jsonLD, err := seo.LocalBusinessJSONLD(record, s.siteURL(site.Subdomain), serviceInfos, s.reviewsForSite(r, site))
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to build JSON-LD: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"meta_title":       meta.Title,
		"meta_description": meta.Description,
		"json_ld":          json.RawMessage(jsonLD),
	})
}

// reviewsForSite pulls the review summary out of the latest snapshot, if one
// exists. Preview works without it.
func (s *Server) reviewsForSite(r *http.Request, site *db.Site) *types.ReviewSummary {
	snapshot, err := s.db.GetLatestSnapshot(r.Context(), site.ID)
	if err != nil || snapshot == nil {
		return nil
	}

	var sources types.Sources
	if err := json.Unmarshal(snapshot.Sources, &sources); err != nil {
		return nil
	}
	if sources.GBP != nil && sources.GBP.Reviews != nil {
		return sources.GBP.Reviews
	}
	if sources.Places != nil && sources.Places.Reviews != nil {
		return sources.Places.Reviews
	}
	return nil
}

func (s *Server) siteURL(subdomain string) string {
	domain := s.siteDomain
	if domain == "" {
		domain = "example-sites.com"
	}
	return "https://" + subdomain + "." + domain
}

// recordFromSite rebuilds the business record fields the SEO helpers need
// from the persisted site row.
func recordFromSite(site *db.Site) types.BusinessRecord {
	return types.BusinessRecord{
		Name:     site.BusinessName,
		Industry: site.Industry,
		Phone:    site.Phone,
		Street:   site.Street,
		City:     site.City,
		State:    site.State,
		Zip:      site.Zip,
	}
}
