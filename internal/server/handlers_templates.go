package server

import (
	"net/http"

	"github.com/jonathan/site-builder/internal/templates"
)

// templateSummary is the wire shape for template listings. The full Config
// carries section variant internals the dashboard does not need.
type templateSummary struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Colors   map[string]string `json:"colors"`
	Sections []string          `json:"sections"`
}

func summarize(tpl *templates.Config) templateSummary {
	return templateSummary{
		ID:   tpl.ID,
		Name: tpl.Name,
		Colors: map[string]string{
			"primary":   tpl.Colors.Primary,
			"secondary": tpl.Colors.Secondary,
			"accent":    tpl.Colors.Accent,
		},
		Sections: tpl.SectionOrder,
	}
}

func templateExists(id string) bool {
	_, ok := templates.Get(id)
	return ok
}

// handleListTemplates lists all registered templates, optionally filtered by
// industry compatibility.
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	var configs []*templates.Config
	if industry := r.URL.Query().Get("industry"); industry != "" {
		configs = templates.ForIndustry(industry)
	} else {
		configs = templates.All()
	}

	summaries := make([]templateSummary, 0, len(configs))
	for _, tpl := range configs {
		summaries = append(summaries, summarize(tpl))
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"templates": summaries,
		"count":     len(summaries),
	})
}

// handleGetTemplate retrieves a single template by id
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	tpl, ok := templates.Get(id)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Template not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, summarize(tpl))
}

// handleSuggestTemplate returns the recommended template for an industry.
func (s *Server) handleSuggestTemplate(w http.ResponseWriter, r *http.Request) {
	industry := r.URL.Query().Get("industry")
	if industry == "" {
		s.errorResponse(w, http.StatusBadRequest, "Industry is required")
		return
	}

	id, suggested := templates.Suggested(industry)
	if !suggested {
		// No static default; fall back to the first compatible template.
		candidates := templates.ForIndustry(industry)
		if len(candidates) == 0 {
			s.errorResponse(w, http.StatusNotFound, "No template for industry")
			return
		}
		id = candidates[0].ID
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"industry":    industry,
		"template_id": id,
		"suggested":   suggested,
	})
}
