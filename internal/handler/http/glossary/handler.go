// Package glossary serves the glossary endpoints.
package glossary

import (
	"encoding/json"
	"errors"
	"net/http"

	gloss "smartnotes/internal/glossary"
	"smartnotes/internal/handler/http/respond"
)

// Register registers the glossary handlers.
func Register(mux *http.ServeMux, g *gloss.Glossary) {
	mux.Handle("GET  /glossary", ListHandler{g})
	mux.Handle("POST /glossary/highlight", HighlightHandler{g})
}

type ListHandler struct{ Glossary *gloss.Glossary }

// ServeHTTP lists the known terms sorted by name.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, h.Glossary.Terms())
}

// HighlightResponse carries the content with glossary terms wrapped.
type HighlightResponse struct {
	HTML string `json:"html"`
}

type HighlightHandler struct{ Glossary *gloss.Glossary }

// ServeHTTP wraps every glossary term found in the posted content.
func (h HighlightHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	respond.JSON(w, http.StatusOK, HighlightResponse{HTML: h.Glossary.Highlight(req.Content)})
}
