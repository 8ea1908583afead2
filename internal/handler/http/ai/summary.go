package ai

import (
	"net/http"

	"smartnotes/internal/handler/http/respond"
	aiUC "smartnotes/internal/usecase/ai"
)

// SummaryResponse is returned by POST /ai/summary.
type SummaryResponse struct {
	Summary string `json:"summary"`
	// Source is "remote" or "local".
	Source string `json:"source"`
}

type SummaryHandler struct{ Svc *aiUC.Service }

// ServeHTTP summarizes the posted text. Texts shorter than 50 characters
// are rejected with 400.
func (h SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(w, r)
	if !ok {
		return
	}

	res, err := h.Svc.Summarize(r.Context(), text)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, SummaryResponse{Summary: res.Summary, Source: res.Source})
}
