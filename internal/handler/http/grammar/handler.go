// Package grammar serves POST /grammar/check.
package grammar

import (
	"encoding/json"
	"errors"
	"net/http"

	"smartnotes/internal/handler/http/respond"
	grammarUC "smartnotes/internal/usecase/grammar"
)

// Register registers the grammar check handler.
func Register(mux *http.ServeMux, svc *grammarUC.Service) {
	mux.Handle("POST /grammar/check", CheckHandler{svc})
}

// CheckResponse lists the mistakes and the text with each one wrapped in a
// grammar-error span.
type CheckResponse struct {
	Matches []grammarUC.Match `json:"matches"`
	HTML    string            `json:"html"`
}

type CheckHandler struct{ Svc *grammarUC.Service }

// ServeHTTP checks the posted text. A failing grammar service yields an
// empty match list rather than an error.
func (h CheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	matches := h.Svc.Check(r.Context(), req.Text)
	respond.JSON(w, http.StatusOK, CheckResponse{
		Matches: matches,
		HTML:    grammarUC.Highlight(req.Text, matches),
	})
}
