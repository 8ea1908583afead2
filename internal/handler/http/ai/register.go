// Package ai serves the raw-text AI endpoints used by the editor.
package ai

import (
	"encoding/json"
	"errors"
	"net/http"

	"smartnotes/internal/handler/http/respond"
	aiUC "smartnotes/internal/usecase/ai"
)

// Register registers the AI summary and tagging handlers.
func Register(mux *http.ServeMux, svc *aiUC.Service) {
	mux.Handle("POST /ai/summary", SummaryHandler{svc})
	mux.Handle("POST /ai/tags", TagsHandler{svc})
}

type textRequest struct {
	Text string `json:"text"`
}

func decodeText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return "", false
	}
	return req.Text, true
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, aiUC.ErrTextTooShort) {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	respond.SafeError(w, http.StatusInternalServerError, err)
}
