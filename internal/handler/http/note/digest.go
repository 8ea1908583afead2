package note

import (
	"net/http"

	"smartnotes/internal/handler/http/pathutil"
	"smartnotes/internal/handler/http/respond"
	"smartnotes/internal/observability/logging"
)

// DigestHandler serves POST /notes/{id}/digest.
type DigestHandler struct{ Svc Enricher }

// ServeHTTP generates the summary and tags of a note and returns the
// updated note. Remote failures fall back to the local digest engine, so
// only storage errors surface here.
func (h DigestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	n, err := h.Svc.Enrich(r.Context(), id)
	if err != nil {
		logging.FromContext(r.Context()).Warn("note digest failed",
			"note_id", id,
			"error", respond.SanitizeError(err))
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(n))
}
