package note

import (
	"net/http"
	"strings"

	"smartnotes/internal/handler/http/respond"
	"smartnotes/internal/observability/logging"
	"smartnotes/internal/observability/metrics"
	noteUC "smartnotes/internal/usecase/note"
)

type ListHandler struct{ Svc *noteUC.Service }

// ServeHTTP lists notes, pinned first and then newest first.
// With ?q= only notes whose title or content contain the query are returned.
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	notes, err := h.Svc.Search(ctx, query)
	if err != nil {
		logging.FromContext(ctx).Error("failed to list notes",
			"error", respond.SanitizeError(err),
			"query", query)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	if query == "" {
		metrics.UpdateNotesTotal(len(notes))
	}
	respond.JSON(w, http.StatusOK, toDTOs(notes))
}
