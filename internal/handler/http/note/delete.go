package note

import (
	"net/http"

	"smartnotes/internal/handler/http/pathutil"
	"smartnotes/internal/handler/http/respond"
	noteUC "smartnotes/internal/usecase/note"
)

type DeleteHandler struct{ Svc *noteUC.Service }

// ServeHTTP deletes a note and answers 204 No Content.
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
