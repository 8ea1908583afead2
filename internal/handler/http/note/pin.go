package note

import (
	"net/http"

	"smartnotes/internal/handler/http/pathutil"
	"smartnotes/internal/handler/http/respond"
	noteUC "smartnotes/internal/usecase/note"
)

type PinHandler struct{ Svc *noteUC.Service }

// ServeHTTP toggles the pinned flag and returns the note.
func (h PinHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	n, err := h.Svc.TogglePin(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(n))
}
