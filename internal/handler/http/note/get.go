package note

import (
	"net/http"

	"smartnotes/internal/handler/http/pathutil"
	"smartnotes/internal/handler/http/respond"
	noteUC "smartnotes/internal/usecase/note"
)

type GetHandler struct{ Svc *noteUC.Service }

// ServeHTTP returns a single note.
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	n, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(n))
}
