package note

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"smartnotes/internal/handler/http/pathutil"
	"smartnotes/internal/handler/http/respond"
	noteUC "smartnotes/internal/usecase/note"
)

type UpdateHandler struct{ Svc *noteUC.Service }

// ServeHTTP applies a partial update. Omitted fields keep their value.
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Title   *string   `json:"title"`
		Content *string   `json:"content"`
		Pinned  *bool     `json:"pinned"`
		Tags    *[]string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	n, err := h.Svc.Update(r.Context(), noteUC.UpdateInput{
		ID:      id,
		Title:   req.Title,
		Content: req.Content,
		Pinned:  req.Pinned,
		Tags:    req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(n))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
