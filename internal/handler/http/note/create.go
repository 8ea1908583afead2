package note

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"smartnotes/internal/handler/http/respond"
	noteUC "smartnotes/internal/usecase/note"
)

type CreateHandler struct{ Svc *noteUC.Service }

// ServeHTTP creates a note. Every field is optional; a missing title or
// content gets the default value.
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Pinned  bool     `json:"pinned"`
		Tags    []string `json:"tags"`
	}
	// An empty body creates a default note.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}

	n, err := h.Svc.Create(r.Context(), noteUC.CreateInput{
		Title:   req.Title,
		Content: req.Content,
		Pinned:  req.Pinned,
		Tags:    req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/notes/"+itoa(n.ID))
	respond.JSON(w, http.StatusCreated, toDTO(n))
}
