package note

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"smartnotes/internal/domain/entity"
	"smartnotes/internal/handler/http/respond"
	"smartnotes/internal/observability/logging"
	"smartnotes/internal/observability/metrics"
	noteUC "smartnotes/internal/usecase/note"
)

type ImportHandler struct{ Svc *noteUC.Service }

// ServeHTTP clips the readable text of a web page into a new note.
//
// Request body: {"url": "https://..."}
func (h ImportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)
	start := time.Now()

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	req.URL = strings.TrimSpace(req.URL)

	n, err := h.Svc.Import(ctx, req.URL)
	if err != nil {
		metrics.RecordImport(false)
		logger.Warn("note import failed",
			"url", req.URL,
			"error", respond.SanitizeError(err),
			"duration_ms", time.Since(start).Milliseconds())

		if errors.Is(err, entity.ErrInvalidInput) {
			respond.SafeError(w, http.StatusBadRequest, err)
			return
		}
		respond.SafeErrorV2(w, http.StatusBadGateway, importError(err))
		return
	}

	metrics.RecordImport(true)
	logger.Info("note imported",
		"note_id", n.ID,
		"url", req.URL,
		"content_length", len(n.Content),
		"duration_ms", time.Since(start).Milliseconds())

	w.Header().Set("Location", "/notes/"+itoa(n.ID))
	respond.JSON(w, http.StatusCreated, toDTO(n))
}
