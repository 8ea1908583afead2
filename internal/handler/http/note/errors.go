package note

import (
	"errors"
	"net/http"

	"smartnotes/internal/domain/entity"
	"smartnotes/internal/handler/http/pathutil"
	"smartnotes/internal/handler/http/respond"
	noteUC "smartnotes/internal/usecase/note"
)

// writeError maps use case errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pathutil.ErrInvalidID), errors.Is(err, noteUC.ErrInvalidNoteID):
		respond.SafeError(w, http.StatusBadRequest, err)
	case errors.Is(err, noteUC.ErrNoteNotFound):
		respond.SafeError(w, http.StatusNotFound, err)
	case errors.Is(err, entity.ErrInvalidInput):
		respond.SafeError(w, http.StatusBadRequest, err)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

// importError maps clipping failures to a status and a message that is safe
// to show to the user.
func importError(err error) *respond.AppError {
	switch {
	case errors.Is(err, noteUC.ErrInvalidURL):
		return respond.NewAppError(http.StatusBadRequest, "invalid URL", err)
	case errors.Is(err, noteUC.ErrPrivateIP):
		return respond.NewAppError(http.StatusBadRequest, "private IP address not allowed", err)
	case errors.Is(err, noteUC.ErrTooManyRedirects):
		return respond.NewAppError(http.StatusUnprocessableEntity, "too many redirects", err)
	case errors.Is(err, noteUC.ErrBodyTooLarge):
		return respond.NewAppError(http.StatusUnprocessableEntity, "page too large", err)
	case errors.Is(err, noteUC.ErrReadabilityFailed):
		return respond.NewAppError(http.StatusUnprocessableEntity, "no readable content found", err)
	case errors.Is(err, noteUC.ErrFetchTimeout):
		return respond.NewAppError(http.StatusGatewayTimeout, "page fetch timed out", err)
	default:
		return respond.NewAppError(http.StatusBadGateway, "could not fetch page", err)
	}
}
