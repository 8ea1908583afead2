// Package note serves the /notes HTTP API.
package note

import (
	"context"
	"net/http"

	"smartnotes/internal/domain/entity"
	noteUC "smartnotes/internal/usecase/note"
)

// Enricher produces and stores a note's summary and tags.
type Enricher interface {
	Enrich(ctx context.Context, noteID int64) (*entity.Note, error)
}

// Register registers all note-related HTTP handlers with the given mux.
// A nil enricher leaves the digest route unregistered.
func Register(mux *http.ServeMux, svc *noteUC.Service, enricher Enricher) {
	mux.Handle("GET    /notes", ListHandler{svc})
	mux.Handle("POST   /notes", CreateHandler{svc})
	mux.Handle("POST   /notes/import", ImportHandler{svc})

	mux.Handle("GET    /notes/{id}", GetHandler{svc})
	mux.Handle("PUT    /notes/{id}", UpdateHandler{svc})
	mux.Handle("DELETE /notes/{id}", DeleteHandler{svc})
	mux.Handle("POST   /notes/{id}/pin", PinHandler{svc})

	if enricher != nil {
		mux.Handle("POST   /notes/{id}/digest", DigestHandler{enricher})
	}
}
