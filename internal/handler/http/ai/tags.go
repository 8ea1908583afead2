package ai

import (
	"net/http"

	"smartnotes/internal/handler/http/respond"
	aiUC "smartnotes/internal/usecase/ai"
)

// TagsResponse is returned by POST /ai/tags.
type TagsResponse struct {
	Tags     []string `json:"tags"`
	Remote   []string `json:"remote"`
	Keywords []string `json:"keywords"`
}

type TagsHandler struct{ Svc *aiUC.Service }

// ServeHTTP suggests tags for the posted text. Texts shorter than 10
// characters are rejected with 400.
func (h TagsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeText(w, r)
	if !ok {
		return
	}

	res, err := h.Svc.Tags(r.Context(), text)
	if err != nil {
		writeError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, TagsResponse{
		Tags:     nonNil(res.Tags),
		Remote:   nonNil(res.Remote),
		Keywords: nonNil(res.Keywords),
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
