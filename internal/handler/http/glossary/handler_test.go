package glossary_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gloss "smartnotes/internal/glossary"
	glossaryhttp "smartnotes/internal/handler/http/glossary"
)

func newMux() *http.ServeMux {
	mux := http.NewServeMux()
	glossaryhttp.Register(mux, gloss.New(map[string]string{"Go": "A statically typed language."}))
	return mux
}

func TestHighlight(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/glossary/highlight",
		strings.NewReader(`{"content":"<p>Learning go and react</p>"}`))
	newMux().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp glossaryhttp.HighlightResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp.HTML, `data-definition="A statically typed language.">go</span>`)
	assert.Contains(t, resp.HTML, `>react</span>`)
	assert.True(t, strings.HasPrefix(resp.HTML, "<p>"))
}

func TestHighlight_MalformedBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/glossary/highlight", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestList(t *testing.T) {
	rec := httptest.NewRecorder()
	newMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/glossary", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var terms []gloss.Term
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&terms))
	names := make([]string, 0, len(terms))
	for _, term := range terms {
		names = append(names, term.Name)
	}
	assert.Equal(t, []string{"CSS", "Go", "HTML", "JavaScript", "React"}, names)
}
