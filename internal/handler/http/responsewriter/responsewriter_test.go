package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter_Defaults(t *testing.T) {
	w := Wrap(httptest.NewRecorder())
	assert.Equal(t, http.StatusOK, w.StatusCode())
	assert.Zero(t, w.BytesWritten())
}

func TestResponseWriter_WriteHeaderOnce(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusCreated, w.StatusCode())
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestResponseWriter_Write(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	n, err := w.Write([]byte(`{"id":1}`))
	require.NoError(t, err)
	_, err = w.Write([]byte("\n"))
	require.NoError(t, err)

	assert.Equal(t, 8, n)
	assert.Equal(t, 9, w.BytesWritten())
	assert.Equal(t, http.StatusOK, w.StatusCode())
	assert.Equal(t, "{\"id\":1}\n", rec.Body.String())
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)
	assert.Same(t, rec, w.Unwrap())
	assert.NoError(t, http.NewResponseController(w).Flush())
}
