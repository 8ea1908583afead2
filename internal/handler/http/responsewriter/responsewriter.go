// Package responsewriter records the status and size of a response for
// logging, metrics and tracing.
package responsewriter

import "net/http"

// ResponseWriter remembers the first status written and counts body bytes.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	written int
	sent    bool
}

// Wrap returns w wrapped; the status reads 200 until WriteHeader is called.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *ResponseWriter) WriteHeader(code int) {
	if w.sent {
		return
	}
	w.status, w.sent = code, true
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.sent {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

func (w *ResponseWriter) StatusCode() int   { return w.status }
func (w *ResponseWriter) BytesWritten() int { return w.written }

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
