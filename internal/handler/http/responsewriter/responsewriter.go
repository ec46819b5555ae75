// Package responsewriter records the status code and body size of an HTTP
// response so logging and metrics middleware can report what was sent.
package responsewriter

import "net/http"

// ResponseWriter is an http.ResponseWriter that remembers what passed
// through it. The first WriteHeader wins; later calls are ignored, so a
// handler that writes a status twice reports the one the client saw.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	written int
	wrote   bool
}

// Wrap decorates w. The status defaults to 200, matching net/http's
// implicit header write.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *ResponseWriter) WriteHeader(status int) {
	if w.wrote {
		return
	}
	w.status = status
	w.wrote = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.written += n
	return n, err
}

// StatusCode reports the status sent to the client.
func (w *ResponseWriter) StatusCode() int { return w.status }

// BytesWritten reports the number of body bytes sent.
func (w *ResponseWriter) BytesWritten() int { return w.written }

// Unwrap exposes the underlying writer for http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
