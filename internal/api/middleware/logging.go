package middleware

import (
	"log"
	"net/http"
	"time"
)

type wrappedWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (w *wrappedWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *wrappedWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// quietPaths are polled by the shell or a scraper; they are logged only on failure.
var quietPaths = map[string]bool{
	"/api/health": true,
	"/metrics":    true,
}

// Logger writes one line per request: method, path, status, response size,
// latency, and the caller's origin when the webview sent one.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &wrappedWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		if quietPaths[r.URL.Path] && wrapped.statusCode < 400 {
			return
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "-"
		}
		log.Printf("[http] %s %s %d %dB %s origin=%s",
			r.Method, r.URL.Path, wrapped.statusCode, wrapped.bytes, time.Since(start).Round(time.Microsecond), origin)
	})
}
