package middleware

import (
	"github.com/go-chi/cors"
)

// DefaultWebviewOrigins are the origins a desktop webview loads the UI from:
// the Tauri custom scheme on macOS/Linux, its Windows form, and a local dev server.
var DefaultWebviewOrigins = []string{
	"tauri://localhost",
	"http://tauri.localhost",
	"https://tauri.localhost",
	"http://localhost:*",
	"http://127.0.0.1:*",
}

// CORSHandler allows the webview origins to call the bridge. An empty list
// falls back to DefaultWebviewOrigins.
func CORSHandler(allowedOrigins []string) cors.Options {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultWebviewOrigins
	}

	// Credentials are never combined with a wildcard origin.
	allowCreds := true
	for _, o := range allowedOrigins {
		if o == "*" {
			allowCreds = false
			break
		}
	}

	return cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: allowCreds,
		MaxAge:           300,
	}
}
