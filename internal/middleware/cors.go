package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// AllowCors wraps the handler with CORS headers. An empty origin list allows
// every origin.
func AllowCors(allowedOrigins []string, handler http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization"},
		AllowCredentials: true,
	}).Handler(handler)
}
