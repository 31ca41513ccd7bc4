package middleware

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// CORS lets any of allowedOrigins ("*" for all) call the API with credentials.
// With "*" the request Origin is echoed back, since browsers refuse a
// wildcard origin on credentialed responses.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           3600,
	}
	if slices.Contains(allowedOrigins, "*") {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
	}
	return cors.Handler(opts)
}
