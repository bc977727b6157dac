package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",          // local dev
	"https://app.agrisetu.in",        // production web app
	"https://agrisetu.vercel.app",    // preview deployments
	"capacitor://localhost",          // mobile shell
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-AGS-Token", "X-Requested-With"},
		ExposedHeaders:   []string{"X-AGS-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
