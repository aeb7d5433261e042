package middleware

import (
	"net/http"

	"mall-backend/internal/config"

	"github.com/rs/cors"
)

// NewCORS builds the CORS layer from config. Credentials are always
// allowed since the web clients authenticate with bearer tokens over
// XHR; origins therefore must be listed explicitly, never "*".
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	methods := cfg.Server.CorsAllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	}
	headers := cfg.Server.CorsAllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Authorization", "Content-Type"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   methods,
		AllowedHeaders:   headers,
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler
}
