package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/brightclass/brightclass-backend/internal/platform/envutil"
)

// Local frontend dev servers; production sets CORS_ALLOWED_ORIGINS.
const defaultOrigins = "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173"

func CORS() gin.HandlerFunc {
	var origins []string
	for _, o := range strings.Split(envutil.Str("CORS_ALLOWED_ORIGINS", defaultOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "Idempotency-Key"},
		AllowCredentials: true,
	})
}
