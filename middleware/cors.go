package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const devOrigin = "http://localhost:5173"

// CORSMiddleware allows the storefront origins (comma separated) plus the
// local dev server. The cart session header must be readable by the client.
func CORSMiddleware(origins string) gin.HandlerFunc {
	allowed := []string{devOrigin}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" && o != devOrigin {
			allowed = append(allowed, o)
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowed,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language", SessionHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Language", SessionHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
