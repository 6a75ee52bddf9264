package middleware

import (
	"pc-store/models"
	"strings"

	"github.com/gin-gonic/gin"
)

const SessionHeader = "X-Session-Token"

// SessionToken reads the cart session from the X-Session-Token header, else
// the session_token query parameter.
func SessionToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(SessionHeader)); token != "" {
		return token
	}
	return strings.TrimSpace(c.Query("session_token"))
}

func CurrentViewer(c *gin.Context) models.Viewer {
	return models.Viewer{User: CurrentUser(c), SessionToken: SessionToken(c)}
}
