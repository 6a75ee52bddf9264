package middleware

import (
	"context"
	"log"
	"net/http"
	"pc-store/i18n"
	"pc-store/models"
	"pc-store/utils"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
	userRoleKey  = "user_role"
	authErrKey   = "auth_error"
)

func abort(c *gin.Context, status int, key string) {
	c.AbortWithStatusJSON(status, models.Response{
		Success: false,
		Error:   key,
		Message: Translate(c, key),
	})
}

// AttachUser identifies the caller from a bearer token when one is sent. A
// bad token is remembered for RequireAuth but never blocks public routes.
func AttachUser(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenParts := strings.Fields(authHeader)
		if len(tokenParts) != 2 || !strings.EqualFold(tokenParts[0], "Bearer") {
			c.Set(authErrKey, true)
			c.Next()
			return
		}

		claims, err := tokens.Validate(tokenParts[1])
		if err != nil {
			c.Set(authErrKey, true)
			c.Next()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userEmailKey, claims.Email)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) != nil {
			c.Next()
			return
		}
		if c.GetBool(authErrKey) {
			abort(c, http.StatusUnauthorized, i18n.KeyInvalidToken)
			return
		}
		abort(c, http.StatusUnauthorized, i18n.KeyUnauthorized)
	}
}

// RoleSource reports the stored role of a user; an empty role means the
// account no longer exists.
type RoleSource interface {
	CurrentRole(ctx context.Context, userID int) (string, error)
}

// RequireAdmin runs after RequireAuth. With a RoleSource the stored role is
// checked as well, so a demoted admin loses access before the token expires.
func RequireAdmin(roles RoleSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != models.RoleAdmin {
			abort(c, http.StatusForbidden, i18n.KeyForbidden)
			return
		}
		if roles != nil {
			role, err := roles.CurrentRole(c.Request.Context(), user.UserID)
			if err != nil {
				log.Printf("admin role check for user %d: %v", user.UserID, err)
				abort(c, http.StatusInternalServerError, i18n.KeyInternalError)
				return
			}
			if role != models.RoleAdmin {
				abort(c, http.StatusForbidden, i18n.KeyForbidden)
				return
			}
		}
		c.Next()
	}
}

// CurrentUser returns the identity attached by AttachUser, if any.
func CurrentUser(c *gin.Context) *models.Identity {
	id := c.GetInt(userIDKey)
	if id <= 0 {
		return nil
	}
	return &models.Identity{
		UserID: id,
		Email:  c.GetString(userEmailKey),
		Role:   c.GetString(userRoleKey),
	}
}

func CurrentUserID(c *gin.Context) *int {
	if user := CurrentUser(c); user != nil {
		return &user.UserID
	}
	return nil
}
