package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const loginPath = "/login"

// AuthRequired validates the session token from the jwt cookie or the
// Authorization header and stores role and user id on the context.
// Unauthenticated browsers are sent back to the login page rather than
// served an error body.
func AuthRequired(secret string, logger *zap.Logger) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		var tokenString string

		if cookie, err := c.Cookie("jwt"); err == nil {
			tokenString = cookie
		}
		if tokenString == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenString = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if tokenString == "" {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			logger.Warn("rejected invalid session token", zap.Error(err))
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}

		// A token without a user id cannot be scoped to a department, so
		// treat it as malformed credentials rather than letting downstream
		// lookups run with id 0.
		userID, ok := claims["user_id"].(float64)
		if !ok {
			logger.Warn("rejected session token without user id")
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}

		role, _ := claims["role"].(string)
		c.Set("role", strings.ToLower(strings.TrimSpace(role)))
		c.Set("user_id", int64(userID))

		c.Next()
	}
}

// RoleOnly gates a route group to the given roles. Wrong-role callers are
// redirected to the login page, matching the behaviour of the rest of the
// portal.
func RoleOnly(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("role")
		for _, role := range allowedRoles {
			if strings.EqualFold(userRole, role) {
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusSeeOther, loginPath)
		c.Abort()
	}
}
