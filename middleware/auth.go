package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"content-protect-assistant/internal/auth"
	"content-protect-assistant/models"
	"content-protect-assistant/utils"
)

type AuthMiddleware struct {
	rdb *redis.Client
}

func NewAuthMiddleware(rdb *redis.Client) *AuthMiddleware {
	return &AuthMiddleware{rdb: rdb}
}

// RequireAdmin rejects any request that does not carry a valid access token
// for an administrator. The assistant panel has no non-admin surface, so
// there is no weaker tier.
func (a *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			utils.RespondWithUnauthorized(c, "Authentication token is required")
			c.Abort()
			return
		}

		claims, err := auth.ValidateAccessToken(tokenString, a.rdb)
		if err != nil {
			utils.RespondWithUnauthorized(c, "Your session has expired. Please log in again.")
			c.Abort()
			return
		}

		if claims.Role != "admin" && claims.Role != "superadmin" {
			utils.RespondWithForbidden(c, "forbidden", "Administrator privilege required")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Name)
		c.Set("user_email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("claims", claims)

		c.Next()
	}
}

// extractToken pulls the access token from the Authorization header or the
// access_token cookie, header first.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
		return authHeader
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}

	return ""
}

// Helper function to get user ID from context
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// GetUser returns the authenticated admin's identity for context building
func GetUser(c *gin.Context) models.UserInfo {
	return models.UserInfo{
		ID:    GetUserID(c),
		Name:  c.GetString("user_name"),
		Email: c.GetString("user_email"),
	}
}
