package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/richxcame/storefront/pkg/common"
)

const (
	// UserIDKey is the gin context key for the authenticated user ID
	UserIDKey = "user_id"
	// UserEmailKey is the gin context key for the authenticated user email
	UserEmailKey = "user_email"
	// UserRoleKey is the gin context key for the authenticated user role
	UserRoleKey = "user_role"

	// RoleAdmin marks staff accounts with access to admin endpoints
	RoleAdmin = "admin"
	// RoleCustomer is the default role for shoppers
	RoleCustomer = "customer"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the Bearer token and stores the caller's
// identity in the gin context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.AppErrorResponse(c, common.NewUnauthorizedError("authorization header is required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			common.AppErrorResponse(c, common.NewUnauthorizedError("authorization header must be a Bearer token"))
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			common.AppErrorResponse(c, common.NewUnauthorizedError("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)

		c.Next()
	}
}

// OptionalAuth validates the Bearer token when one is present and lets
// anonymous requests through. Used for guest checkout routes.
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	auth := AuthMiddleware(jwtSecret)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		auth(c)
	}
}

// RequireRole aborts with 403 unless the authenticated user has the role.
// AuthMiddleware must run first.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString(UserRoleKey)
		if userRole != role {
			common.AppErrorResponse(c, common.NewForbiddenError("insufficient permissions"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts the route to admin users.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(RoleAdmin)
}

// GetUserID extracts the authenticated user ID from the gin context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	raw := c.GetString(UserIDKey)
	if raw == "" {
		return uuid.Nil, common.NewUnauthorizedError("user not authenticated")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, common.NewUnauthorizedError("invalid user id in token")
	}
	return id, nil
}

// GetUserEmail extracts the authenticated user email from the gin context.
func GetUserEmail(c *gin.Context) string {
	return c.GetString(UserEmailKey)
}

// GetUserRole extracts the authenticated user role from the gin context.
func GetUserRole(c *gin.Context) string {
	return c.GetString(UserRoleKey)
}
