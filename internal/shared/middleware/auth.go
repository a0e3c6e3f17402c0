package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	pkgjwt "review-service/pkg/jwt"
)

func parseBearerToken(c *gin.Context, manager *pkgjwt.Manager) (*pkgjwt.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fmt.Errorf("invalid authorization header format")
	}

	claims, err := manager.ValidateToken(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

func applyClaims(c *gin.Context, claims *pkgjwt.Claims) error {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return fmt.Errorf("invalid user ID in token")
	}

	c.Set("userID", userID)
	c.Set("role", claims.Role)
	return nil
}

// AuthMiddleware validates the JWT issued by the host application and puts
// userID and role into the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	manager := pkgjwt.NewManager(jwtSecret)

	return func(c *gin.Context) {
		claims, err := parseBearerToken(c, manager)
		if err != nil {
			c.JSON(401, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if err := applyClaims(c, claims); err != nil {
			c.JSON(401, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuthMiddleware resolves the user when a token is present but lets
// anonymous requests through. Review submission allows anonymous authors.
func OptionalAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	manager := pkgjwt.NewManager(jwtSecret)

	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}

		claims, err := parseBearerToken(c, manager)
		if err != nil {
			c.JSON(401, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if err := applyClaims(c, claims); err != nil {
			c.JSON(401, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Next()
	}
}
