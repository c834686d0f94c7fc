// Package middleware provides HTTP middleware components for the application.
package middleware

import (
	"log"
	"strings"

	"kudi/internal/models"
	"kudi/internal/services/auth"
	"kudi/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates access tokens and stores the caller's claims in
// the request context.
type AuthMiddleware struct {
	authService auth.Service
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Handler rejects the request unless it carries a valid, unrevoked bearer
// access token. Revocation compares the token version with the identity's
// current one.
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	_, claims, err := utils.ParseToken(tokenString, models.TokenKindAccess)
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return utils.Unauthorized(c, "invalid token")
	}

	currentVersion, err := m.authService.GetTokenVersion(c.UserContext(), claims.IdentityID)
	if err != nil {
		log.Printf("Identity %s from token not found: %v", claims.IdentityID, err)
		return utils.Unauthorized(c, "invalid token")
	}
	if claims.TokenVersion != currentVersion {
		log.Printf("Token version mismatch for identity %s. Token: %d, current: %d",
			claims.IdentityID, claims.TokenVersion, currentVersion)
		return utils.Unauthorized(c, "session expired")
	}

	c.Locals("claims", claims)
	c.Locals("identityID", claims.IdentityID)
	return c.Next()
}
