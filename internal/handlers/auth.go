package handlers

import (
	"log"
	"time"

	"kudi/internal/config"
	"kudi/internal/services/auth"
	"kudi/internal/utils"
	"kudi/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an identity and signs it in.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input auth.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	identity, pair, err := h.authService.Register(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}

	h.setAuthCookies(c, pair)
	return response.Created(c, "Registration successful", fiber.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"identity":      identity,
	})
}

// Login authenticates with email or phone and a password.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	identity, pair, err := h.authService.Login(c.UserContext(), input.Email, input.Phone, input.Password)
	if err != nil {
		return respondError(c, err)
	}

	h.setAuthCookies(c, pair)
	return response.Success(c, "Login successful", fiber.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"identity":      identity,
	})
}

// Refresh exchanges a refresh token, from the cookie or the body, for a new pair.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		var input struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&input); err != nil {
			return utils.Unauthorized(c, "Refresh token not provided")
		}
		refreshToken = input.RefreshToken
	}
	if refreshToken == "" {
		return utils.Unauthorized(c, "Refresh token not provided")
	}

	pair, err := h.authService.RefreshTokens(c.UserContext(), refreshToken)
	if err != nil {
		log.Printf("Token refresh failed: %v", err)
		return respondError(c, err)
	}

	h.setAuthCookies(c, pair)
	return response.Success(c, "Token refreshed", pair)
}

// Logout revokes every token of the caller.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	caller, err := utils.CallerID(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	if err := h.authService.Logout(c.UserContext(), caller); err != nil {
		return respondError(c, err)
	}

	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   config.IsProduction(),
			Path:     "/",
		})
	}
	return response.Success(c, "Successfully logged out", nil)
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, pair *auth.TokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    pair.AccessToken,
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		Path:     "/",
		SameSite: "Strict",
		MaxAge:   int(utils.AccessTokenTTL.Seconds()),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    pair.RefreshToken,
		HTTPOnly: true,
		Secure:   config.IsProduction(),
		Path:     "/",
		SameSite: "Strict",
		MaxAge:   int(utils.RefreshTokenTTL.Seconds()),
	})
}
