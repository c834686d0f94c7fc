package utils

import (
	"errors"
	"log"

	apperrors "kudi/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
}

// ValidationFailed sends the per-field errors of a request with status 400.
func ValidationFailed(c *fiber.Ctx, fields map[string]string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{
		"error":  "validation failed",
		"code":   apperrors.CodeInvalidRequest,
		"fields": fields,
	})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"error": message})
}

var statusByCode = map[string]int{
	apperrors.CodeInvalidAmount:     fiber.StatusUnprocessableEntity,
	apperrors.CodeInvalidRequest:    fiber.StatusBadRequest,
	apperrors.CodeRowLevelSecurity:  fiber.StatusForbidden,
	apperrors.CodeImmutable:         fiber.StatusForbidden,
	apperrors.CodeNotFound:          fiber.StatusNotFound,
	apperrors.CodeConflict:          fiber.StatusConflict,
	apperrors.CodeInvalidCredential: fiber.StatusUnauthorized,
	apperrors.CodeUnauthenticated:   fiber.StatusUnauthorized,
}

// FromError maps a domain error to its HTTP status. Errors without a domain
// code, and data access failures, are logged and reported as 500.
func FromError(c *fiber.Ctx, err error) error {
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return InternalError(c, "internal server error")
	}
	status, ok := statusByCode[de.Code]
	if !ok {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return InternalError(c, "internal server error")
	}
	return Respond(c, status, fiber.Map{"error": de.Message, "code": de.Code})
}
