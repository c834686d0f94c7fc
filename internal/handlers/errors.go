package handlers

import (
	"errors"

	"kudi/internal/utils"
	"kudi/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError writes the HTTP form of a service error.
func respondError(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return utils.ValidationFailed(c, verr.Fields)
	}
	return utils.FromError(c, err)
}

func paramID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
