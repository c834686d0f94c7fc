package handlers

import (
	"kudi/internal/models"
	"kudi/internal/utils"
	"kudi/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

func (h *BankingHandler) GetBankAccounts(c *fiber.Ctx) error {
	caller, err := utils.CallerID(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	accounts, err := h.bankingService.ListBankAccounts(c.UserContext(), caller)
	if err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "Bank accounts retrieved successfully", accounts)
}

func (h *BankingHandler) CreateBankAccount(c *fiber.Ctx) error {
	caller, err := utils.CallerID(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	var input models.BankAccountInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	account, err := h.bankingService.CreateBankAccount(c.UserContext(), caller, input)
	if err != nil {
		return respondError(c, err)
	}
	return response.Created(c, "Bank account linked", account)
}

func (h *BankingHandler) UpdateBankAccount(c *fiber.Ctx) error {
	caller, err := utils.CallerID(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	id, ok := paramID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid bank account ID")
	}
	var input models.BankAccountInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	account, err := h.bankingService.UpdateBankAccount(c.UserContext(), caller, id, input)
	if err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "Bank account updated", account)
}

func (h *BankingHandler) DeleteBankAccount(c *fiber.Ctx) error {
	caller, err := utils.CallerID(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	id, ok := paramID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid bank account ID")
	}

	if err := h.bankingService.DeleteBankAccount(c.UserContext(), caller, id); err != nil {
		return respondError(c, err)
	}
	return response.NoContent(c)
}
