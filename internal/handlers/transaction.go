package handlers

import (
	"kudi/internal/services/banking"
	"kudi/internal/utils"
	"kudi/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// GetTransactions lists the caller's ledger newest first. With ?recent=true
// it returns the dashboard's short list instead of a page.
func (h *BankingHandler) GetTransactions(c *fiber.Ctx) error {
	caller, err := utils.CallerID(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if c.QueryBool("recent") {
		transactions, err := h.bankingService.ListRecentTransactions(c.UserContext(), caller)
		if err != nil {
			return respondError(c, err)
		}
		return response.Success(c, "Transactions retrieved successfully", transactions)
	}

	pagination := utils.GetPagination(c, 1, banking.RecentTransactionsLimit)
	transactions, total, err := h.bankingService.ListTransactions(c.UserContext(), caller, pagination.Offset, pagination.Limit)
	if err != nil {
		return respondError(c, err)
	}
	pagination.SetTotal(total)
	return c.JSON(utils.NewPaginatedResponse(transactions, pagination))
}

func (h *BankingHandler) DeleteTransaction(c *fiber.Ctx) error {
	caller, err := utils.CallerID(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}
	id, ok := paramID(c)
	if !ok {
		return utils.BadRequest(c, "Invalid transaction ID")
	}

	if err := h.bankingService.DeleteTransaction(c.UserContext(), caller, id); err != nil {
		return respondError(c, err)
	}
	return response.NoContent(c)
}

// CreateVerificationPayment records the caller's pending verification fee.
func (h *BankingHandler) CreateVerificationPayment(c *fiber.Ctx) error {
	caller, err := utils.CallerID(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	id, err := h.bankingService.CreateVerificationPayment(c.UserContext(), caller)
	if err != nil {
		return respondError(c, err)
	}
	return response.Created(c, "Verification payment created", fiber.Map{
		"id":             id,
		"amount":         banking.VerificationFee.StringFixed(2),
		"recipient_name": banking.VerificationRecipientName,
		"recipient_bank": banking.VerificationRecipientBank,
		"account_number": banking.VerificationRecipientAccount,
	})
}
