package handlers

import (
	"kudi/internal/services/banking"
	"kudi/internal/utils"
	"kudi/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// BankingHandler serves the caller's profile, ledger, bank accounts and
// audit trail.
type BankingHandler struct {
	bankingService banking.Service
}

func NewBankingHandler(bankingService banking.Service) *BankingHandler {
	return &BankingHandler{
		bankingService: bankingService,
	}
}

// GetDashboard returns everything the dashboard renders on mount.
func (h *BankingHandler) GetDashboard(c *fiber.Ctx) error {
	caller, err := utils.CallerID(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	dashboard, err := h.bankingService.Dashboard(c.UserContext(), caller)
	if err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "Dashboard data retrieved successfully", dashboard)
}

// GetProfile returns a fresh read of the caller's profile.
func (h *BankingHandler) GetProfile(c *fiber.Ctx) error {
	caller, err := utils.CallerID(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	profile, err := h.bankingService.RefreshProfile(c.UserContext(), caller)
	if err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "Profile retrieved successfully", profile)
}

// GetAuditLogs pages through the caller's audit trail.
func (h *BankingHandler) GetAuditLogs(c *fiber.Ctx) error {
	caller, err := utils.CallerID(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	pagination := utils.GetPagination(c, 1, 20)
	logs, total, err := h.bankingService.ListAuditLogs(c.UserContext(), caller, pagination.Offset, pagination.Limit)
	if err != nil {
		return respondError(c, err)
	}
	pagination.SetTotal(total)
	return c.JSON(utils.NewPaginatedResponse(logs, pagination))
}
