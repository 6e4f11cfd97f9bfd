package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JoeShih716/go-account-system/internal/app/account/domain"
)

// handleCreateAccount POST /api/account
func (s *Server) handleCreateAccount(c *fiber.Ctx) error {
	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, domain.NewAccountError(domain.ErrCodeInvalidRequest))
	}
	if req.UserID == "" || req.InitialBalance < 0 {
		return writeError(c, domain.NewAccountError(domain.ErrCodeInvalidRequest))
	}

	out, err := s.accounts.CreateAccount(c.UserContext(), req.UserID, req.InitialBalance)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(CreateAccountResponse{
		UserID:        out.UserID,
		AccountNumber: out.AccountNumber,
		CreatedAt:     out.CreatedAt,
	})
}

// handleCloseAccount DELETE /api/account
func (s *Server) handleCloseAccount(c *fiber.Ctx) error {
	var req CloseAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, domain.NewAccountError(domain.ErrCodeInvalidRequest))
	}
	if req.UserID == "" || req.AccountNumber == "" {
		return writeError(c, domain.NewAccountError(domain.ErrCodeInvalidRequest))
	}

	out, err := s.accounts.CloseAccount(c.UserContext(), req.UserID, req.AccountNumber)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(CloseAccountResponse{
		UserID:        out.UserID,
		AccountNumber: out.AccountNumber,
		ClosedAt:      out.ClosedAt,
	})
}

// handleGetAccounts GET /api/account/:userId
func (s *Server) handleGetAccounts(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if userID == "" {
		return writeError(c, domain.NewAccountError(domain.ErrCodeInvalidRequest))
	}

	accounts, err := s.accounts.ListAccounts(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}

	summaries := make([]AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		summaries = append(summaries, AccountSummary{
			AccountNumber: account.AccountNumber,
			Balance:       account.Balance,
		})
	}

	return c.JSON(GetAccountsResponse{
		UserID:   userID,
		Accounts: summaries,
	})
}
