package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/JoeShih716/go-account-system/internal/app/account/domain"
)

// handleDebit POST /api/transaction/debit
func (s *Server) handleDebit(c *fiber.Ctx) error {
	var req DebitRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, domain.NewAccountError(domain.ErrCodeInvalidRequest))
	}
	if req.UserID == "" || req.AccountNumber == "" || req.Amount <= 0 {
		return writeError(c, domain.NewAccountError(domain.ErrCodeInvalidRequest))
	}

	out, err := s.transactions.Debit(c.UserContext(), req.UserID, req.AccountNumber, req.Amount)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(TransactionResponse{
		AccountNumber:     out.AccountNumber,
		TransactionResult: string(out.Result),
		TransactionID:     out.TransactionID,
		Amount:            out.Amount,
		TransactedAt:      out.TransactedAt,
	})
}

// handleCancel POST /api/transaction/cancel
func (s *Server) handleCancel(c *fiber.Ctx) error {
	var req CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, domain.NewAccountError(domain.ErrCodeInvalidRequest))
	}
	if req.TransactionID <= 0 || req.AccountNumber == "" || req.Amount <= 0 {
		return writeError(c, domain.NewAccountError(domain.ErrCodeInvalidRequest))
	}

	out, err := s.transactions.Cancel(c.UserContext(), req.TransactionID, req.AccountNumber, req.Amount)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(TransactionResponse{
		AccountNumber:     out.AccountNumber,
		TransactionResult: string(out.Result),
		TransactionID:     out.TransactionID,
		Amount:            out.Amount,
		TransactedAt:      out.TransactedAt,
	})
}

// handleGetTransaction GET /api/transaction/:transactionId
func (s *Server) handleGetTransaction(c *fiber.Ctx) error {
	transactionID, err := strconv.ParseInt(c.Params("transactionId"), 10, 64)
	if err != nil {
		return writeError(c, domain.NewAccountError(domain.ErrCodeInvalidRequest))
	}

	out, err := s.transactions.GetTransaction(c.UserContext(), transactionID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(GetTransactionResponse{
		AccountNumber:     out.AccountNumber,
		TransactionType:   string(out.Type),
		TransactionResult: string(out.Result),
		TransactionID:     out.TransactionID,
		Amount:            out.Amount,
		TransactedAt:      out.TransactedAt,
	})
}
